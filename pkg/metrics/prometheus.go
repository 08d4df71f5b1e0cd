// Package metrics provides Prometheus metrics for the risk dashboard service.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Result labels shared by the persistence counters.
const (
	ResultOK          = "ok"
	ResultHit         = "hit"
	ResultMiss        = "miss"
	ResultDecodeError = "decode_error"
	ResultError       = "error"
	ResultParseError  = "parse_error"
)

// ScopeOverall is the score gauge label for the overall score.
const ScopeOverall = "overall"

// Manager manages all Prometheus metrics for the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          atomic.Bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Persistence
	indicatorLoads       *prometheus.CounterVec
	indicatorSaves       *prometheus.CounterVec
	indicatorSaveLatency prometheus.Histogram

	// Import/export
	importWrites *prometheus.CounterVec
	imports      *prometheus.CounterVec
	exports      prometheus.Counter

	// Store and scores
	storeMutations *prometheus.CounterVec
	riskScore      *prometheus.GaugeVec
	riskDefined    *prometheus.GaugeVec
	savedFlags     prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// global holds the process-wide manager and the registry it writes to.
// Configure swaps both, so readers always see a matching pair.
var global atomic.Pointer[globalState] //nolint:gochecknoglobals // intentional global for singleton metrics manager

type globalState struct {
	manager  *Manager
	registry *prometheus.Registry
}

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	Configure()
}

// Configure rebuilds the global manager on a fresh registry with opts applied.
// Call it once at startup, before the /metrics handler is created.
// A registry passed through WithPrometheusRegistry is ignored here.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	opts = append(opts, WithPrometheusRegistry(registry))
	global.Store(&globalState{manager: NewManager(opts...), registry: registry})
}

func current() *Manager {
	return global.Load().manager
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "riskgauge",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	m.enabled.Store(true)

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	return m.metricPrefix + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.indicatorLoads = auto.NewCounterVec(
		m.counterOpts("indicator_loads_total", "Startup loads of persisted indicators by result"),
		[]string{"result"},
	)
	m.indicatorSaves = auto.NewCounterVec(
		m.counterOpts("indicator_saves_total", "Indicator saves by result"),
		[]string{"result"},
	)
	m.indicatorSaveLatency = auto.NewHistogram(
		m.histogramOpts("indicator_save_latency_milliseconds", "Latency of indicator writes to the backend in milliseconds"),
	)

	m.importWrites = auto.NewCounterVec(
		m.counterOpts("import_writes_total", "Per-indicator writes performed during imports by result"),
		[]string{"result"},
	)
	m.imports = auto.NewCounterVec(
		m.counterOpts("imports_total", "Import attempts by result"),
		[]string{"result"},
	)
	m.exports = auto.NewCounter(
		m.counterOpts("exports_total", "Export documents produced"),
	)

	m.storeMutations = auto.NewCounterVec(
		m.counterOpts("store_mutations_total", "Indicator store mutations by operation"),
		[]string{"operation"},
	)
	m.riskScore = auto.NewGaugeVec(
		m.gaugeOpts("risk_score", "Current risk score by scope (overall or category key)"),
		[]string{"scope"},
	)
	m.riskDefined = auto.NewGaugeVec(
		m.gaugeOpts("risk_score_defined", "1 when the score for the scope is defined, 0 when unavailable"),
		[]string{"scope"},
	)
	m.savedFlags = auto.NewGauge(
		m.gaugeOpts("saved_flags_active", "Indicators currently showing a recent-save confirmation"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
}

func active() bool {
	return current().enabled.Load()
}

// SetEnabled turns recording on or off for the global manager.
func SetEnabled(enabled bool) {
	current().enabled.Store(enabled)
}

// RefreshInterval is how often periodic gauges should be refreshed.
func RefreshInterval() time.Duration {
	return current().refreshInterval
}

// RecordIndicatorLoad counts one startup load by result.
func RecordIndicatorLoad(result string) {
	if active() {
		current().indicatorLoads.WithLabelValues(result).Inc()
	}
}

// RecordIndicatorSave counts one save by result.
func RecordIndicatorSave(result string) {
	if active() {
		current().indicatorSaves.WithLabelValues(result).Inc()
	}
}

// RecordSaveLatency records backend write latency in milliseconds.
func RecordSaveLatency(latencyMs float64) {
	if active() {
		current().indicatorSaveLatency.Observe(latencyMs)
	}
}

// RecordImportWrite counts one per-indicator import write by result.
func RecordImportWrite(result string) {
	if active() {
		current().importWrites.WithLabelValues(result).Inc()
	}
}

// RecordImport counts one import attempt by result.
func RecordImport(result string) {
	if active() {
		current().imports.WithLabelValues(result).Inc()
	}
}

// RecordExport counts one export.
func RecordExport() {
	if active() {
		current().exports.Inc()
	}
}

// RecordStoreMutation counts one store mutation.
func RecordStoreMutation(operation string) {
	if active() {
		current().storeMutations.WithLabelValues(operation).Inc()
	}
}

// UpdateRiskScore publishes a score. Undefined scores keep the last value and flip the defined gauge.
func UpdateRiskScore(scope string, value float64, defined bool) {
	if !active() {
		return
	}
	if defined {
		current().riskScore.WithLabelValues(scope).Set(value)
		current().riskDefined.WithLabelValues(scope).Set(1)
		return
	}
	current().riskDefined.WithLabelValues(scope).Set(0)
}

// UpdateSavedFlags sets the number of active saved confirmations.
func UpdateSavedFlags(count int) {
	if active() {
		current().savedFlags.Set(float64(count))
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if active() {
		current().httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if active() {
		current().httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if active() {
		current().errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if active() {
		current().systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if active() {
		current().systemGoroutineCount.Set(float64(count))
	}
}

// GetRegistry returns the registry the global manager writes to.
func GetRegistry() *prometheus.Registry {
	return global.Load().registry
}
