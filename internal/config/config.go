// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New(ctx) builds a Config with defaults; Load layers file and env on top.
//   - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"time"

	"github.com/okian/riskgauge/internal/adapters/kv"
	"github.com/okian/riskgauge/pkg/metrics"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StorageBackend is one of memory, bolt, badger, firestore, nats.
	StorageBackend string `koanf:"storage_backend"`

	BoltPath   string `koanf:"bolt_path"`
	BoltBucket string `koanf:"bolt_bucket"`

	// BadgerPath is the data directory; empty runs badger in memory.
	BadgerPath string `koanf:"badger_path"`

	FirestoreProjectID  string `koanf:"firestore_project_id"`
	FirestoreDatabaseID string `koanf:"firestore_database_id"`
	FirestoreCollection string `koanf:"firestore_collection"`

	NATSURL    string `koanf:"nats_url"`
	NATSBucket string `koanf:"nats_bucket"`
	NATSToken  string `koanf:"nats_token" masq:"secret"`

	// LoadConcurrency bounds parallel reads while hydrating at startup.
	LoadConcurrency int `koanf:"load_concurrency"`

	// SavedFlagTTLMS is how long an indicator reports "saved" after a write.
	SavedFlagTTLMS int `koanf:"saved_flag_ttl_ms"`

	// RequestTimeoutMS bounds each HTTP request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// MaxImportBytes caps the size of an uploaded import document.
	MaxImportBytes int64 `koanf:"max_import_bytes"`

	MetricsEnabled bool `koanf:"metrics_enabled"`
	// MetricsNamespace and MetricsSubsystem form the first two name segments,
	// e.g. riskgauge_dashboard_risk_score.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`
	MetricsPrefix    string `koanf:"metrics_prefix"`
	// MetricsLabels are constant labels added to every series.
	MetricsLabels map[string]string `koanf:"metrics_labels"`
	// MetricsBucketsMS overrides the latency histogram bounds.
	MetricsBucketsMS []float64 `koanf:"metrics_buckets_ms"`
	MetricsRefreshMS int       `koanf:"metrics_refresh_ms"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		StorageBackend:      kv.BackendMemory,
		BoltPath:            "riskgauge.db",
		BoltBucket:          "indicators",
		FirestoreCollection: "indicators",
		NATSBucket:          "riskgauge",
		LoadConcurrency:     8,
		SavedFlagTTLMS:      2000,
		RequestTimeoutMS:    10_000,
		MaxImportBytes:      1 << 20,
		MetricsEnabled:      true,
		MetricsNamespace:    "riskgauge",
		MetricsSubsystem:    "dashboard",
		MetricsRefreshMS:    10_000,
	}
}

// StorageOptions maps the storage settings onto kv.Options.
func (c *Config) StorageOptions() kv.Options {
	return kv.Options{
		Backend:             c.StorageBackend,
		BoltPath:            c.BoltPath,
		BoltBucket:          c.BoltBucket,
		BadgerPath:          c.BadgerPath,
		FirestoreProjectID:  c.FirestoreProjectID,
		FirestoreDatabaseID: c.FirestoreDatabaseID,
		FirestoreCollection: c.FirestoreCollection,
		NATSURL:             c.NATSURL,
		NATSBucket:          c.NATSBucket,
		NATSToken:           c.NATSToken,
	}
}

// MetricsOptions maps the metrics settings onto metrics.Configure options.
func (c *Config) MetricsOptions() []metrics.Option {
	return []metrics.Option{
		metrics.WithMetricsEnabled(c.MetricsEnabled),
		metrics.WithNamespace(c.MetricsNamespace),
		metrics.WithSubsystem(c.MetricsSubsystem),
		metrics.WithMetricPrefix(c.MetricsPrefix),
		metrics.WithCustomLabels(c.MetricsLabels),
		metrics.WithHistogramBuckets(c.MetricsBucketsMS),
		metrics.WithRefreshInterval(time.Duration(c.MetricsRefreshMS) * time.Millisecond),
	}
}

// SavedFlagTTL returns SavedFlagTTLMS as a duration.
func (c *Config) SavedFlagTTL() time.Duration {
	return time.Duration(c.SavedFlagTTLMS) * time.Millisecond
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}
