// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/okian/riskgauge/internal/adapters/http/swagger"
	"github.com/okian/riskgauge/internal/adapters/persistence"
	"github.com/okian/riskgauge/internal/adapters/repository"
	"github.com/okian/riskgauge/internal/domain/model"
	"github.com/okian/riskgauge/internal/domain/numeric"
	"github.com/okian/riskgauge/internal/domain/transfer"
	"github.com/okian/riskgauge/internal/domain/types"
	"github.com/okian/riskgauge/pkg/logger"
	"github.com/okian/riskgauge/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultMaxImportBytes = 1 << 20
	defaultRequestTimeout = 10 * time.Second
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	Ready() bool
	Report(ctx context.Context) types.Report
	Snapshot() model.Categories

	SetIndicatorValue(ctx context.Context, category, id string, value float64) error
	SetIndicatorWeight(ctx context.Context, category, id string, weight float64) error
	SetCategoryWeight(ctx context.Context, category string, weight float64) error
	Save(ctx context.Context, category, id string) (model.Record, error)

	Export(ctx context.Context) (string, []byte, error)
	Import(ctx context.Context, data []byte) (types.ImportReport, error)
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	router    *chi.Mux
	logger    logger.Logger
	readiness ReadinessProvider

	maxImportBytes int64
	requestTimeout time.Duration

	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	indicatorHandler *IndicatorHandler
	transferHandler  *TransferHandler
}

// Option configures the Server.
type Option func(*Server)

// WithMaxImportBytes caps the accepted import body size.
func WithMaxImportBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxImportBytes = n
		}
	}
}

// WithRequestTimeout bounds each request's context.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithLogger sets the access and error logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers and routes.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		readiness:      deps,
		maxImportBytes: defaultMaxImportBytes,
		requestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("http")
	}

	s.healthHandler = NewHealthHandler(deps)
	s.statsHandler = NewStatsHandler(deps)
	s.indicatorHandler = NewIndicatorHandler(deps, s.logger)
	s.transferHandler = NewTransferHandler(deps, s.maxImportBytes, s.logger)
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	swagger.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.requestTimeout))

		r.Get("/stats", s.statsHandler.HandleStats)

		r.Group(func(r chi.Router) {
			r.Use(requireReady(s.readiness))

			r.Get("/report", s.indicatorHandler.HandleReport)
			r.Get("/indicators", s.indicatorHandler.HandleSnapshot)
			r.Put("/categories/{category}/weight", s.indicatorHandler.HandleCategoryWeight)
			r.Route("/indicators/{category}/{indicator}", func(r chi.Router) {
				r.Put("/", s.indicatorHandler.HandleEdit)
				r.Post("/save", s.indicatorHandler.HandleSave)
			})
			r.Get("/export", s.transferHandler.HandleExport)
			r.Post("/import", s.transferHandler.HandleImport)
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before committing the status so an encoding failure
// still produces a well-formed 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "internal_error", Message: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps domain errors onto HTTP statuses.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrIndicatorNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, numeric.ErrMalformedNumber),
		errors.Is(err, numeric.ErrNegativeWeight),
		errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrEmptyEdit):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, transfer.ErrMalformedDocument),
		errors.Is(err, transfer.ErrMissingIndicators):
		return http.StatusBadRequest, "invalid_document"
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, persistence.ErrWrite):
		return http.StatusBadGateway, "storage_error"
	case errors.Is(err, ErrServiceWarming):
		return http.StatusServiceUnavailable, "starting"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
