// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/okian/riskgauge/internal/adapters/kv"
	"github.com/okian/riskgauge/internal/adapters/persistence"
	"github.com/okian/riskgauge/internal/adapters/repository"
	"github.com/okian/riskgauge/internal/domain/catalog"
	"github.com/okian/riskgauge/internal/domain/model"
	"github.com/okian/riskgauge/internal/domain/scoring"
	"github.com/okian/riskgauge/pkg/logger"
	"github.com/okian/riskgauge/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	defaultLoadConcurrency = 8
	defaultSavedFlagTTL    = 2 * time.Second
)

// Service implements the dashboard operations on top of the indicator
// store, the persistence adapter and the scoring engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	backend kv.Store
	store   *repository.Store
	persist *persistence.Repository
	saved   *savedFlags
	locks   keyedMutex

	// Configuration
	seed            model.Categories
	loadConcurrency int
	savedFlagTTL    time.Duration
	now             func() time.Time

	// State
	started bool
	ready   atomic.Bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalog replaces the built-in catalog used to seed the store.
func WithCatalog(cats model.Categories) Option {
	return func(s *Service) {
		if cats != nil {
			s.seed = cats.Clone()
		}
	}
}

// WithLoadConcurrency bounds parallel reads during startup hydration.
func WithLoadConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.loadConcurrency = n
		}
	}
}

// WithSavedFlagTTL sets how long an indicator reports a recent save.
func WithSavedFlagTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.savedFlagTTL = d
		}
	}
}

// WithClock replaces time.Now for save stamps, exports and freshness.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service over backend. The service owns backend and
// closes it in Stop.
func New(backend kv.Store, opts ...Option) *Service {
	s := &Service{
		backend:         backend,
		seed:            catalog.Default(),
		loadConcurrency: defaultLoadConcurrency,
		savedFlagTTL:    defaultSavedFlagTTL,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.store = repository.NewStore(
		repository.WithCategories(s.seed),
		repository.WithObserver(publishScores),
	)
	s.persist = persistence.New(backend,
		persistence.WithClock(s.now),
		persistence.WithLogger(s.logger.Named("persistence")),
	)
	s.saved = newSavedFlags(s.savedFlagTTL)
	publishScores(s.store.Snapshot())
	return s
}

// publishScores mirrors derived scores into gauges after each mutation.
func publishScores(cats model.Categories) {
	res := scoring.Evaluate(cats)
	metrics.UpdateRiskScore(metrics.ScopeOverall, res.Overall.Value, res.Overall.Defined)
	for _, c := range res.Categories {
		metrics.UpdateRiskScore(c.Key, c.Score.Value, c.Score.Defined)
	}
}

// Start hydrates the store from the backend. Until it returns, Ready is false.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "hydrating indicator store...", logger.Int("indicators", s.store.Snapshot().Count()))
	start := time.Now()
	applied, err := s.hydrate(ctx)
	if err != nil {
		return err
	}

	s.started = true
	s.ready.Store(true)
	s.logger.Info(ctx, "risk service started",
		logger.Int("restored", applied),
		logger.Int("loadConcurrency", s.loadConcurrency),
		logger.Any("took", time.Since(start).String()),
	)
	return nil
}

// hydrate loads every catalog indicator concurrently. Loads never fail;
// only cancellation of ctx aborts hydration.
func (s *Service) hydrate(ctx context.Context) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.loadConcurrency)

	var applied atomic.Int64
	for _, c := range s.store.Snapshot() {
		for _, ind := range c.Indicators {
			category, id := c.Key, ind.ID
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				rec, ok := s.persist.Load(gctx, category, id)
				if !ok {
					return nil
				}
				if err := s.store.ApplyPersistedPatch(category, id, rec); err != nil {
					return err
				}
				applied.Add(1)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return 0, goerr.Wrap(err, "hydrate indicator store")
	}
	return int(applied.Load()), nil
}

// Ready reports whether startup hydration has finished.
func (s *Service) Ready() bool {
	return s.ready.Load()
}

// Stop cancels pending saved-flag timers and closes the backend.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saved.Stop()
	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.Warn(context.Background(), "failed to close storage backend", logger.Error(err))
		}
		s.backend = nil
	}
	s.started = false
	s.ready.Store(false)
	s.logger.Info(context.Background(), "risk service stopped")
}

// Snapshot returns the current indicator store state. Treat it as read-only.
func (s *Service) Snapshot() model.Categories {
	return s.store.Snapshot()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.store.Snapshot()
	return map[string]interface{}{
		"started":         s.started,
		"ready":           s.ready.Load(),
		"categories":      len(snap),
		"indicators":      snap.Count(),
		"savedFlags":      s.saved.Count(),
		"loadConcurrency": s.loadConcurrency,
	}
}
