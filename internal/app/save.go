package service

import (
	"context"
	"sync"

	"github.com/okian/riskgauge/internal/adapters/persistence"
	"github.com/okian/riskgauge/internal/domain/model"
	"github.com/okian/riskgauge/pkg/logger"
)

// Save persists the indicator's current value and weight. The store only
// reflects the new lastUpdated after the write succeeded; on failure it is
// left untouched. Saves of the same indicator are serialized, and a started
// save is not abandoned when ctx is cancelled.
func (s *Service) Save(ctx context.Context, category, id string) (model.Record, error) {
	key := persistence.Key(category, id)
	unlock := s.locks.Lock(key)
	defer unlock()

	ind, err := s.store.Indicator(category, id)
	if err != nil {
		return model.Record{}, err
	}

	rec, err := s.persist.Save(context.WithoutCancel(ctx), category, id, ind.Value, ind.Weight)
	if err != nil {
		s.logger.Warn(ctx, "indicator save failed", logger.String("key", key), logger.Error(err))
		return model.Record{}, err
	}

	if err := s.store.SetLastUpdated(category, id, *rec.LastUpdated); err != nil {
		return model.Record{}, err
	}
	s.saved.Mark(key)
	s.logger.Info(ctx, "indicator saved",
		logger.String("key", key), logger.Float64("value", rec.Value), logger.Float64("weight", rec.Weight))
	return rec, nil
}

// Saved reports whether the indicator was saved within the saved-flag TTL.
func (s *Service) Saved(category, id string) bool {
	return s.saved.Active(persistence.Key(category, id))
}

// keyedMutex hands out one mutex per key. Keys are never evicted; the
// catalog is small and fixed.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Lock acquires the mutex for key and returns its release function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
