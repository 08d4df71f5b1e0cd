// Package repository holds the in-memory indicator store, the single source
// of truth for current indicator values and weights.
package repository

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/okian/riskgauge/internal/domain/model"
	"github.com/okian/riskgauge/pkg/metrics"
)

// Observer is notified with the latest snapshot after each mutation.
// Observers run synchronously on the mutating goroutine, outside the store
// lock, one notification at a time. An observer must not mutate the store.
type Observer func(model.Categories)

// Store keeps categories in order and publishes immutable snapshots.
// Mutations are serialized; readers never block.
type Store struct {
	mu         sync.Mutex
	categories model.Categories
	observers  []Observer

	notifyMu sync.Mutex

	snapshot atomic.Pointer[model.Categories]
}

// NewStore creates a store, empty unless seeded with WithCategories.
func NewStore(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	if s.categories == nil {
		s.categories = model.Categories{}
	}
	s.publishLocked()
	return s
}

// Snapshot returns the current state. It must be treated as read-only.
func (s *Store) Snapshot() model.Categories {
	return *s.snapshot.Load()
}

// Indicator returns one indicator from the current snapshot.
func (s *Store) Indicator(category, id string) (model.Indicator, error) {
	cats := s.Snapshot()
	ci, ok := cats.Find(category)
	if !ok {
		return model.Indicator{}, goerr.Wrap(ErrCategoryNotFound, "lookup", goerr.V("category", category))
	}
	ii, ok := cats[ci].Find(id)
	if !ok {
		return model.Indicator{}, goerr.Wrap(ErrIndicatorNotFound, "lookup",
			goerr.V("category", category), goerr.V("indicator", id))
	}
	return cats[ci].Indicators[ii], nil
}

// Subscribe adds an observer and returns a function that removes it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
	idx := len(s.observers) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.observers) {
			s.observers[idx] = nil
		}
	}
}

// SetIndicatorValue replaces one indicator's value. lastUpdated is untouched.
func (s *Store) SetIndicatorValue(category, id string, value float64) error {
	return s.updateIndicator("set_value", category, id, func(ind *model.Indicator) {
		ind.Value = value
	})
}

// SetIndicatorWeight replaces one indicator's weight. lastUpdated is untouched.
func (s *Store) SetIndicatorWeight(category, id string, weight float64) error {
	return s.updateIndicator("set_weight", category, id, func(ind *model.Indicator) {
		ind.Weight = weight
	})
}

// SetLastUpdated records a successful save of one indicator.
func (s *Store) SetLastUpdated(category, id string, ts time.Time) error {
	return s.updateIndicator("set_last_updated", category, id, func(ind *model.Indicator) {
		t := ts
		ind.LastUpdated = &t
	})
}

// ApplyPersistedPatch overwrites value, weight and lastUpdated from a stored record.
func (s *Store) ApplyPersistedPatch(category, id string, rec model.Record) error {
	return s.updateIndicator("apply_patch", category, id, func(ind *model.Indicator) {
		*ind = ind.Apply(rec)
	})
}

// SetCategoryWeight replaces one category's weight.
func (s *Store) SetCategoryWeight(category string, weight float64) error {
	s.mu.Lock()
	ci, ok := s.categories.Find(category)
	if !ok {
		s.mu.Unlock()
		return goerr.Wrap(ErrCategoryNotFound, "set category weight", goerr.V("category", category))
	}
	s.categories[ci].Weight = weight
	observers := s.commitLocked()
	s.mu.Unlock()

	metrics.RecordStoreMutation("set_category_weight")
	s.notify(observers)
	return nil
}

// ReplaceAll swaps the whole structure atomically. The input is copied.
func (s *Store) ReplaceAll(cats model.Categories) {
	next := cats.Clone()
	if next == nil {
		next = model.Categories{}
	}
	s.mu.Lock()
	s.categories = next
	observers := s.commitLocked()
	s.mu.Unlock()

	metrics.RecordStoreMutation("replace_all")
	s.notify(observers)
}

func (s *Store) updateIndicator(op, category, id string, mutate func(*model.Indicator)) error {
	s.mu.Lock()
	ci, ok := s.categories.Find(category)
	if !ok {
		s.mu.Unlock()
		return goerr.Wrap(ErrCategoryNotFound, op, goerr.V("category", category))
	}
	ii, ok := s.categories[ci].Find(id)
	if !ok {
		s.mu.Unlock()
		return goerr.Wrap(ErrIndicatorNotFound, op, goerr.V("category", category), goerr.V("indicator", id))
	}
	mutate(&s.categories[ci].Indicators[ii])
	observers := s.commitLocked()
	s.mu.Unlock()

	metrics.RecordStoreMutation(op)
	s.notify(observers)
	return nil
}

// commitLocked publishes a snapshot and copies the observer list. Caller holds mu.
func (s *Store) commitLocked() []Observer {
	s.publishLocked()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	return observers
}

// publishLocked stores a deep copy of the working state as the new snapshot.
func (s *Store) publishLocked() {
	snap := s.categories.Clone()
	s.snapshot.Store(&snap)
}

// notify hands observers the snapshot current at notification time, so the
// last notification always carries the latest state.
func (s *Store) notify(observers []Observer) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	snap := s.Snapshot()
	for _, fn := range observers {
		if fn != nil {
			fn(snap)
		}
	}
}
