// Package persistence mirrors single indicators to and from a key-value store.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/okian/riskgauge/internal/adapters/kv"
	"github.com/okian/riskgauge/internal/domain/model"
	"github.com/okian/riskgauge/pkg/logger"
	"github.com/okian/riskgauge/pkg/metrics"
)

const keyPrefix = "indicator_"

// Key returns the storage key of an indicator.
func Key(category, id string) string {
	return fmt.Sprintf("%s%s_%s", keyPrefix, category, id)
}

// Option configures the Repository.
type Option func(*Repository)

// WithClock replaces time.Now for save stamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger used for decode and backend failures.
func WithLogger(l logger.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// Repository encodes persisted records into a kv.Store.
type Repository struct {
	store  kv.Store
	now    func() time.Time
	logger logger.Logger
}

// New wraps store.
func New(store kv.Store, opts ...Option) *Repository {
	r := &Repository{store: store, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Named("persistence")
	}
	return r
}

// wireRecord detects missing fields so a partial payload is rejected.
type wireRecord struct {
	Value       *float64   `json:"value"`
	Weight      *float64   `json:"weight"`
	LastUpdated *time.Time `json:"lastUpdated"`
}

// Load returns the stored record for an indicator. Absence, undecodable
// payloads and backend failures all yield ok=false; the latter two are logged.
func (r *Repository) Load(ctx context.Context, category, id string) (model.Record, bool) {
	key := Key(category, id)
	raw, found, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.Error(ctx, "failed to read persisted indicator", logger.String("key", key), logger.Error(err))
		metrics.RecordIndicatorLoad(metrics.ResultError)
		metrics.RecordErrorByComponent("persistence", "read")
		return model.Record{}, false
	}
	if !found {
		metrics.RecordIndicatorLoad(metrics.ResultMiss)
		return model.Record{}, false
	}

	rec, err := decode(raw)
	if err != nil {
		r.logger.Warn(ctx, "ignoring undecodable persisted indicator", logger.String("key", key), logger.Error(err))
		metrics.RecordIndicatorLoad(metrics.ResultDecodeError)
		return model.Record{}, false
	}
	metrics.RecordIndicatorLoad(metrics.ResultHit)
	return rec, true
}

// Save stamps a record with the current time and writes it.
// The stamped record is returned only when the write succeeded.
func (r *Repository) Save(ctx context.Context, category, id string, value, weight float64) (model.Record, error) {
	ts := r.now().UTC()
	rec := model.Record{Value: value, Weight: weight, LastUpdated: &ts}

	start := time.Now()
	err := r.Put(ctx, category, id, rec)
	metrics.RecordSaveLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordIndicatorSave(metrics.ResultError)
		return model.Record{}, err
	}
	metrics.RecordIndicatorSave(metrics.ResultOK)
	return rec, nil
}

// Put writes rec verbatim, keeping its lastUpdated.
func (r *Repository) Put(ctx context.Context, category, id string, rec model.Record) error {
	key := Key(category, id)
	payload, err := json.Marshal(rec)
	if err != nil {
		return goerr.Wrap(ErrWrite, "encode record", goerr.V("key", key), goerr.V("cause", err.Error()))
	}
	if err := r.store.Set(ctx, key, string(payload)); err != nil {
		r.logger.Error(ctx, "failed to write persisted indicator", logger.String("key", key), logger.Error(err))
		metrics.RecordErrorByComponent("persistence", "write")
		return goerr.Wrap(ErrWrite, "write record", goerr.V("key", key), goerr.V("cause", err.Error()))
	}
	return nil
}

func decode(raw string) (model.Record, error) {
	var w wireRecord
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return model.Record{}, err
	}
	if w.Value == nil || w.Weight == nil {
		return model.Record{}, goerr.New("record is missing value or weight")
	}
	return model.Record{Value: *w.Value, Weight: *w.Weight, LastUpdated: w.LastUpdated}, nil
}
