// Package kv defines the asynchronous key-value boundary the persistence
// layer writes through, and opens one of the supported backends.
package kv

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/okian/riskgauge/internal/adapters/kv/badger"
	"github.com/okian/riskgauge/internal/adapters/kv/bolt"
	"github.com/okian/riskgauge/internal/adapters/kv/firestore"
	"github.com/okian/riskgauge/internal/adapters/kv/memory"
	"github.com/okian/riskgauge/internal/adapters/kv/nats"
)

// Backend names accepted by Open.
const (
	BackendMemory    = "memory"
	BackendBolt      = "bolt"
	BackendBadger    = "badger"
	BackendFirestore = "firestore"
	BackendNATS      = "nats"
)

// ErrUnknownBackend is returned for a backend name Open does not know.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store is a string key-value store. Get reports absence with found=false
// and a nil error; errors are reserved for backend failures.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

var (
	_ Store = (*memory.Store)(nil)
	_ Store = (*bolt.Store)(nil)
	_ Store = (*badger.Store)(nil)
	_ Store = (*firestore.Store)(nil)
	_ Store = (*nats.Store)(nil)
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	BoltPath   string
	BoltBucket string

	BadgerPath string

	FirestoreProjectID  string
	FirestoreDatabaseID string
	FirestoreCollection string

	NATSURL    string
	NATSBucket string
	NATSToken  string `masq:"secret"`
}

// Open builds the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendMemory:
		return memory.New(), nil
	case BackendBolt:
		if opts.BoltPath == "" {
			return nil, goerr.New("bolt backend requires a path")
		}
		return wrap(bolt.Open(opts.BoltPath, opts.BoltBucket))
	case BackendBadger:
		if opts.BadgerPath == "" {
			return wrap(badger.OpenInMemory())
		}
		return wrap(badger.Open(opts.BadgerPath))
	case BackendFirestore:
		if opts.FirestoreProjectID == "" {
			return nil, goerr.New("firestore backend requires a project id")
		}
		return wrap(firestore.New(ctx, opts.FirestoreProjectID, opts.FirestoreDatabaseID,
			firestore.WithCollection(opts.FirestoreCollection)))
	case BackendNATS:
		if opts.NATSURL == "" {
			return nil, goerr.New("nats backend requires a url")
		}
		return wrap(nats.Open(ctx, opts.NATSURL, nats.WithBucket(opts.NATSBucket), nats.WithToken(opts.NATSToken)))
	default:
		return nil, goerr.Wrap(ErrUnknownBackend, "open storage", goerr.V("backend", opts.Backend))
	}
}

// wrap keeps a failed constructor from yielding a non-nil interface around a nil pointer.
func wrap[T Store](s T, err error) (Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
