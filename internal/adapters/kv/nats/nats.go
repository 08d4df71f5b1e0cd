// Package nats keeps key-value pairs in a NATS JetStream key-value bucket.
package nats

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	// DefaultBucket is used when no bucket name is given.
	DefaultBucket = "riskgauge"

	connectTimeout = 5 * time.Second
)

// Store is a JetStream KV-backed key-value store.
type Store struct {
	conn *natsgo.Conn
	kv   jetstream.KeyValue
}

// Option configures the connection.
type Option func(*settings)

type settings struct {
	token  string
	bucket string
}

// WithToken authenticates with a token.
func WithToken(token string) Option {
	return func(s *settings) { s.token = token }
}

// WithBucket overrides the bucket name.
func WithBucket(bucket string) Option {
	return func(s *settings) {
		if bucket != "" {
			s.bucket = bucket
		}
	}
}

// Open connects to url and binds the bucket, creating it when missing.
func Open(ctx context.Context, url string, opts ...Option) (*Store, error) {
	cfg := settings{bucket: DefaultBucket}
	for _, opt := range opts {
		opt(&cfg)
	}

	natsOpts := []natsgo.Option{natsgo.Name("riskgauge"), natsgo.Timeout(connectTimeout)}
	if cfg.token != "" {
		natsOpts = append(natsOpts, natsgo.Token(cfg.token))
	}
	nc, err := natsgo.Connect(url, natsOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "connect nats", goerr.V("url", url))
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, goerr.Wrap(err, "create jetstream context")
	}

	kv, err := js.KeyValue(ctx, cfg.bucket)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: cfg.bucket})
	}
	if err != nil {
		nc.Close()
		return nil, goerr.Wrap(err, "bind key-value bucket", goerr.V("bucket", cfg.bucket))
	}
	return &Store{conn: nc, kv: kv}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	entry, err := s.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, goerr.Wrap(err, "nats kv get", goerr.V("key", key))
	}
	return string(entry.Value()), true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := s.kv.PutString(ctx, key, value); err != nil {
		return goerr.Wrap(err, "nats kv put", goerr.V("key", key))
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (s *Store) Close() error {
	return s.conn.Drain()
}
