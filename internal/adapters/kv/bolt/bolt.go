// Package bolt stores key-value pairs in a single bbolt bucket.
package bolt

import (
	"context"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"go.etcd.io/bbolt"
)

const (
	fileMode    = 0600
	openTimeout = 1 * time.Second

	// DefaultBucket is used when no bucket name is given.
	DefaultBucket = "indicators"
)

// Store is a bbolt-backed key-value store.
type Store struct {
	db     *bbolt.DB
	bucket []byte
}

// Open opens or creates the database file at path and ensures the bucket exists.
func Open(path, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	db, err := bbolt.Open(filepath.Clean(path), fileMode, &bbolt.Options{
		Timeout:      openTimeout,
		FreelistType: bbolt.FreelistArrayType,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "open bolt database", goerr.V("path", path))
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "create bolt bucket", goerr.V("bucket", bucket))
	}
	return &Store{db: db, bucket: []byte(bucket)}, nil
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		// Bytes returned by Get are only valid inside the transaction.
		if v := b.Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, goerr.Wrap(err, "bolt get", goerr.V("key", key))
	}
	return value, found, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return goerr.Wrap(err, "bolt put", goerr.V("key", key))
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }
