// Package badger stores key-value pairs in a BadgerDB directory.
package badger

import (
	"context"
	"errors"
	"path/filepath"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/m-mizutani/goerr/v2"
)

// Store is a BadgerDB-backed key-value store.
type Store struct {
	db *badgerdb.DB
}

// Open opens or creates a database rooted at dir.
func Open(dir string) (*Store, error) {
	opts := badgerdb.DefaultOptions(filepath.Clean(dir)).WithLoggingLevel(badgerdb.WARNING)
	return open(opts)
}

// OpenInMemory opens a database that never touches disk.
func OpenInMemory() (*Store, error) {
	opts := badgerdb.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badgerdb.WARNING)
	return open(opts)
}

func open(opts badgerdb.Options) (*Store, error) {
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, goerr.Wrap(err, "open badger database", goerr.V("dir", opts.Dir))
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, goerr.Wrap(err, "badger get", goerr.V("key", key))
	}
	return string(value), true, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return goerr.Wrap(err, "badger set", goerr.V("key", key))
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }
