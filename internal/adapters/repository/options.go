package repository

import "github.com/okian/riskgauge/internal/domain/model"

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithCategories seeds the store. The categories are copied.
func WithCategories(cats model.Categories) Option {
	return func(s *Store) {
		s.categories = cats.Clone()
	}
}

// WithObserver registers fn to be called after every mutation.
func WithObserver(fn Observer) Option {
	return func(s *Store) {
		if fn != nil {
			s.observers = append(s.observers, fn)
		}
	}
}
