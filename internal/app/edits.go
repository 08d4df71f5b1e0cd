package service

import (
	"context"

	"github.com/okian/riskgauge/internal/domain/numeric"
	"github.com/okian/riskgauge/pkg/logger"
)

// SetIndicatorValue edits one indicator's value. Nothing is persisted
// until Save is called for it.
func (s *Service) SetIndicatorValue(ctx context.Context, category, id string, value float64) error {
	v, err := numeric.Check(value)
	if err != nil {
		return err
	}
	if err := s.store.SetIndicatorValue(category, id, v); err != nil {
		return err
	}
	s.logger.Debug(ctx, "indicator value set",
		logger.String("category", category), logger.String("indicator", id), logger.Float64("value", v))
	return nil
}

// SetIndicatorWeight edits one indicator's weight.
func (s *Service) SetIndicatorWeight(ctx context.Context, category, id string, weight float64) error {
	w, err := numeric.Weight(weight)
	if err != nil {
		return err
	}
	if err := s.store.SetIndicatorWeight(category, id, w); err != nil {
		return err
	}
	s.logger.Debug(ctx, "indicator weight set",
		logger.String("category", category), logger.String("indicator", id), logger.Float64("weight", w))
	return nil
}

// SetCategoryWeight edits a category weight. Category weights live in
// memory and in exports only; they are never written per key.
func (s *Service) SetCategoryWeight(ctx context.Context, category string, weight float64) error {
	w, err := numeric.Weight(weight)
	if err != nil {
		return err
	}
	if err := s.store.SetCategoryWeight(category, w); err != nil {
		return err
	}
	s.logger.Debug(ctx, "category weight set", logger.String("category", category), logger.Float64("weight", w))
	return nil
}
