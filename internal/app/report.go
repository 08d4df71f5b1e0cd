package service

import (
	"context"

	"github.com/okian/riskgauge/internal/adapters/persistence"
	"github.com/okian/riskgauge/internal/domain/freshness"
	"github.com/okian/riskgauge/internal/domain/scoring"
	"github.com/okian/riskgauge/internal/domain/types"
)

// Report derives every score, level and freshness from one snapshot.
func (s *Service) Report(_ context.Context) types.Report {
	snap := s.store.Snapshot()
	now := s.now()
	res := scoring.Evaluate(snap)

	out := types.Report{
		Overall:     res.Overall,
		Level:       types.NewLevel(res.Overall),
		Categories:  make([]types.CategoryView, 0, len(snap)),
		GeneratedAt: now.UTC(),
	}
	for i, c := range snap {
		score := res.Categories[i].Score
		view := types.CategoryView{
			Key:        c.Key,
			Name:       c.Name,
			Color:      c.Color,
			Weight:     c.Weight,
			Score:      score,
			Level:      types.NewLevel(score),
			Indicators: make([]types.IndicatorView, 0, len(c.Indicators)),
		}
		for _, ind := range c.Indicators {
			view.Indicators = append(view.Indicators, types.IndicatorView{
				ID:          ind.ID,
				Name:        ind.Name,
				Value:       ind.Value,
				Weight:      ind.Weight,
				Normalized:  scoring.Normalize(ind),
				Inverted:    ind.Inverted,
				LastUpdated: ind.LastUpdated,
				Freshness:   freshness.Classify(ind.LastUpdated, now),
				Saved:       s.saved.Active(persistence.Key(c.Key, ind.ID)),
			})
		}
		out.Categories = append(out.Categories, view)
	}
	return out
}
