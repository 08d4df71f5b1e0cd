package smoke

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"
	"strconv"

	"github.com/okian/riskgauge/internal/domain/model"
	"github.com/okian/riskgauge/pkg/logger"
)

const (
	randomFloatDivisor = 1000000
	maxValue           = 120.0 // a little past the scale to exercise clamping
	maxWeight          = 0.6
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func getRandomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// round2 keeps generated numbers short enough to survive a string round trip.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// generateEdits picks n random indicators from cats and assigns new numbers.
func generateEdits(ctx context.Context, cats model.Categories, n int) []Edit {
	type ref struct{ category, id string }
	var refs []ref
	for _, c := range cats {
		for _, ind := range c.Indicators {
			refs = append(refs, ref{category: c.Key, id: ind.ID})
		}
	}
	if len(refs) == 0 {
		return nil
	}

	edits := make([]Edit, 0, n)
	for i := 0; i < n; i++ {
		r := refs[getRandomInt(len(refs))]
		edits = append(edits, Edit{
			Category:  r.category,
			Indicator: r.id,
			Value:     round2(getRandomFloat() * maxValue),
			Weight:    round2(getRandomFloat() * maxWeight),
			AsString:  getRandomInt(2) == 0,
		})
	}
	logger.Get().Debug(ctx, "generated edits", logger.Int("edits", len(edits)), logger.Int("indicators", len(refs)))
	return edits
}

// body renders the edit as a PUT payload, as numbers or as strings.
func (e Edit) body() map[string]any {
	if e.AsString {
		return map[string]any{
			"value":  strconv.FormatFloat(e.Value, 'f', -1, 64),
			"weight": strconv.FormatFloat(e.Weight, 'f', -1, 64),
		}
	}
	return map[string]any{"value": e.Value, "weight": e.Weight}
}
