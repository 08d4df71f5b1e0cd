// Package scoring derives category and overall risk scores from a snapshot of
// the indicator store. Everything here is a pure function of its input.
package scoring

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/okian/riskgauge/internal/domain/model"
)

const (
	scaleMax = 100

	// unavailable is how an undefined score renders in text.
	unavailable = "unavailable"
)

// Score is a weighted average that may be undefined when the weights sum to zero.
type Score struct {
	Value   float64
	Defined bool
}

// Undefined is the score of an aggregate with no usable weight.
func Undefined() Score { return Score{} }

// Of wraps a defined value.
func Of(v float64) Score { return Score{Value: v, Defined: true} }

// String renders the score with one decimal, or "unavailable".
func (s Score) String() string {
	if !s.Defined {
		return unavailable
	}
	return strconv.FormatFloat(s.Value, 'f', 1, 64)
}

// MarshalJSON encodes an undefined score as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON accepts a number or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Of(v)
	return nil
}

// Level classifies the score. ok is false for an undefined score.
func (s Score) Level() (Level, bool) {
	if !s.Defined {
		return 0, false
	}
	return Classify(s.Value), true
}

// Normalize maps an indicator onto the common risk direction.
// The 0-100 scale is fixed; the indicator's own min and max are ignored.
func Normalize(ind model.Indicator) float64 {
	if ind.Inverted {
		return scaleMax - ind.Value
	}
	return ind.Value
}

// weightedAverage returns Σ(v*w)/Σw. It is undefined when Σw is zero or
// when finite inputs overflow somewhere in the aggregation.
func weightedAverage(values, weights []float64) Score {
	var sum, total float64
	for i := range values {
		sum += values[i] * weights[i]
		total += weights[i]
	}
	if total == 0 || !finite(total) {
		return Undefined()
	}
	avg := sum / total
	if !finite(avg) {
		return Undefined()
	}
	return Of(avg)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CategoryScore is the weight-averaged normalized value of the category's indicators.
func CategoryScore(c model.Category) Score {
	values := make([]float64, len(c.Indicators))
	weights := make([]float64, len(c.Indicators))
	for i, ind := range c.Indicators {
		values[i] = Normalize(ind)
		weights[i] = ind.Weight
	}
	return weightedAverage(values, weights)
}

// OverallScore averages the category scores by category weight.
// Any undefined category score makes the overall score undefined.
func OverallScore(cats model.Categories) Score {
	values := make([]float64, len(cats))
	weights := make([]float64, len(cats))
	for i, c := range cats {
		s := CategoryScore(c)
		if !s.Defined {
			return Undefined()
		}
		values[i] = s.Value
		weights[i] = c.Weight
	}
	return weightedAverage(values, weights)
}
