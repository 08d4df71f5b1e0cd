// Package types contains the read models shared by the service and its transports.
package types

import (
	"time"

	"github.com/okian/riskgauge/internal/domain/freshness"
	"github.com/okian/riskgauge/internal/domain/scoring"
)

// Level describes a risk band. Nil in a report means the score is unavailable.
type Level struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
}

// NewLevel builds the presentation of a defined score, or nil.
func NewLevel(s scoring.Score) *Level {
	lvl, ok := s.Level()
	if !ok {
		return nil
	}
	return &Level{Label: lvl.String(), Tone: lvl.Tone()}
}

// IndicatorView is one indicator as presented to a user.
type IndicatorView struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Value       float64          `json:"value"`
	Weight      float64          `json:"weight"`
	Normalized  float64          `json:"normalized"`
	Inverted    bool             `json:"inverted"`
	LastUpdated *time.Time       `json:"lastUpdated"`
	Freshness   freshness.Result `json:"freshness"`
	Saved       bool             `json:"saved"`
}

// CategoryView is one category with its derived score.
type CategoryView struct {
	Key        string          `json:"key"`
	Name       string          `json:"name"`
	Color      string          `json:"color,omitempty"`
	Weight     float64         `json:"weight"`
	Score      scoring.Score   `json:"score"`
	Level      *Level          `json:"level"`
	Indicators []IndicatorView `json:"indicators"`
}

// Report is the full dashboard view.
type Report struct {
	Overall     scoring.Score  `json:"overall"`
	Level       *Level         `json:"level"`
	Categories  []CategoryView `json:"categories"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// ImportFailure is one indicator whose write failed during an import.
type ImportFailure struct {
	Category  string `json:"category"`
	Indicator string `json:"indicator"`
	Error     string `json:"error"`
}

// ImportReport summarizes a completed import.
type ImportReport struct {
	ID         string          `json:"id"`
	Categories int             `json:"categories"`
	Indicators int             `json:"indicators"`
	Written    int             `json:"written"`
	Failures   []ImportFailure `json:"failures"`
}
