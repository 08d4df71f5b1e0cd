package smoke

import (
	"time"

	"github.com/okian/riskgauge/internal/domain/model"
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL string        // Base URL of the service
	Edits   int           // Number of random indicator edits
	Workers int           // Concurrent save requests
	Timeout time.Duration // HTTP request timeout
	Restore bool          // Re-import the initial export when done
	Verbose bool          // Log every edit
}

// Edit is one indicator change sent to the service.
type Edit struct {
	Category  string  `json:"category"`
	Indicator string  `json:"indicator"`
	Value     float64 `json:"value"`
	Weight    float64 `json:"weight"`
	AsString  bool    `json:"asString"`
}

// snapshot mirrors GET /indicators.
type snapshot struct {
	Indicators model.Categories `json:"indicators"`
}

// Stats holds run statistics.
type Stats struct {
	RunID          string
	EditsApplied   int
	SavesSucceeded int
	SavesFailed    int
	ScoresChecked  int
	ImportWritten  int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
