// Package freshness describes how long ago an indicator was last saved.
package freshness

import (
	"fmt"
	"time"
)

// Band is the staleness emphasis of a timestamp.
type Band string

const (
	BandFresh Band = "fresh"
	BandAging Band = "aging"
	BandStale Band = "stale"
	BandNever Band = "never"
)

const (
	// LabelNever is shown for an indicator that was never saved.
	LabelNever = "Never"
	// LabelJustNow is shown for saves less than a minute old.
	LabelJustNow = "Just now"

	// DateLayout renders timestamps a week or more in the past.
	DateLayout = "2006-01-02"

	hoursPerDay   = 24
	daysPerWeek   = 7
	freshHours    = 24
	agingMaxHours = 72
)

var bandTones = map[Band]string{
	BandFresh: "green-400",
	BandAging: "yellow-400",
	BandStale: "red-400",
	BandNever: "gray-400",
}

// Tone returns the presentation hint for the band.
func (b Band) Tone() string { return bandTones[b] }

// Result pairs the relative label and the band of one timestamp.
type Result struct {
	Label string `json:"label"`
	Band  Band   `json:"band"`
}

// Classify derives label and band from the same elapsed duration.
func Classify(ts *time.Time, now time.Time) Result {
	return Result{Label: Label(ts, now), Band: BandOf(ts, now)}
}

// Label renders ts relative to now with half-open minute, hour and day steps.
// Timestamps in the future read as "Just now".
func Label(ts *time.Time, now time.Time) string {
	if ts == nil {
		return LabelNever
	}
	elapsed := now.Sub(*ts)
	mins := int(elapsed / time.Minute)
	hours := int(elapsed / time.Hour)
	days := hours / hoursPerDay

	switch {
	case elapsed < time.Minute:
		return LabelJustNow
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", mins)
	case hours < hoursPerDay:
		return fmt.Sprintf("%dh ago", hours)
	case days < daysPerWeek:
		return fmt.Sprintf("%dd ago", days)
	default:
		return ts.In(now.Location()).Format(DateLayout)
	}
}

// BandOf classifies ts as fresh under 24h, aging under 72h and stale after.
func BandOf(ts *time.Time, now time.Time) Band {
	if ts == nil {
		return BandNever
	}
	elapsed := now.Sub(*ts)
	switch {
	case elapsed < freshHours*time.Hour:
		return BandFresh
	case elapsed < agingMaxHours*time.Hour:
		return BandAging
	default:
		return BandStale
	}
}
