package scoring

import "fmt"

// Level is one of five ordered risk bands.
type Level int

const (
	VeryLow Level = iota
	Low
	Moderate
	High
	VeryHigh
)

// Lower bounds of each band above VeryLow, inclusive.
const (
	lowFrom      = 20
	moderateFrom = 40
	highFrom     = 60
	veryHighFrom = 80
)

var levelNames = [...]string{"Very Low", "Low", "Moderate", "High", "Very High"}

// Tones carry the presentation hint used by the dashboard for each band.
var levelTones = [...]string{"green-600", "green-500", "yellow-500", "orange-500", "red-500"}

// Classify maps a score to its band using half-open intervals.
// Out-of-range scores fall into the outer bands.
func Classify(score float64) Level {
	switch {
	case score < lowFrom:
		return VeryLow
	case score < moderateFrom:
		return Low
	case score < highFrom:
		return Moderate
	case score < veryHighFrom:
		return High
	default:
		return VeryHigh
	}
}

func (l Level) String() string {
	if l < VeryLow || l > VeryHigh {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Tone returns the color hint for the band.
func (l Level) Tone() string {
	if l < VeryLow || l > VeryHigh {
		return ""
	}
	return levelTones[l]
}

// MarshalText encodes the level by its label.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}
