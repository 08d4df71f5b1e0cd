// Package model contains domain models passed between layers.
package model

import "time"

// Indicator is one market signal expressed on a 0-100 scale.
// Min and Max are carried for the data format only; scoring ignores them.
type Indicator struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Value       float64    `json:"value"`
	Weight      float64    `json:"weight"`
	Min         float64    `json:"min"`
	Max         float64    `json:"max"`
	Inverted    bool       `json:"inverted"`
	LastUpdated *time.Time `json:"lastUpdated"`
}

// Category groups indicators under a key and carries its own weight.
// Key is not serialized as a field; it is the object key in documents.
type Category struct {
	Key        string      `json:"-"`
	Name       string      `json:"name"`
	Weight     float64     `json:"weight"`
	Color      string      `json:"color,omitempty"`
	Indicators []Indicator `json:"indicators"`
}

// Record is the durable part of an indicator.
type Record struct {
	Value       float64    `json:"value"`
	Weight      float64    `json:"weight"`
	LastUpdated *time.Time `json:"lastUpdated"`
}

// Record extracts the durable fields of the indicator.
func (i Indicator) Record() Record {
	return Record{Value: i.Value, Weight: i.Weight, LastUpdated: cloneTime(i.LastUpdated)}
}

// Apply overwrites value, weight and lastUpdated from r, leaving identity intact.
func (i Indicator) Apply(r Record) Indicator {
	i.Value = r.Value
	i.Weight = r.Weight
	i.LastUpdated = cloneTime(r.LastUpdated)
	return i
}

// Find returns the position of the indicator with the given id.
func (c Category) Find(id string) (int, bool) {
	for i := range c.Indicators {
		if c.Indicators[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a deep copy of the category.
func (c Category) Clone() Category {
	out := c
	out.Indicators = make([]Indicator, len(c.Indicators))
	for i, ind := range c.Indicators {
		ind.LastUpdated = cloneTime(ind.LastUpdated)
		out.Indicators[i] = ind
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
