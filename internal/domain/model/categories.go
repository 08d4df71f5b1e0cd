package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Categories is the ordered set of categories held by the dashboard.
// It encodes as a JSON object keyed by category key, preserving order.
type Categories []Category

// Find returns the position of the category with the given key.
func (cs Categories) Find(key string) (int, bool) {
	for i := range cs {
		if cs[i].Key == key {
			return i, true
		}
	}
	return -1, false
}

// Indicator looks up a single indicator.
func (cs Categories) Indicator(category, id string) (Indicator, bool) {
	ci, ok := cs.Find(category)
	if !ok {
		return Indicator{}, false
	}
	ii, ok := cs[ci].Find(id)
	if !ok {
		return Indicator{}, false
	}
	return cs[ci].Indicators[ii], true
}

// Count returns the total number of indicators.
func (cs Categories) Count() int {
	n := 0
	for _, c := range cs {
		n += len(c.Indicators)
	}
	return n
}

// Clone returns a deep copy.
func (cs Categories) Clone() Categories {
	if cs == nil {
		return nil
	}
	out := make(Categories, len(cs))
	for i, c := range cs {
		out[i] = c.Clone()
	}
	return out
}

// MarshalJSON writes categories as an object in slice order.
func (cs Categories) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range cs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Key)
		if err != nil {
			return nil, err
		}
		if c.Indicators == nil {
			c.Indicators = []Indicator{}
		}
		body, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of categories keeping the document's key order.
// Duplicate keys, empty keys, missing indicator lists and indicators without
// an id are rejected.
func (cs *Categories) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("categories: expected object, got %v", tok)
	}

	out := Categories{}
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		if key == "" {
			return fmt.Errorf("categories: empty category key")
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("categories: duplicate category %q", key)
		}
		seen[key] = struct{}{}

		var raw struct {
			Name       string       `json:"name"`
			Weight     float64      `json:"weight"`
			Color      string       `json:"color"`
			Indicators *[]Indicator `json:"indicators"`
		}
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("categories: %q: %w", key, err)
		}
		if raw.Indicators == nil {
			return fmt.Errorf("categories: %q: missing indicators", key)
		}

		c := Category{Key: key, Name: raw.Name, Weight: raw.Weight, Color: raw.Color, Indicators: *raw.Indicators}
		ids := make(map[string]struct{}, len(c.Indicators))
		for _, ind := range c.Indicators {
			if ind.ID == "" {
				return fmt.Errorf("categories: %q: indicator without id", key)
			}
			if _, dup := ids[ind.ID]; dup {
				return fmt.Errorf("categories: %q: duplicate indicator %q", key, ind.ID)
			}
			ids[ind.ID] = struct{}{}
		}
		out = append(out, c)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*cs = out
	return nil
}
