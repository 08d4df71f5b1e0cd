// Package numeric validates numbers entered for indicator values and weights.
package numeric

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrMalformedNumber is returned for input that is not a finite number.
	ErrMalformedNumber = errors.New("malformed number")
	// ErrNegativeWeight is returned for weights below zero.
	ErrNegativeWeight = errors.New("weight must not be negative")
)

// Parse reads a finite decimal number from user text.
func Parse(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, goerr.Wrap(ErrMalformedNumber, "empty input")
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, goerr.Wrap(ErrMalformedNumber, "parse number", goerr.V("input", s))
	}
	return Check(v)
}

// ParseJSON accepts a JSON number or a JSON string holding a number.
func ParseJSON(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, goerr.Wrap(ErrMalformedNumber, "missing number")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, goerr.Wrap(ErrMalformedNumber, "decode string")
		}
		return Parse(s)
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, goerr.Wrap(ErrMalformedNumber, "decode number", goerr.V("input", string(raw)))
	}
	return Check(v)
}

// Check rejects NaN and infinities.
func Check(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, goerr.Wrap(ErrMalformedNumber, "not finite", goerr.V("value", v))
	}
	return v, nil
}

// Weight checks v and additionally rejects negative weights.
func Weight(v float64) (float64, error) {
	v, err := Check(v)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, goerr.Wrap(ErrNegativeWeight, "check weight", goerr.V("weight", v))
	}
	return v, nil
}
