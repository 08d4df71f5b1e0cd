package repository

import "errors"

// Sentinel kinds for indicator store lookups.
var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrIndicatorNotFound = errors.New("indicator not found")
)
