package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest     = errors.New("bad request")
	ErrEmptyEdit      = errors.New("request sets neither value nor weight")
	ErrBodyTooLarge   = errors.New("request body too large")
	ErrServiceWarming = errors.New("service is still loading saved indicators")
)
