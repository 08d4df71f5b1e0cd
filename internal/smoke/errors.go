package smoke

import "errors"

var (
	// ErrUnhealthy is returned when the service never reports ready.
	ErrUnhealthy = errors.New("service is not healthy")
	// ErrUnexpectedStatus is returned for a response with an unexpected status code.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrMismatch is returned when the service disagrees with a local recomputation.
	ErrMismatch = errors.New("verification mismatch")
)
