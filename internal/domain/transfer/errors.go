package transfer

import "errors"

var (
	// ErrMalformedDocument is returned when an import is not a well-formed document.
	ErrMalformedDocument = errors.New("malformed import document")
	// ErrMissingIndicators is returned when the top-level indicators field is absent.
	ErrMissingIndicators = errors.New("import document has no indicators")
)
