package persistence

import "errors"

// ErrWrite is returned when the backend rejects a write.
var ErrWrite = errors.New("persistence write failed")
