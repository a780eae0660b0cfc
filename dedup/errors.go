package dedup

import "errors"

// Sentinel errors for deduplication operations.
var (
	// ErrEmptyKey is returned when a request key is empty or blank.
	ErrEmptyKey = errors.New("dedup: request key is empty")

	// ErrNilOperation is returned when a nil operation is supplied.
	ErrNilOperation = errors.New("dedup: operation is nil")

	// ErrNoResult is returned by Value when the shared stream completed
	// without emitting a value of the requested type.
	ErrNoResult = errors.New("dedup: stream completed without a result")
)
