package player

import "errors"

var (
	// ErrQueueEmpty indicates an operation that needs at least one track.
	ErrQueueEmpty = errors.New("player: queue is empty")

	// ErrEndOfQueue indicates no further track in the current direction.
	ErrEndOfQueue = errors.New("player: end of queue")

	// ErrInvalidIndex indicates a queue position out of range.
	ErrInvalidIndex = errors.New("player: index out of range")

	// ErrNotPlaying indicates the session is not in the playing state.
	ErrNotPlaying = errors.New("player: not playing")

	// ErrNotPaused indicates the session is not in the paused state.
	ErrNotPaused = errors.New("player: not paused")

	// ErrStopped indicates the session has no active track.
	ErrStopped = errors.New("player: session is stopped")
)
