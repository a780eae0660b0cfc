package settings

import "errors"

var (
	// ErrMissingServerURL indicates no server URL is configured.
	ErrMissingServerURL = errors.New("settings: server URL is required")

	// ErrMissingUsername indicates no username is configured.
	ErrMissingUsername = errors.New("settings: username is required")

	// ErrUnknownQuality indicates an unrecognized stream quality value.
	ErrUnknownQuality = errors.New("settings: unknown stream quality")

	// ErrInvalidPageSize indicates a page size outside the accepted range.
	ErrInvalidPageSize = errors.New("settings: page size must be between 1 and 500")

	// ErrInvalidMaxBitrate indicates a negative max bitrate.
	ErrInvalidMaxBitrate = errors.New("settings: max bitrate must not be negative")
)
