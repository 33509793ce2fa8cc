package match

import "errors"

var (
	// ErrUnknownIntent is returned when an intent name is not one of the known values.
	ErrUnknownIntent = errors.New("unknown intent")

	// ErrInvalidPoolSize is returned when a non-positive worker pool size is configured.
	ErrInvalidPoolSize = errors.New("pool size must be positive")
)
