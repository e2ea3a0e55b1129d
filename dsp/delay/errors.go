package delay

import "errors"

// Errors returned by engine configuration.
var (
	ErrInvalidSampleRate = errors.New("delay: sample rate must be positive and finite")
	ErrInvalidBlockSize  = errors.New("delay: block size must be positive")
	ErrInvalidChannels   = errors.New("delay: channel count out of range")
	ErrInvalidMaxDelay   = errors.New("delay: maximum delay must be positive and finite")
	ErrInvalidCapacity   = errors.New("delay: capacity must be a positive power of two")
	ErrCapacityExceeded  = errors.New("delay: required buffer capacity exceeds limit")
	ErrNotInitialized    = errors.New("delay: engine not initialized")
)
