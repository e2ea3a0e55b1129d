package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
)

// Sizing selects how Initialize derives the history capacity.
type Sizing int

const (
	// SizingBlockScaled reserves ceil(blockSize*maxDelay*sampleRate)+1
	// samples per channel, rounded up to a power of two.
	SizingBlockScaled Sizing = iota
	// SizingCompact reserves ceil(maxDelay*sampleRate)+blockSize+1 samples
	// per channel, rounded up to a power of two.
	SizingCompact
)

// String returns the policy name.
func (s Sizing) String() string {
	switch s {
	case SizingBlockScaled:
		return "block-scaled"
	case SizingCompact:
		return "compact"
	default:
		return fmt.Sprintf("Sizing(%d)", int(s))
	}
}

// RequiredSamples returns the minimum number of history samples per channel
// before power-of-two rounding.
func RequiredSamples(sampleRate float64, blockSize int, maxDelaySeconds float64, sizing Sizing) (float64, error) {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}
	if blockSize <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}
	if !core.IsFinite(maxDelaySeconds) || maxDelaySeconds <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidMaxDelay, maxDelaySeconds)
	}

	if sizing == SizingCompact {
		return math.Ceil(maxDelaySeconds*sampleRate) + float64(blockSize) + 1, nil
	}
	return math.Ceil(float64(blockSize)*maxDelaySeconds*sampleRate) + 1, nil
}

// BufferCapacity returns the power-of-two history capacity per channel for
// the given settings. It fails with ErrCapacityExceeded when the capacity
// would exceed limit samples.
func BufferCapacity(sampleRate float64, blockSize int, maxDelaySeconds float64, sizing Sizing, limit int) (int, error) {
	need, err := RequiredSamples(sampleRate, blockSize, maxDelaySeconds, sizing)
	if err != nil {
		return 0, err
	}
	if limit <= 0 {
		limit = DefaultMaxCapacity
	}
	if need > float64(limit) {
		return 0, fmt.Errorf("%w: need %.0f samples, limit %d", ErrCapacityExceeded, need, limit)
	}

	capacity := core.NextPowerOfTwo(int(need))
	if capacity > limit {
		return 0, fmt.Errorf("%w: need %d samples, limit %d", ErrCapacityExceeded, capacity, limit)
	}
	return capacity, nil
}
