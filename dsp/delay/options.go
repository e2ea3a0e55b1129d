package delay

import "github.com/cwbudde/algo-delay/dsp/core"

const (
	// DefaultMaxDelaySeconds is the longest supported delay time.
	DefaultMaxDelaySeconds = 2.0
	// DefaultMaxCapacity caps the history length per channel (1 GiB of float64).
	DefaultMaxCapacity = 1 << 27
	// MaxChannels is the largest channel count Initialize accepts.
	MaxChannels = 64
)

type config struct {
	maxDelay    float64
	maxCapacity int
	sizing      Sizing
}

// Option configures an Engine.
type Option func(*config)

// WithMaxDelay sets the longest delay, in seconds, the buffer must hold.
// Non-positive or non-finite values are ignored.
func WithMaxDelay(seconds float64) Option {
	return func(c *config) {
		if core.IsFinite(seconds) && seconds > 0 {
			c.maxDelay = seconds
		}
	}
}

// WithMaxCapacity sets the per-channel capacity above which Initialize fails.
// Non-positive values are ignored.
func WithMaxCapacity(samples int) Option {
	return func(c *config) {
		if samples > 0 {
			c.maxCapacity = samples
		}
	}
}

// WithCompactSizing selects SizingCompact instead of SizingBlockScaled.
func WithCompactSizing() Option {
	return func(c *config) {
		c.sizing = SizingCompact
	}
}

func applyOptions(opts []Option) config {
	c := config{
		maxDelay:    DefaultMaxDelaySeconds,
		maxCapacity: DefaultMaxCapacity,
		sizing:      SizingBlockScaled,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}
