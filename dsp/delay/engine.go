package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/param"
	"github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"
)

// tailThreshold is the echo level (-60 dB) below which the tail is considered silent.
const tailThreshold = 1e-3

// Engine is a stereo (or N-channel) feedback delay with dry/wet mix.
type Engine struct {
	cfg config

	sampleRate  float64
	blockSize   int
	line        Line
	wet         [][]float64
	initialized bool

	delayTimeMs  float64
	delaySamples int
	feedback     float64
	ratio        float64
}

// New returns an engine with default parameters. No history is allocated
// until Initialize.
func New(opts ...Option) *Engine {
	defaults := param.DefaultSnapshot()
	return &Engine{
		cfg:         applyOptions(opts),
		delayTimeMs: defaults.DelayTimeMs,
		feedback:    defaults.Feedback,
		ratio:       defaults.Ratio,
	}
}

// Initialize sizes and clears the history for the given stream settings and
// resets the write cursor. It must complete before Process is called and
// must not run concurrently with Process. Previous history is discarded.
// On error the engine keeps its previous state.
func (e *Engine) Initialize(sampleRate float64, blockSize, channels int) error {
	if channels <= 0 || channels > MaxChannels {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	capacity, err := BufferCapacity(sampleRate, blockSize, e.cfg.maxDelay, e.cfg.sizing, e.cfg.maxCapacity)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    "Engine.Initialize",
			"sample_rate": sampleRate,
			"block_size":  blockSize,
			"channels":    channels,
			"error":       err.Error(),
		}).Error("Delay buffer sizing failed")
		return err
	}

	if err := e.line.Resize(channels, capacity); err != nil {
		return err
	}
	e.wet = core.EnsurePlanar(e.wet, channels, blockSize)
	e.sampleRate = sampleRate
	e.blockSize = blockSize
	e.initialized = true
	e.updateDelaySamples()

	logrus.WithFields(logrus.Fields{
		"function":      "Engine.Initialize",
		"sample_rate":   sampleRate,
		"block_size":    blockSize,
		"channels":      channels,
		"capacity":      capacity,
		"sizing":        e.cfg.sizing.String(),
		"delay_samples": e.delaySamples,
	}).Info("Delay engine initialized")
	return nil
}

// Process runs the delay over block in place. block is indexed
// [channel][frame]; it must have exactly Channels() rows of equal length.
// Blocks longer than BlockSize() are processed in BlockSize() chunks.
//
// Process panics if the engine is not initialized or the block shape does
// not match. It never allocates.
func (e *Engine) Process(block [][]float64) {
	if !e.initialized {
		panic(ErrNotInitialized)
	}
	rows := e.line.rows
	if len(block) != len(rows) {
		panic(fmt.Sprintf("delay: block has %d channels, engine has %d", len(block), len(rows)))
	}
	frames := len(block[0])
	for c := 1; c < len(block); c++ {
		if len(block[c]) != frames {
			panic(fmt.Sprintf("delay: channel %d has %d frames, want %d", c, len(block[c]), frames))
		}
	}

	// Latch parameters for the whole block.
	delay := e.delaySamples
	feedback := e.feedback
	mix := e.ratio / 100
	dry := 1 - mix

	mask := e.line.mask
	capacity := mask + 1
	w := e.line.cursor

	for start := 0; start < frames; start += e.blockSize {
		n := min(e.blockSize, frames-start)

		for i := 0; i < n; i++ {
			read := (w - delay + capacity) & mask
			for c, row := range rows {
				x := block[c][start+i]
				delayed := row[read]
				row[w] = x + feedback*delayed
				e.wet[c][i] = delayed
			}
			w = (w + 1) & mask
		}

		for c := range rows {
			out := block[c][start : start+n]
			wet := e.wet[c][:n]
			vecmath.ScaleBlock(out, out, dry)
			vecmath.ScaleBlock(wet, wet, mix)
			vecmath.AddBlockInPlace(out, wet)
		}
	}

	e.line.cursor = w
}

// Reset clears the history and rewinds the cursor without reallocating.
func (e *Engine) Reset() {
	e.line.Reset()
}

// SetDelayTime sets the delay in milliseconds. The value is clamped to
// [0, maxDelay]; NaN is ignored.
func (e *Engine) SetDelayTime(ms float64) {
	if math.IsNaN(ms) {
		return
	}
	e.delayTimeMs = core.Clamp(ms, 0, e.cfg.maxDelay*1000)
	e.updateDelaySamples()
}

// SetFeedback sets the feedback gain, clamped to [0, 1]; NaN is ignored.
func (e *Engine) SetFeedback(v float64) {
	if math.IsNaN(v) {
		return
	}
	e.feedback = core.Clamp(v, 0, 1)
}

// SetMixRatio sets the wet share in percent, clamped to [0, 100]; NaN is ignored.
func (e *Engine) SetMixRatio(v float64) {
	if math.IsNaN(v) {
		return
	}
	e.ratio = core.Clamp(v, 0, 100)
}

// SetParameter dispatches a value by parameter identifier.
func (e *Engine) SetParameter(id string, v float64) error {
	switch id {
	case param.DelayTime:
		e.SetDelayTime(v)
	case param.Feedback:
		e.SetFeedback(v)
	case param.Ratio:
		e.SetMixRatio(v)
	default:
		return fmt.Errorf("delay: %q: %w", id, param.ErrUnknown)
	}
	return nil
}

// Apply sets all parameters from one snapshot.
func (e *Engine) Apply(s param.Snapshot) {
	e.SetDelayTime(s.DelayTimeMs)
	e.SetFeedback(s.Feedback)
	e.SetMixRatio(s.Ratio)
}

// Parameters returns the current parameter values.
func (e *Engine) Parameters() param.Snapshot {
	return param.Snapshot{
		DelayTimeMs: e.delayTimeMs,
		Feedback:    e.feedback,
		Ratio:       e.ratio,
	}
}

// Initialized reports whether Initialize has succeeded.
func (e *Engine) Initialized() bool { return e.initialized }

// SampleRate returns the sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// BlockSize returns the configured block size in frames.
func (e *Engine) BlockSize() int { return e.blockSize }

// Channels returns the number of delay lines.
func (e *Engine) Channels() int { return e.line.Channels() }

// Capacity returns the history length per channel.
func (e *Engine) Capacity() int { return e.line.Capacity() }

// MaxDelay returns the longest supported delay in seconds.
func (e *Engine) MaxDelay() float64 { return e.cfg.maxDelay }

// Sizing returns the buffer sizing policy.
func (e *Engine) Sizing() Sizing { return e.cfg.sizing }

// WriteCursor returns the index the next frame is written to.
func (e *Engine) WriteCursor() int { return e.line.Cursor() }

// DelayTime returns the delay in milliseconds.
func (e *Engine) DelayTime() float64 { return e.delayTimeMs }

// DelaySamples returns the delay in samples, or 0 before Initialize.
func (e *Engine) DelaySamples() int { return e.delaySamples }

// Feedback returns the feedback gain.
func (e *Engine) Feedback() float64 { return e.feedback }

// MixRatio returns the wet share in percent.
func (e *Engine) MixRatio() float64 { return e.ratio }

// History returns the live history row of channel ch for metering.
// Callers must not modify it.
func (e *Engine) History(ch int) []float64 { return e.line.Row(ch) }

// TailSamples returns how long the echo train stays above -60 dB after the
// input stops, in samples. ok is false when feedback is 1 and the tail
// never decays.
func (e *Engine) TailSamples() (samples int, ok bool) {
	if e.delaySamples == 0 {
		return 0, true
	}
	if e.feedback >= 1 {
		return 0, false
	}
	repeats := 1
	if e.feedback > 0 {
		repeats += int(math.Floor(math.Log(tailThreshold) / math.Log(e.feedback)))
	}
	return repeats * e.delaySamples, true
}

func (e *Engine) updateDelaySamples() {
	if !e.initialized {
		return
	}
	d := int(math.Round(e.delayTimeMs * e.sampleRate / 1000))
	if d < 1 {
		d = 1
	}
	if limit := e.line.Capacity() - 1; d > limit {
		d = limit
	}
	e.delaySamples = d
}
