package host

import (
	"errors"
	"fmt"
	"time"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/delay"
	"github.com/cwbudde/algo-delay/dsp/param"
	"github.com/cwbudde/algo-delay/measure/level"
	"github.com/sirupsen/logrus"
)

// ErrNotPrepared is returned when an adapter is used before Prepare.
var ErrNotPrepared = errors.New("host: adapter not prepared")

// Option configures an Adapter.
type Option func(*Adapter)

// WithDenormalFlush enables or disables flushing denormals from the output.
// Flushing is enabled by default.
func WithDenormalFlush(enabled bool) Option {
	return func(a *Adapter) {
		a.flushDenormals = enabled
	}
}

// WithMeter feeds every processed block into m.
func WithMeter(m *level.Meter) Option {
	return func(a *Adapter) {
		a.meter = m
	}
}

// Adapter drives a delay engine from host callbacks. Prepare and the
// Process methods must be called from the same goroutine, or serialized by
// the host.
type Adapter struct {
	engine  *delay.Engine
	surface *param.Surface
	meter   *level.Meter

	cfg            core.ProcessorConfig
	staging        [][]float64
	view           [][]float64
	prepared       bool
	flushDenormals bool
}

// New returns an adapter for engine. surface may be nil, in which case
// parameters are only changed through the engine setters.
func New(engine *delay.Engine, surface *param.Surface, opts ...Option) *Adapter {
	a := &Adapter{
		engine:         engine,
		surface:        surface,
		flushDenormals: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Prepare initializes the engine for cfg and applies the current surface
// values. Calling it again reconfigures the stream and discards history.
func (a *Adapter) Prepare(cfg core.ProcessorConfig) error {
	if err := a.engine.Initialize(cfg.SampleRate, cfg.BlockSize, cfg.Channels); err != nil {
		return fmt.Errorf("host: prepare: %w", err)
	}

	a.staging = core.EnsurePlanar(a.staging, cfg.Channels, cfg.BlockSize)
	a.view = make([][]float64, cfg.Channels)
	a.cfg = cfg
	a.prepared = true

	if a.surface != nil {
		a.surface.Pending()
		a.engine.Apply(a.surface.Snapshot())
	}

	logrus.WithFields(logrus.Fields{
		"function":      "Adapter.Prepare",
		"sample_rate":   cfg.SampleRate,
		"block_size":    cfg.BlockSize,
		"channels":      cfg.Channels,
		"latency":       a.Latency().String(),
		"delay_samples": a.engine.DelaySamples(),
	}).Info("Host adapter prepared")
	return nil
}

// Config returns the stream configuration passed to Prepare.
func (a *Adapter) Config() core.ProcessorConfig { return a.cfg }

// Engine returns the driven engine.
func (a *Adapter) Engine() *delay.Engine { return a.engine }

// Meter returns the output meter, or nil.
func (a *Adapter) Meter() *level.Meter { return a.meter }

// ApplyPending applies parameter changes published since the last call.
// It reports whether anything was applied.
func (a *Adapter) ApplyPending() bool {
	if a.surface == nil {
		return false
	}
	snap, ok := a.surface.Pending()
	if ok {
		a.engine.Apply(snap)
	}
	return ok
}

// Process applies pending parameters and runs the engine over block in place.
func (a *Adapter) Process(block [][]float64) error {
	if !a.prepared {
		return ErrNotPrepared
	}
	a.ApplyPending()
	a.run(block)
	return nil
}

// ProcessFloat32 is a non-interleaved host callback: in and out are indexed
// [channel][frame]. Output channels beyond the configured channel count are
// silenced; configured channels without a matching input are fed silence.
// All output channels must have the same length. It does not allocate.
func (a *Adapter) ProcessFloat32(in, out [][]float32) {
	if !a.prepared || len(out) == 0 {
		for _, ch := range out {
			clear(ch)
		}
		return
	}

	// Parameters change only between host blocks, never between chunks.
	a.ApplyPending()

	frames := len(out[0])
	for start := 0; start < frames; start += a.cfg.BlockSize {
		n := min(a.cfg.BlockSize, frames-start)
		for c := range a.view {
			row := a.staging[c][:n]
			if c < len(in) && len(in[c]) >= start+n {
				core.CopyFromFloat32(row, in[c][start:start+n])
			} else {
				core.Zero(row)
			}
			a.view[c] = row
		}

		a.run(a.view)

		for c := 0; c < len(a.view) && c < len(out); c++ {
			core.CopyToFloat32(out[c][start:start+n], a.view[c])
		}
	}

	for c := len(a.view); c < len(out); c++ {
		clear(out[c])
	}
}

func (a *Adapter) run(block [][]float64) {
	a.engine.Process(block)
	if a.flushDenormals {
		for _, ch := range block {
			core.FlushDenormalsInPlace(ch)
		}
	}
	if a.meter != nil {
		a.meter.Update(block)
	}
}

// Latency returns the configured delay time as reported to a host.
func (a *Adapter) Latency() time.Duration {
	sr := a.engine.SampleRate()
	if sr <= 0 {
		return 0
	}
	return time.Duration(float64(a.engine.DelaySamples()) / sr * float64(time.Second))
}

// TailLength returns how long output continues after the input stops.
// ok is false when feedback is at unity and the tail is infinite.
func (a *Adapter) TailLength() (tail time.Duration, ok bool) {
	samples, ok := a.engine.TailSamples()
	sr := a.engine.SampleRate()
	if !ok || sr <= 0 {
		return 0, ok
	}
	return time.Duration(float64(samples) / sr * float64(time.Second)), true
}
