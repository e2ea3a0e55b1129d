package level

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-delay/dsp/core"
)

// ErrInvalidMeter is returned for a non-positive channel count or window.
var ErrInvalidMeter = errors.New("level: channels and window must be positive")

// Reading is the published level of one channel.
type Reading struct {
	Peak float64
	RMS  float64
}

// PeakDB returns the peak level in dBFS.
func (r Reading) PeakDB() float64 { return core.LinearToDB(r.Peak) }

// RMSDB returns the RMS level in dBFS.
func (r Reading) RMSDB() float64 { return core.LinearToDB(r.RMS) }

// Meter accumulates peak and RMS per channel over windows of at least
// window frames. Update is called by one goroutine (the audio callback) and
// does not allocate or block. Read may be called from any goroutine and
// returns the most recently completed window.
type Meter struct {
	window int

	// accumulators, owned by the updating goroutine
	frames int
	peak   []float64
	sumSq  []float64

	pubPeak []atomic.Uint64
	pubRMS  []atomic.Uint64
	windows atomic.Uint64
}

// NewMeter returns a meter for channels channels publishing every window
// frames. Windows end on block boundaries, so a published window may be
// longer than window.
func NewMeter(channels, window int) (*Meter, error) {
	if channels <= 0 || window <= 0 {
		return nil, fmt.Errorf("%w: channels=%d window=%d", ErrInvalidMeter, channels, window)
	}
	return &Meter{
		window:  window,
		peak:    make([]float64, channels),
		sumSq:   make([]float64, channels),
		pubPeak: make([]atomic.Uint64, channels),
		pubRMS:  make([]atomic.Uint64, channels),
	}, nil
}

// Channels returns the number of metered channels.
func (m *Meter) Channels() int { return len(m.peak) }

// Update adds one planar block. Channels beyond the meter's count are
// ignored; missing channels count as silence.
func (m *Meter) Update(block [][]float64) {
	frames := 0
	for c := range m.peak {
		if c >= len(block) {
			continue
		}
		ch := block[c]
		frames = max(frames, len(ch))
		peak, sumSq := m.peak[c], m.sumSq[c]
		for _, x := range ch {
			if a := math.Abs(x); a > peak {
				peak = a
			}
			sumSq += x * x
		}
		m.peak[c], m.sumSq[c] = peak, sumSq
	}

	m.frames += frames
	if m.frames >= m.window {
		m.publish()
	}
}

func (m *Meter) publish() {
	n := float64(m.frames)
	for c := range m.peak {
		m.pubPeak[c].Store(math.Float64bits(m.peak[c]))
		m.pubRMS[c].Store(math.Float64bits(math.Sqrt(m.sumSq[c] / n)))
		m.peak[c], m.sumSq[c] = 0, 0
	}
	m.frames = 0
	m.windows.Add(1)
}

// Read appends the latest reading of every channel to dst.
func (m *Meter) Read(dst []Reading) []Reading {
	for c := range m.pubPeak {
		dst = append(dst, Reading{
			Peak: math.Float64frombits(m.pubPeak[c].Load()),
			RMS:  math.Float64frombits(m.pubRMS[c].Load()),
		})
	}
	return dst
}

// Windows returns how many windows have been published.
func (m *Meter) Windows() uint64 { return m.windows.Load() }
