package echo

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/delay"
	"github.com/cwbudde/algo-delay/dsp/param"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// DefaultThresholdDB is the level below which samples are not reported as taps.
const DefaultThresholdDB = -120.0

// Errors returned by the analyzer.
var (
	ErrInvalidLength  = errors.New("echo: length must be positive")
	ErrInvalidFFTSize = errors.New("echo: FFT size must be a power of two >= 2")
	ErrEmptyResponse  = errors.New("echo: impulse response is empty")
)

// Tap is one non-negligible sample of an impulse response.
type Tap struct {
	Index   int     // sample offset from the impulse
	Seconds float64 // Index / sample rate
	Gain    float64 // linear amplitude
	GainDB  float64 // 20*log10(|Gain|)
}

// Summary holds the characterization of one delay setting.
type Summary struct {
	SampleRate   float64
	Capacity     int // history length per channel the engine allocated
	DelaySamples int // offset of the first echo, 0 if none was found
	Taps         []Tap

	DecayDBPerRepeat float64 // level change between successive echoes, -Inf for a single echo
	DecaySeconds     float64 // extrapolated time to fall 60 dB, +Inf without decay
	Energy           float64 // sum of squared impulse response samples

	Response      []float64 // linear magnitude for bins 0..fftSize/2
	PeakDB        float64
	PeakFrequency float64
	NotchDB       float64
}

// Analyzer renders and measures impulse responses.
type Analyzer struct {
	SampleRate float64
	BlockSize  int
	Options    []delay.Option
}

// NewAnalyzer creates an analyzer that builds engines with opts.
func NewAnalyzer(sampleRate float64, blockSize int, opts ...delay.Option) *Analyzer {
	return &Analyzer{SampleRate: sampleRate, BlockSize: blockSize, Options: opts}
}

// ImpulseResponse renders length samples of a mono engine's response to a
// unit impulse with the parameters in snap.
func (a *Analyzer) ImpulseResponse(snap param.Snapshot, length int) ([]float64, error) {
	ir, _, err := a.render(snap, length)
	return ir, err
}

// Analyze renders length samples and measures taps, decay and the comb
// response over fftSize bins.
func (a *Analyzer) Analyze(snap param.Snapshot, length, fftSize int) (Summary, error) {
	ir, e, err := a.render(snap, length)
	if err != nil {
		return Summary{}, err
	}

	mag, err := CombResponse(ir, fftSize)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		SampleRate: a.SampleRate,
		Capacity:   e.Capacity(),
		Taps:       Taps(ir, a.SampleRate, DefaultThresholdDB),
		Energy:     floats.Dot(ir, ir),
		Response:   mag,
	}

	wet := wetTaps(s.Taps)
	if len(wet) > 0 {
		s.DelaySamples = wet[0].Index
	}
	s.DecayDBPerRepeat, s.DecaySeconds = decay(wet, a.SampleRate)

	peak := floats.MaxIdx(mag)
	s.PeakDB = core.LinearToDB(mag[peak])
	s.PeakFrequency = float64(peak) * a.SampleRate / float64(fftSize)
	s.NotchDB = core.LinearToDB(floats.Min(mag))
	return s, nil
}

func (a *Analyzer) render(snap param.Snapshot, length int) ([]float64, *delay.Engine, error) {
	if length <= 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	e := delay.New(a.Options...)
	e.Apply(snap)
	if err := e.Initialize(a.SampleRate, a.BlockSize, 1); err != nil {
		return nil, nil, fmt.Errorf("echo: %w", err)
	}

	ir := make([]float64, length)
	ir[0] = 1
	e.Process([][]float64{ir})
	return ir, e, nil
}

// Taps returns every sample of ir whose level is at or above thresholdDB
// relative to a unit impulse.
func Taps(ir []float64, sampleRate, thresholdDB float64) []Tap {
	threshold := core.DBToLinear(thresholdDB)
	var taps []Tap
	for i, v := range ir {
		if math.Abs(v) < threshold || v == 0 {
			continue
		}
		taps = append(taps, Tap{
			Index:   i,
			Seconds: float64(i) / sampleRate,
			Gain:    v,
			GainDB:  core.LinearToDB(math.Abs(v)),
		})
	}
	return taps
}

// CombResponse returns the linear magnitude response of ir for bins
// 0..fftSize/2. ir is truncated or zero-padded to fftSize.
func CombResponse(ir []float64, fftSize int) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyResponse
	}
	if fftSize < 2 || !core.IsPowerOfTwo(fftSize) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	in := make([]complex128, fftSize)
	for i := 0; i < fftSize && i < len(ir); i++ {
		in[i] = complex(ir[i], 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("echo: fft plan: %w", err)
	}
	spectrum := make([]complex128, fftSize)
	if err := plan.Forward(spectrum, in); err != nil {
		return nil, fmt.Errorf("echo: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := 0; k < bins; k++ {
		re[k] = real(spectrum[k])
		im[k] = imag(spectrum[k])
	}
	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)
	return mag, nil
}

// wetTaps drops the direct (undelayed) sample.
func wetTaps(taps []Tap) []Tap {
	if len(taps) > 0 && taps[0].Index == 0 {
		return taps[1:]
	}
	return taps
}

func decay(wet []Tap, sampleRate float64) (perRepeat, seconds float64) {
	switch len(wet) {
	case 0:
		return math.Inf(-1), 0
	case 1:
		return math.Inf(-1), wet[0].Seconds
	}

	perRepeat = wet[1].GainDB - wet[0].GainDB
	if perRepeat >= 0 {
		return perRepeat, math.Inf(1)
	}
	spacing := float64(wet[1].Index-wet[0].Index) / sampleRate
	return perRepeat, -60 / perRepeat * spacing
}
