package level

import (
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
	"gonum.org/v1/gonum/floats"
)

// Stats holds time-domain statistics of one buffer.
type Stats struct {
	Length        int
	DC            float64 // mean
	RMS           float64
	Max           float64
	MaxPos        int
	Min           float64
	MinPos        int
	Peak          float64 // max(|Max|, |Min|)
	CrestFactor   float64 // Peak / RMS, 0 for silence
	Energy        float64 // sum of squares
	ZeroCrossings int
}

// PeakDB returns the peak level in dBFS.
func (s Stats) PeakDB() float64 { return core.LinearToDB(s.Peak) }

// RMSDB returns the RMS level in dBFS.
func (s Stats) RMSDB() float64 { return core.LinearToDB(s.RMS) }

// CrestFactorDB returns the crest factor in dB, 0 for silence.
func (s Stats) CrestFactorDB() float64 {
	if s.CrestFactor == 0 {
		return 0
	}
	return core.LinearToDB(s.CrestFactor)
}

// Calculate computes the statistics of signal.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{}
	}

	s := Stats{
		Length: n,
		DC:     floats.Sum(signal) / float64(n),
		Energy: floats.Dot(signal, signal),
		MaxPos: floats.MaxIdx(signal),
		MinPos: floats.MinIdx(signal),
	}
	s.Max = signal[s.MaxPos]
	s.Min = signal[s.MinPos]
	s.RMS = math.Sqrt(s.Energy / float64(n))
	s.Peak = math.Max(math.Abs(s.Max), math.Abs(s.Min))
	if s.RMS > 0 {
		s.CrestFactor = s.Peak / s.RMS
	}

	for i := 1; i < n; i++ {
		if signal[i-1]*signal[i] < 0 {
			s.ZeroCrossings++
		}
	}
	return s
}

// RMS returns the root mean square of signal, 0 when empty.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(signal, signal) / float64(len(signal)))
}

// Peak returns the largest absolute sample value of signal.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}
	return peak
}
