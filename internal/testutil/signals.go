package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Planar returns a channels x len(signal) block with an independent copy of
// signal in every channel.
func Planar(channels int, signal []float64) [][]float64 {
	out := make([][]float64, channels)
	for c := range out {
		out[c] = append([]float64(nil), signal...)
	}
	return out
}

// Silence returns a zeroed channels x frames block.
func Silence(channels, frames int) [][]float64 {
	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, frames)
	}
	return out
}

// Slice returns block[:, start:end] sharing storage with block.
func Slice(block [][]float64, start, end int) [][]float64 {
	out := make([][]float64, len(block))
	for c := range block {
		out[c] = block[c][start:end]
	}
	return out
}

// Delayed returns signal shifted right by n >= 0 samples, zero-filled at the start.
func Delayed(signal []float64, n int) []float64 {
	out := make([]float64, len(signal))
	for i := n; i < len(signal); i++ {
		out[i] = signal[i-n]
	}
	return out
}
