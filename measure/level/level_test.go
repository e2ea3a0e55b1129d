package level

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-delay/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil)
	assert.Zero(t, s.Length)
	assert.True(t, math.IsInf(s.PeakDB(), -1))
	assert.True(t, math.IsInf(s.RMSDB(), -1))
	assert.InDelta(t, 0, s.CrestFactorDB(), 0)
}

func TestCalculateSquareWave(t *testing.T) {
	s := Calculate([]float64{1, -1, 1, -1})

	assert.Equal(t, 4, s.Length)
	assert.InDelta(t, 0, s.DC, 1e-15)
	assert.InDelta(t, 1, s.RMS, 1e-15)
	assert.InDelta(t, 1, s.Peak, 0)
	assert.InDelta(t, 1, s.CrestFactor, 1e-15)
	assert.InDelta(t, 4, s.Energy, 0)
	assert.Equal(t, 3, s.ZeroCrossings)
	assert.Equal(t, 0, s.MaxPos)
	assert.Equal(t, 1, s.MinPos)
}

func TestCalculateSine(t *testing.T) {
	x := testutil.DeterministicSine(1000, 48000, 0.5, 4800)
	s := Calculate(x)

	assert.InDelta(t, 0.5/math.Sqrt2, s.RMS, 1e-6)
	assert.InDelta(t, 0.5, s.Peak, 1e-3)
	assert.InDelta(t, 20*math.Log10(math.Sqrt2), s.CrestFactorDB(), 0.01)
	assert.InDelta(t, RMS(x), s.RMS, 1e-15)
	assert.InDelta(t, Peak(x), s.Peak, 0)
}

func TestCalculateNegativePeak(t *testing.T) {
	s := Calculate([]float64{0.1, -0.8, 0.3})
	assert.InDelta(t, 0.8, s.Peak, 0)
	assert.InDelta(t, 20*math.Log10(0.8), s.PeakDB(), 1e-12)
	assert.InDelta(t, -0.8, s.Min, 0)
	assert.InDelta(t, 0.3, s.Max, 0)
}

func TestMeterValidation(t *testing.T) {
	_, err := NewMeter(0, 10)
	require.ErrorIs(t, err, ErrInvalidMeter)
	_, err = NewMeter(2, 0)
	require.ErrorIs(t, err, ErrInvalidMeter)
}

func TestMeterPublishesPerWindow(t *testing.T) {
	m, err := NewMeter(2, 8)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Channels())

	m.Update([][]float64{{0.5, -0.5, 0.5, -0.5}, {0, 0, 0, 0}})
	assert.Zero(t, m.Windows())
	r := m.Read(nil)
	require.Len(t, r, 2)
	assert.InDelta(t, 0, r[0].Peak, 0)

	m.Update([][]float64{{0.5, -0.5, 0.5, -0.5}, {0.25, 0.25, 0.25, 0.25}})
	assert.Equal(t, uint64(1), m.Windows())

	r = m.Read(r[:0])
	assert.InDelta(t, 0.5, r[0].Peak, 0)
	assert.InDelta(t, 0.5, r[0].RMS, 1e-15)
	assert.InDelta(t, 0.25, r[1].Peak, 0)
	assert.InDelta(t, 0.25/math.Sqrt2, r[1].RMS, 1e-15)
	assert.InDelta(t, 20*math.Log10(0.5), r[0].PeakDB(), 1e-12)

	// A new window starts from scratch.
	m.Update([][]float64{{0.1}, {0}})
	m.Update([][]float64{make([]float64, 7), make([]float64, 7)})
	r = m.Read(r[:0])
	assert.Equal(t, uint64(2), m.Windows())
	assert.InDelta(t, 0.1, r[0].Peak, 0)
	assert.True(t, math.IsInf(r[1].RMSDB(), -1))
}

func TestMeterChannelMismatch(t *testing.T) {
	m, err := NewMeter(2, 1)
	require.NoError(t, err)

	m.Update([][]float64{{1}})
	r := m.Read(nil)
	assert.InDelta(t, 1, r[0].Peak, 0)
	assert.InDelta(t, 0, r[1].Peak, 0)

	m.Update([][]float64{{0}, {0}, {1}})
	r = m.Read(r[:0])
	assert.InDelta(t, 0, r[0].Peak, 0)
	assert.InDelta(t, 0, r[1].Peak, 0)
}

func TestMeterUpdateDoesNotAllocate(t *testing.T) {
	m, err := NewMeter(2, 64)
	require.NoError(t, err)
	block := [][]float64{testutil.DeterministicNoise(1, 1, 32), testutil.DeterministicNoise(2, 1, 32)}

	allocs := testing.AllocsPerRun(100, func() { m.Update(block) })
	assert.InDelta(t, 0, allocs, 0)
}
