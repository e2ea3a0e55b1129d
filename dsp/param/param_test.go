package param

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecsDefaults(t *testing.T) {
	all := Specs()
	require.Len(t, all, 3)

	want := map[string][3]float64{
		DelayTime: {0, 2000, 800},
		Feedback:  {0, 1, 0.5},
		Ratio:     {0, 100, 50},
	}
	for _, s := range all {
		w, ok := want[s.ID]
		require.True(t, ok, "unexpected parameter %q", s.ID)
		assert.Equal(t, w[0], s.Min, s.ID)
		assert.Equal(t, w[1], s.Max, s.ID)
		assert.Equal(t, w[2], s.Default, s.ID)
	}

	_, ok := Lookup("delayType")
	assert.False(t, ok, "ping-pong parameter must not be exposed")
}

func TestSpecsReturnsCopy(t *testing.T) {
	all := Specs()
	all[0].Max = 1

	s, ok := Lookup(DelayTime)
	require.True(t, ok)
	assert.Equal(t, 2000.0, s.Max)
}

func TestSpecValidate(t *testing.T) {
	s, _ := Lookup(Feedback)

	assert.NoError(t, s.Validate(0))
	assert.NoError(t, s.Validate(1))
	assert.ErrorIs(t, s.Validate(1.01), ErrOutOfRange)
	assert.ErrorIs(t, s.Validate(-0.1), ErrOutOfRange)
	assert.ErrorIs(t, s.Validate(math.NaN()), ErrNotFinite)
	assert.ErrorIs(t, s.Validate(math.Inf(1)), ErrNotFinite)
}

func TestSpecNormalize(t *testing.T) {
	s, _ := Lookup(DelayTime)

	assert.InDelta(t, 0.4, s.Normalize(800), 1e-12)
	assert.InDelta(t, 800, s.Denormalize(0.4), 1e-9)
	assert.Equal(t, 0.0, s.Normalize(-5))
	assert.Equal(t, 2000.0, s.Denormalize(3))
}

func TestSpecFormat(t *testing.T) {
	d, _ := Lookup(DelayTime)
	f, _ := Lookup(Feedback)
	r, _ := Lookup(Ratio)

	assert.Equal(t, "800.0 ms", d.Format(800))
	assert.Equal(t, "0.50", f.Format(0.5))
	assert.Equal(t, "50 %", r.Format(50))
}

func TestSnapshotAccessors(t *testing.T) {
	s := DefaultSnapshot()
	assert.Equal(t, Snapshot{DelayTimeMs: 800, Feedback: 0.5, Ratio: 50}, s)
	require.NoError(t, s.Validate())

	s, err := s.With(Ratio, 75)
	require.NoError(t, err)
	v, err := s.Value(Ratio)
	require.NoError(t, err)
	assert.Equal(t, 75.0, v)

	_, err = s.With("delayType", 1)
	assert.ErrorIs(t, err, ErrUnknown)
	_, err = s.Value("nope")
	assert.ErrorIs(t, err, ErrUnknown)

	s.Feedback = 2
	assert.ErrorIs(t, s.Validate(), ErrOutOfRange)
}
