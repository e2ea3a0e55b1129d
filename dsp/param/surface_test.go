package param

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurfaceStartsAtDefaults(t *testing.T) {
	s := NewSurface()
	assert.Equal(t, DefaultSnapshot(), s.Snapshot())

	snap, ok := s.Pending()
	require.True(t, ok, "first Pending should report the defaults")
	assert.Equal(t, DefaultSnapshot(), snap)

	_, ok = s.Pending()
	assert.False(t, ok)
}

func TestSurfaceSetAndPending(t *testing.T) {
	s := NewSurface()
	s.Pending()

	require.NoError(t, s.Set(DelayTime, 250))
	require.NoError(t, s.Set(Feedback, 0.25))

	snap, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, Snapshot{DelayTimeMs: 250, Feedback: 0.25, Ratio: 50}, snap)

	_, ok = s.Pending()
	assert.False(t, ok)

	v, err := s.Get(Feedback)
	require.NoError(t, err)
	assert.Equal(t, 0.25, v)
}

func TestSurfaceRejectsInvalid(t *testing.T) {
	s := NewSurface()
	s.Pending()

	assert.ErrorIs(t, s.Set("delayType", 1), ErrUnknown)
	assert.ErrorIs(t, s.Set(Ratio, 101), ErrOutOfRange)
	assert.ErrorIs(t, s.Set(DelayTime, 2500), ErrOutOfRange)

	_, ok := s.Pending()
	assert.False(t, ok, "rejected writes must not publish a change")
	assert.Equal(t, DefaultSnapshot(), s.Snapshot())

	_, err := s.Get("delayType")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestSurfaceSetNormalized(t *testing.T) {
	s := NewSurface()

	require.NoError(t, s.SetNormalized(Ratio, 0.25))
	v, _ := s.Get(Ratio)
	assert.InDelta(t, 25, v, 1e-12)

	assert.ErrorIs(t, s.SetNormalized("nope", 0.5), ErrUnknown)
}

func TestSurfaceReset(t *testing.T) {
	s := NewSurface()
	require.NoError(t, s.Set(Feedback, 0.9))
	s.Pending()

	s.Reset()
	snap, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, DefaultSnapshot(), snap)
}

func TestSurfaceConcurrentWriterReader(t *testing.T) {
	s := NewSurface()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i <= 1000; i++ {
			_ = s.Set(Ratio, float64(i%101))
		}
		_ = s.Set(Ratio, 42)
	}()

	for i := 0; i < 1000; i++ {
		if snap, ok := s.Pending(); ok {
			require.NoError(t, snap.Validate())
		}
	}
	wg.Wait()

	snap, ok := s.Pending()
	if ok {
		assert.Equal(t, 42.0, snap.Ratio)
	}
	assert.Equal(t, 42.0, s.Snapshot().Ratio)
}
