package param

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Surface holds the live parameter values shared between one writer
// goroutine and one reader goroutine. Each value lives in its own atomic
// cell; a version counter tells the reader whether anything changed.
//
// Set, Get and Snapshot may be called from any goroutine. Pending must only
// be called by the single reader.
type Surface struct {
	cells   [len(specs)]atomic.Uint64
	version atomic.Uint64

	// seen is owned by the reader.
	seen uint64
}

// NewSurface returns a surface initialized to the parameter defaults. The
// first call to Pending reports the defaults.
func NewSurface() *Surface {
	s := &Surface{}
	s.Reset()
	return s
}

// Reset restores every parameter to its default.
func (s *Surface) Reset() {
	for i := range specs {
		s.cells[i].Store(math.Float64bits(specs[i].Default))
	}
	s.version.Add(1)
}

// Set validates v and stores it under id.
func (s *Surface) Set(id string, v float64) error {
	i := index(id)
	if i < 0 {
		logrus.WithFields(logrus.Fields{
			"function":  "Surface.Set",
			"parameter": id,
		}).Warn("Unknown parameter")
		return fmt.Errorf("%q: %w", id, ErrUnknown)
	}
	if err := specs[i].Validate(v); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":  "Surface.Set",
			"parameter": id,
			"value":     v,
			"error":     err.Error(),
		}).Warn("Rejected parameter value")
		return err
	}

	s.cells[i].Store(math.Float64bits(v))
	s.version.Add(1)

	logrus.WithFields(logrus.Fields{
		"function":  "Surface.Set",
		"parameter": id,
		"value":     v,
	}).Debug("Parameter updated")
	return nil
}

// SetNormalized stores a value given in [0, 1] host-normalized form.
func (s *Surface) SetNormalized(id string, n float64) error {
	spec, ok := Lookup(id)
	if !ok {
		return fmt.Errorf("%q: %w", id, ErrUnknown)
	}
	if math.IsNaN(n) {
		return fmt.Errorf("%s = %v: %w", id, n, ErrNotFinite)
	}
	return s.Set(id, spec.Denormalize(n))
}

// Get returns the current value of id.
func (s *Surface) Get(id string) (float64, error) {
	i := index(id)
	if i < 0 {
		return 0, fmt.Errorf("%q: %w", id, ErrUnknown)
	}
	return s.load(i), nil
}

// Snapshot returns the current values. A concurrent Set may be only
// partially reflected.
func (s *Surface) Snapshot() Snapshot {
	return Snapshot{
		DelayTimeMs: s.load(0),
		Feedback:    s.load(1),
		Ratio:       s.load(2),
	}
}

// Pending returns a snapshot and true if any value changed since the
// previous call, or a zero Snapshot and false otherwise. It does not
// allocate and is safe to call from the audio goroutine.
func (s *Surface) Pending() (Snapshot, bool) {
	v := s.version.Load()
	if v == s.seen {
		return Snapshot{}, false
	}
	s.seen = v
	return s.Snapshot(), true
}

func (s *Surface) load(i int) float64 {
	return math.Float64frombits(s.cells[i].Load())
}
