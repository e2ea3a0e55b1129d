package param

import (
	"errors"
	"fmt"
	"math"
)

// Parameter identifiers.
const (
	DelayTime = "delayTime"
	Feedback  = "feedback"
	Ratio     = "ratio"
)

// Errors returned by parameter validation.
var (
	ErrUnknown    = errors.New("param: unknown parameter")
	ErrOutOfRange = errors.New("param: value out of range")
	ErrNotFinite  = errors.New("param: value is not finite")
)

// Spec describes one control parameter.
type Spec struct {
	ID      string
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64
}

var specs = [...]Spec{
	{ID: DelayTime, Name: "DelayTime", Unit: "ms", Min: 0, Max: 2000, Default: 800},
	{ID: Feedback, Name: "Feedback", Min: 0, Max: 1, Default: 0.5},
	{ID: Ratio, Name: "Ratio", Unit: "%", Min: 0, Max: 100, Default: 50},
}

// Specs returns the parameter specs in declaration order.
func Specs() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs[:])
	return out
}

// Lookup returns the spec for id.
func Lookup(id string) (Spec, bool) {
	i := index(id)
	if i < 0 {
		return Spec{}, false
	}
	return specs[i], true
}

// Validate checks that v is finite and within [Min, Max].
func (s Spec) Validate(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s = %v: %w", s.ID, v, ErrNotFinite)
	}
	if v < s.Min || v > s.Max {
		return fmt.Errorf("%s = %v not in [%v, %v]: %w", s.ID, v, s.Min, s.Max, ErrOutOfRange)
	}
	return nil
}

// Clamp limits v to [Min, Max].
func (s Spec) Clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// Normalize maps v from [Min, Max] to [0, 1].
func (s Spec) Normalize(v float64) float64 {
	if s.Max <= s.Min {
		return 0
	}
	return (s.Clamp(v) - s.Min) / (s.Max - s.Min)
}

// Denormalize maps a normalized value in [0, 1] back to [Min, Max].
func (s Spec) Denormalize(n float64) float64 {
	if n < 0 {
		n = 0
	} else if n > 1 {
		n = 1
	}
	return s.Min + n*(s.Max-s.Min)
}

// Format renders v with the parameter unit.
func (s Spec) Format(v float64) string {
	switch s.Unit {
	case "ms":
		return fmt.Sprintf("%.1f ms", v)
	case "%":
		return fmt.Sprintf("%.0f %%", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// Snapshot is one consistent set of parameter values.
type Snapshot struct {
	DelayTimeMs float64
	Feedback    float64
	Ratio       float64
}

// DefaultSnapshot returns the parameter defaults.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		DelayTimeMs: specs[0].Default,
		Feedback:    specs[1].Default,
		Ratio:       specs[2].Default,
	}
}

// Value returns the value stored under id.
func (s Snapshot) Value(id string) (float64, error) {
	switch id {
	case DelayTime:
		return s.DelayTimeMs, nil
	case Feedback:
		return s.Feedback, nil
	case Ratio:
		return s.Ratio, nil
	}
	return 0, fmt.Errorf("%q: %w", id, ErrUnknown)
}

// With returns a copy of s with id set to v. The value is not validated.
func (s Snapshot) With(id string, v float64) (Snapshot, error) {
	switch id {
	case DelayTime:
		s.DelayTimeMs = v
	case Feedback:
		s.Feedback = v
	case Ratio:
		s.Ratio = v
	default:
		return s, fmt.Errorf("%q: %w", id, ErrUnknown)
	}
	return s, nil
}

// Validate checks every field against its spec.
func (s Snapshot) Validate() error {
	values := [...]float64{s.DelayTimeMs, s.Feedback, s.Ratio}
	for i, v := range values {
		if err := specs[i].Validate(v); err != nil {
			return err
		}
	}
	return nil
}

func index(id string) int {
	for i := range specs {
		if specs[i].ID == id {
			return i
		}
	}
	return -1
}
