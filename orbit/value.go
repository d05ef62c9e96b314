package orbit

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"slices"
	"strings"
)

// ErrUnknownValuer is returned by ValuerByName.
var ErrUnknownValuer = errors.New("orbit: unknown value function")

// Valuer reduces a classified orbit to the scalar used for coloring.
type Valuer interface {
	Value(o *Orbit, limits Limits) float64
}

// ValuerFunc adapts a function to Valuer.
type ValuerFunc func(o *Orbit, limits Limits) float64

// Value calls f.
func (f ValuerFunc) Value(o *Orbit, limits Limits) float64 { return f(o, limits) }

// Smooth is the continuous escape count. It interpolates between integer
// counts using how far beyond the bailout radius the last value landed.
type Smooth struct {
	// Degree is the growth order of the recurrence; 0 means 2.
	Degree float64
}

// Value implements Valuer.
func (s Smooth) Value(o *Orbit, limits Limits) float64 {
	n := float64(o.Len() - 1)
	last := o.Last()
	r := cmplx.Abs(last)
	if math.IsInf(r, 0) || math.IsNaN(r) || limits.Bailout <= 1 || r <= 1 {
		return max(n, 0)
	}
	d := s.Degree
	if d <= 1 {
		d = 2
	}
	v := n + 1 - math.Log(math.Log(r)/math.Log(limits.Bailout))/math.Log(d)
	return max(v, 0)
}

// Count is the number of orbit values.
type Count struct{}

// Value implements Valuer.
func (Count) Value(o *Orbit, _ Limits) float64 { return float64(o.Len()) }

// Angle is the argument of the last value in turns, in [0, 1).
type Angle struct{}

// Value implements Valuer.
func (Angle) Value(o *Orbit, _ Limits) float64 {
	t := cmplx.Phase(o.Last()) / (2 * math.Pi)
	if t < 0 {
		t++
	}
	return t
}

// Magnitude is the modulus of the last value.
type Magnitude struct{}

// Value implements Valuer.
func (Magnitude) Value(o *Orbit, _ Limits) float64 {
	r := cmplx.Abs(o.Last())
	if math.IsNaN(r) {
		return 0
	}
	return r
}

var valuers = map[string]Valuer{
	"smooth":    Smooth{},
	"count":     Count{},
	"angle":     Angle{},
	"magnitude": Magnitude{},
}

// ValuerByName returns a value function by its configuration name. The
// empty name selects "smooth".
func ValuerByName(name string) (Valuer, error) {
	if name == "" {
		name = "smooth"
	}
	if v, ok := valuers[strings.ToLower(name)]; ok {
		return v, nil
	}
	known := make([]string, 0, len(valuers))
	for k := range valuers {
		known = append(known, k)
	}
	slices.Sort(known)
	return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownValuer, name, strings.Join(known, ", "))
}
