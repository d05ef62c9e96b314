// Package orbit iterates compiled recurrences for single points of the
// plane and classifies the resulting orbits.
package orbit

import (
	"errors"
	"fmt"

	"github.com/searles/fractview/cplx"
	"github.com/searles/fractview/formula"
)

// Kind classifies an orbit.
type Kind uint8

const (
	// Running is the state of an orbit being computed.
	Running Kind = iota
	// Bailout means the orbit escaped or became non-finite.
	Bailout
	// Lake means the orbit converged or did not escape in time.
	Lake
)

func (k Kind) String() string {
	switch k {
	case Running:
		return "running"
	case Bailout:
		return "bailout"
	case Lake:
		return "lake"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ErrLimits is returned for unusable iteration limits.
var ErrLimits = errors.New("orbit: invalid limits")

// Limits bound an orbit.
type Limits struct {
	// MaxIterations is the number of orbit values, initializers included.
	MaxIterations int
	// Bailout is the escape radius.
	Bailout float64
	// Epsilon is the convergence distance. Zero disables convergence
	// detection.
	Epsilon float64
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{MaxIterations: 1024, Bailout: 64, Epsilon: 1e-9}
}

// Orbit is the sequence of values of one point. The buffer is allocated
// once and reused by Generator.Run, so an Orbit belongs to one goroutine.
type Orbit struct {
	values []complex128
	Kind   Kind
	Value  float64
}

// New returns an orbit with room for maxIterations values.
func New(maxIterations int) *Orbit {
	return &Orbit{values: make([]complex128, 0, maxIterations)}
}

// Len returns the number of values.
func (o *Orbit) Len() int { return len(o.values) }

// At returns value i.
func (o *Orbit) At(i int) complex128 { return o.values[i] }

// Last returns the latest value, or 0 for an empty orbit.
func (o *Orbit) Last() complex128 {
	if len(o.values) == 0 {
		return 0
	}
	return o.values[len(o.values)-1]
}

// Values returns the orbit values. The slice is reused by the next run.
func (o *Orbit) Values() []complex128 { return o.values }

// Generator runs a program for points of the plane. It only reads the
// program, so one generator can serve many goroutines, each with its own
// Orbit.
type Generator struct {
	prog    *formula.Program
	params  []complex128
	limits  Limits
	bailout Valuer
	lake    Valuer
}

// NewGenerator returns a generator for prog. The parameter values are
// captured now; later SetParam calls need a new generator. Nil valuers
// default to Smooth and Magnitude.
func NewGenerator(prog *formula.Program, limits Limits, bailoutValue, lakeValue Valuer) (*Generator, error) {
	if limits.MaxIterations <= prog.HistoryLen() {
		return nil, fmt.Errorf("%w: %d iterations do not exceed %d initializers",
			ErrLimits, limits.MaxIterations, prog.HistoryLen())
	}
	if !(limits.Bailout > 0) || limits.Epsilon < 0 {
		return nil, fmt.Errorf("%w: bailout %g, epsilon %g", ErrLimits, limits.Bailout, limits.Epsilon)
	}
	if bailoutValue == nil {
		bailoutValue = Smooth{}
	}
	if lakeValue == nil {
		lakeValue = Magnitude{}
	}
	return &Generator{
		prog:    prog,
		params:  prog.Values(),
		limits:  limits,
		bailout: bailoutValue,
		lake:    lakeValue,
	}, nil
}

// Limits returns the limits of g.
func (g *Generator) Limits() Limits { return g.limits }

// Run computes the orbit of c into o and classifies it.
func (g *Generator) Run(c complex128, o *Orbit) {
	o.values = o.values[:0]
	o.Kind = Running

	bailout2 := g.limits.Bailout * g.limits.Bailout
	eps2 := g.limits.Epsilon * g.limits.Epsilon

	for i, init := range g.prog.Init {
		v := init.Eval(c, o.values, i, g.params)
		o.values = append(o.values, v)
		if !cplx.IsFinite(v) {
			o.Kind = Bailout
			break
		}
	}

	for n := len(o.values); o.Kind == Running && n < g.limits.MaxIterations; n++ {
		v := g.prog.Function.Eval(c, o.values, n, g.params)
		o.values = append(o.values, v)
		switch {
		case !cplx.IsFinite(v) || cplx.SqrAbs(v) >= bailout2:
			o.Kind = Bailout
		case n > 0 && cplx.SqrAbs(v-o.values[n-1]) < eps2:
			o.Kind = Lake
		}
	}

	switch o.Kind {
	case Bailout:
		o.Value = g.bailout.Value(o, g.limits)
	default:
		o.Kind = Lake
		o.Value = g.lake.Value(o, g.limits)
	}
}
