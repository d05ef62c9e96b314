package fractview

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/searles/fractview/expr"
	"github.com/searles/fractview/formula"
	"github.com/searles/fractview/orbit"
	"github.com/searles/fractview/parser"
)

// ErrFractal is wrapped by errors about a fractal description that are
// not formula syntax errors.
var ErrFractal = errors.New("fractview: invalid fractal")

// Fractal is the serializable description of an image: the recurrence,
// its parameters, the iteration limits, the viewport and the palettes.
type Fractal struct {
	// Function computes the next orbit value.
	Function string `yaml:"function"`

	// Init holds one initializer per history slot of Function.
	Init []string `yaml:"init,omitempty"`

	// Params maps parameter names to constant expressions such as
	// "0.5,-1" or "2 pi".
	Params map[string]string `yaml:"params,omitempty"`

	MaxIterations int     `yaml:"max_iterations"`
	Bailout       float64 `yaml:"bailout"`
	Epsilon       float64 `yaml:"epsilon"`

	// BailoutValue and LakeValue name the orbit value functions: smooth,
	// count, angle or magnitude.
	BailoutValue string `yaml:"bailout_value,omitempty"`
	LakeValue    string `yaml:"lake_value,omitempty"`

	// Degree is the growth order used by the smooth value function.
	Degree float64 `yaml:"degree,omitempty"`

	View   View   `yaml:"view"`
	Colors Colors `yaml:"colors"`
}

// View is the serialized form of a Viewport.
type View struct {
	Center [2]float64 `yaml:"center,flow"`
	// Radius is half the extent of the shorter image side.
	Radius float64 `yaml:"radius"`
	// Rotation is counter-clockwise, in degrees.
	Rotation float64 `yaml:"rotation,omitempty"`
}

// Colors holds the palette layers of both orbit kinds.
type Colors struct {
	Bailout Layer `yaml:"bailout"`
	Lake    Layer `yaml:"lake"`
}

// DefaultFractal returns the Mandelbrot set.
func DefaultFractal() *Fractal {
	limits := orbit.DefaultLimits()
	return &Fractal{
		Function:      "z^2 + c",
		Init:          []string{"0"},
		MaxIterations: limits.MaxIterations,
		Bailout:       limits.Bailout,
		Epsilon:       limits.Epsilon,
		BailoutValue:  "smooth",
		LakeValue:     "magnitude",
		View:          View{Center: [2]float64{-0.5, 0}, Radius: 1.5},
		Colors:        Colors{Bailout: DefaultBailoutLayer(), Lake: DefaultLakeLayer()},
	}
}

// FormulaError reports syntax errors in one formula field of a Fractal.
type FormulaError struct {
	// Field is "function", "init[i]" or "params.<name>".
	Field       string
	Source      string
	Diagnostics parser.Diagnostics
}

func (e *FormulaError) Error() string {
	return fmt.Sprintf("fractview: %s: %v", e.Field, e.Diagnostics.Err())
}

// Unwrap returns the diagnostics error, which wraps parser.ErrSyntax.
func (e *FormulaError) Unwrap() error { return e.Diagnostics.Err() }

// ParseFractal reads a YAML description. Fields missing from the input
// keep their DefaultFractal values; unknown fields are an error.
func ParseFractal(r io.Reader) (*Fractal, error) {
	f := DefaultFractal()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("fractview: parse fractal: %w", err)
	}
	return f, nil
}

// LoadFractal reads a YAML description from a file.
func LoadFractal(path string) (*Fractal, error) {
	file, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := ParseFractal(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Encode writes f as YAML.
func (f *Fractal) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("fractview: marshal fractal: %w", err)
	}
	return enc.Close()
}

// Save writes f as YAML to a file.
func (f *Fractal) Save(path string) error {
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Specification parses and validates the formulas of f.
func (f *Fractal) Specification(names *expr.Predefined) (*formula.Specification, error) {
	if names == nil {
		names = expr.DefaultNames()
	}
	p := parser.New(parser.Config{Names: names})

	fn, err := parseField(p, "function", f.Function)
	if err != nil {
		return nil, err
	}
	inits := make([]expr.Expr, len(f.Init))
	for i, src := range f.Init {
		if inits[i], err = parseField(p, fmt.Sprintf("init[%d]", i), src); err != nil {
			return nil, err
		}
	}

	params := make(map[string]complex128, len(f.Params))
	keys := make([]string, 0, len(f.Params))
	for k := range f.Params {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, name := range keys {
		field := "params." + name
		e, err := parseField(p, field, f.Params[name])
		if err != nil {
			return nil, err
		}
		n, ok := e.(expr.Num)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %q is not a constant", ErrFractal, field, f.Params[name])
		}
		params[name] = n.V
	}
	return formula.NewSpecification(fn, inits, params, names)
}

func parseField(p *parser.Parser, field, src string) (expr.Expr, error) {
	e, diags := p.Parse(src)
	if len(diags) > 0 {
		return nil, &FormulaError{Field: field, Source: src, Diagnostics: diags}
	}
	return e, nil
}

// Limits returns the iteration limits of f.
func (f *Fractal) Limits() orbit.Limits {
	return orbit.Limits{MaxIterations: f.MaxIterations, Bailout: f.Bailout, Epsilon: f.Epsilon}
}

// Valuers returns the value functions for escaping and converging orbits.
func (f *Fractal) Valuers() (bailout, lake orbit.Valuer, err error) {
	lakeName := f.LakeValue
	if lakeName == "" {
		lakeName = "magnitude"
	}
	if bailout, err = f.valuer(f.BailoutValue); err != nil {
		return nil, nil, err
	}
	if lake, err = f.valuer(lakeName); err != nil {
		return nil, nil, err
	}
	return bailout, lake, nil
}

func (f *Fractal) valuer(name string) (orbit.Valuer, error) {
	v, err := orbit.ValuerByName(name)
	if err != nil {
		return nil, err
	}
	if _, ok := v.(orbit.Smooth); ok {
		v = orbit.Smooth{Degree: f.Degree}
	}
	return v, nil
}

// Viewport returns the viewport of f.
func (f *Fractal) Viewport() (Viewport, error) {
	if !(f.View.Radius > 0) || math.IsInf(f.View.Radius, 0) {
		return Viewport{}, fmt.Errorf("%w: view radius %g", ErrFractal, f.View.Radius)
	}
	c := complex(f.View.Center[0], f.View.Center[1])
	return NewViewport(c, f.View.Radius, f.View.Rotation*math.Pi/180), nil
}

// SetViewport stores v as the view of f. The matrix must be a rotation
// with uniform scale, as produced by NewViewport and Zoom.
func (f *Fractal) SetViewport(v Viewport) {
	m := v.Matrix
	f.View = View{
		Center:   [2]float64{m.C, m.F},
		Radius:   math.Hypot(m.A, m.D),
		Rotation: math.Atan2(m.D, m.A) * 180 / math.Pi,
	}
}

// Colorizer returns the palette colorizer of f.
func (f *Fractal) Colorizer() *PaletteColorizer {
	return NewPaletteColorizer(f.Colors.Bailout, f.Colors.Lake)
}
