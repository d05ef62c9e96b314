package fractview

import (
	"errors"
	"math"
)

// ErrSingular is returned when inverting a matrix with zero determinant.
var ErrSingular = errors.New("fractview: singular matrix")

// Matrix is a 2D affine transformation in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// It maps (x, y) to (a*x + b*y + c, d*x + e*y + f).
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, E: y}
}

// Rotate creates a counter-clockwise rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{
		A: cos, B: -sin,
		D: sin, E: cos,
	}
}

// Multiply returns m * other, which applies other first.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// Apply transforms the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// Invert returns the inverse matrix.
func (m Matrix) Invert() (Matrix, error) {
	det := m.A*m.E - m.B*m.D
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Matrix{}, ErrSingular
	}
	inv := 1 / det
	return Matrix{
		A: m.E * inv,
		B: -m.B * inv,
		C: (m.B*m.F - m.C*m.E) * inv,
		D: -m.D * inv,
		E: m.A * inv,
		F: (m.C*m.D - m.A*m.F) * inv,
	}, nil
}

// Viewport maps pixels to points of the complex plane. Pixel centers are
// first mapped to normalized coordinates in which the shorter image side
// spans [-1, 1] and +y is up; the matrix then maps those coordinates to
// (re, im).
type Viewport struct {
	Matrix Matrix
}

// NewViewport returns the viewport centered on center whose shorter side
// spans [center-radius, center+radius], rotated counter-clockwise by
// rotation radians.
func NewViewport(center complex128, radius, rotation float64) Viewport {
	m := Translate(real(center), imag(center)).
		Multiply(Rotate(rotation)).
		Multiply(Scale(radius, radius))
	return Viewport{Matrix: m}
}

// Point returns the plane point at the center of pixel (x, y) of a
// w x h image.
func (v Viewport) Point(x, y, w, h int) complex128 {
	s := float64(min(w, h))
	u := (2*float64(x) + 1 - float64(w)) / s
	t := (float64(h) - 2*float64(y) - 1) / s
	re, im := v.Matrix.Apply(u, t)
	return complex(re, im)
}

// Zoom returns the viewport whose center is pixel (x, y) of a w x h
// image, scaled by factor. Factors below 1 zoom in.
func (v Viewport) Zoom(x, y, w, h int, factor float64) Viewport {
	c := v.Point(x, y, w, h)
	m := v.Matrix.Multiply(Scale(factor, factor))
	m.C, m.F = real(c), imag(c)
	return Viewport{Matrix: m}
}
