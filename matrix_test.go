package fractview

import (
	"errors"
	"math"
	"testing"
)

func near(a, b complex128) bool {
	return math.Abs(real(a)-real(b)) < 1e-9 && math.Abs(imag(a)-imag(b)) < 1e-9
}

func TestMatrix_Multiply(t *testing.T) {
	// Scale then translate: translation is applied after scaling.
	m := Translate(10, 20).Multiply(Scale(2, 3))
	x, y := m.Apply(1, 1)
	if x != 12 || y != 23 {
		t.Errorf("Apply(1, 1) = (%v, %v), want (12, 23)", x, y)
	}
	if got := Identity().Multiply(m); got != m {
		t.Errorf("Identity() * m = %+v, want %+v", got, m)
	}
}

func TestMatrix_Rotate(t *testing.T) {
	x, y := Rotate(math.Pi/2).Apply(1, 0)
	if !near(complex(x, y), 1i) {
		t.Errorf("Rotate(pi/2).Apply(1, 0) = (%v, %v), want (0, 1)", x, y)
	}
}

func TestMatrix_Invert(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"identity", Identity()},
		{"translate", Translate(3, -4)},
		{"scale", Scale(2, 0.5)},
		{"rotate", Rotate(0.7)},
		{"combined", Translate(1, 2).Multiply(Rotate(1.1)).Multiply(Scale(3, 3))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := tt.m.Invert()
			if err != nil {
				t.Fatal(err)
			}
			x, y := tt.m.Multiply(inv).Apply(5, -7)
			if !near(complex(x, y), complex(5, -7)) {
				t.Errorf("m * m^-1 maps (5, -7) to (%v, %v)", x, y)
			}
		})
	}

	if _, err := Scale(0, 1).Invert(); !errors.Is(err, ErrSingular) {
		t.Errorf("Scale(0, 1).Invert() error = %v, want ErrSingular", err)
	}
}

// =============================================================================
// Viewport Tests
// =============================================================================

func TestViewport_Point(t *testing.T) {
	id := Viewport{Matrix: Identity()}
	tests := []struct {
		name       string
		v          Viewport
		x, y, w, h int
		want       complex128
	}{
		{"square top left", id, 0, 0, 2, 2, complex(-0.5, 0.5)},
		{"square bottom right", id, 1, 1, 2, 2, complex(0.5, -0.5)},
		{"wide top left", id, 0, 0, 4, 2, complex(-1.5, 0.5)},
		{"wide bottom right", id, 3, 1, 4, 2, complex(1.5, -0.5)},
		{"tall", id, 0, 3, 2, 4, complex(-0.5, -1.5)},
		{"odd center", id, 2, 2, 5, 5, 0},
		{"centered", NewViewport(complex(-0.5, 0), 1.5, 0), 2, 2, 5, 5, complex(-0.5, 0)},
		{"rotated", NewViewport(complex(1, 2), 2, math.Pi/2), 4, 2, 5, 5, complex(1, 3.6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Point(tt.x, tt.y, tt.w, tt.h); !near(got, tt.want) {
				t.Errorf("Point(%d, %d, %d, %d) = %v, want %v", tt.x, tt.y, tt.w, tt.h, got, tt.want)
			}
		})
	}
}

// The shorter side spans [-1, 1] at pixel edges.
func TestViewport_ShortSideSpan(t *testing.T) {
	v := Viewport{Matrix: Identity()}
	for _, size := range [][2]int{{640, 480}, {480, 640}, {7, 7}} {
		w, h := size[0], size[1]
		s := float64(min(w, h))
		top := v.Point(0, 0, w, h)
		bottom := v.Point(w-1, h-1, w, h)
		var span float64
		if w <= h {
			span = real(bottom) - real(top)
		} else {
			span = imag(top) - imag(bottom)
		}
		if want := 2 - 2/s; math.Abs(span-want) > 1e-12 {
			t.Errorf("%dx%d: center span = %v, want %v", w, h, span, want)
		}
	}
}

func TestViewport_Zoom(t *testing.T) {
	v := NewViewport(0, 2, 0)
	z := v.Zoom(75, 25, 100, 100, 0.5)
	if got, want := complex(z.Matrix.C, z.Matrix.F), v.Point(75, 25, 100, 100); !near(got, want) {
		t.Errorf("zoomed center = %v, want %v", got, want)
	}
	if got := math.Hypot(z.Matrix.A, z.Matrix.D); math.Abs(got-1) > 1e-12 {
		t.Errorf("zoomed radius = %v, want 1", got)
	}
}
