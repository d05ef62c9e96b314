package fractview

import (
	"math"
	"testing"

	"github.com/searles/fractview/orbit"
)

// =============================================================================
// Stats Tests
// =============================================================================

func TestRange_Add(t *testing.T) {
	var r Range
	for _, v := range []float64{3, math.NaN(), -1, math.Inf(1), 7} {
		r.Add(v)
	}
	if r != (Range{Min: -1, Max: 7, N: 3}) {
		t.Errorf("Range = %+v, want {-1 7 3}", r)
	}
}

func TestRange_Merge(t *testing.T) {
	var a, b, empty Range
	a.Add(2)
	b.Add(-5)
	b.Add(1)

	a.Merge(empty)
	if a != (Range{Min: 2, Max: 2, N: 1}) {
		t.Errorf("merge with empty = %+v", a)
	}
	a.Merge(b)
	if a != (Range{Min: -5, Max: 2, N: 3}) {
		t.Errorf("merge = %+v, want {-5 2 3}", a)
	}
	empty.Merge(b)
	if empty != b {
		t.Errorf("empty.Merge(b) = %+v, want %+v", empty, b)
	}
}

func TestRange_Normalize(t *testing.T) {
	r := Range{Min: 2, Max: 6, N: 10}
	if got, ok := r.Normalize(3); !ok || got != 0.25 {
		t.Errorf("Normalize(3) = %v, %v, want 0.25", got, ok)
	}
	for _, deg := range []Range{{}, {Min: 1, Max: 1, N: 4}} {
		if _, ok := deg.Normalize(1); ok {
			t.Errorf("%+v.Normalize() ok, want degenerate", deg)
		}
	}
}

func TestStats(t *testing.T) {
	var s, o Stats
	s.Add(orbit.Bailout, 4)
	s.Add(orbit.Lake, 0.5)
	s.Add(orbit.Running, 100)
	o.Add(orbit.Bailout, 10)

	s.Merge(&o)
	if s.Bailout != (Range{Min: 4, Max: 10, N: 2}) || s.Lake.N != 1 {
		t.Errorf("Stats = %+v", s)
	}
	if s.Range(orbit.Running) != nil {
		t.Error("Range(Running) != nil")
	}
	s.Reset()
	if s != (Stats{}) {
		t.Errorf("Reset() left %+v", s)
	}
}

// =============================================================================
// Colorizer Tests
// =============================================================================

func TestPaletteColorizer_Normalized(t *testing.T) {
	p := NewPaletteColorizer(Layer{Colors: []Color{Black, White}}, Layer{Colors: []Color{0xFF00FF00}})
	stats := &Stats{Bailout: Range{Min: 0, Max: 10, N: 2}}

	tests := []struct {
		name  string
		kind  orbit.Kind
		value float64
		stats *Stats
		want  Color
	}{
		{"range start", orbit.Bailout, 0, stats, Black},
		{"range middle", orbit.Bailout, 5, stats, White},
		{"no stats uses raw value", orbit.Bailout, 0.5, nil, White},
		{"empty range uses raw value", orbit.Bailout, 0.5, &Stats{}, White},
		{"lake layer", orbit.Lake, 123, stats, 0xFF00FF00},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Color(tt.kind, tt.value, tt.stats); got != tt.want {
				t.Errorf("Color(%v, %v) = %v, want %v", tt.kind, tt.value, got, tt.want)
			}
		})
	}
}

func TestPaletteColorizer_CyclesOffsetRaw(t *testing.T) {
	stats := &Stats{Bailout: Range{Min: 0, Max: 10, N: 2}}
	bw := []Color{Black, White}

	cycles := NewPaletteColorizer(Layer{Colors: bw, Cycles: 2}, DefaultLakeLayer())
	if got := cycles.Color(orbit.Bailout, 2.5, stats); got != White {
		t.Errorf("cycles: Color(2.5) = %v, want white", got)
	}

	offset := NewPaletteColorizer(Layer{Colors: bw, Offset: 0.5}, DefaultLakeLayer())
	if got := offset.Color(orbit.Bailout, 0, stats); got != White {
		t.Errorf("offset: Color(0) = %v, want white", got)
	}

	raw := NewPaletteColorizer(Layer{Colors: bw, Raw: true}, DefaultLakeLayer())
	if got := raw.Color(orbit.Bailout, 3.5, stats); got != White {
		t.Errorf("raw: Color(3.5) = %v, want white", got)
	}
}

func TestDefaultLayers(t *testing.T) {
	p := NewPaletteColorizer(DefaultBailoutLayer(), DefaultLakeLayer())
	if got := p.Color(orbit.Lake, 0.3, nil); got != Black {
		t.Errorf("lake color = %v, want black", got)
	}
	for v := 0.0; v < 1; v += 0.01 {
		if got := p.Color(orbit.Bailout, v, nil); got.A() != 0xFF || got == Black {
			t.Fatalf("bailout color at %v = %v, want opaque non-black", v, got)
		}
	}
}
