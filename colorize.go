package fractview

import (
	"github.com/searles/fractview/internal/color"
	"github.com/searles/fractview/orbit"
)

// Colorizer maps the classification and scalar value of a pixel to a
// color. stats holds the ranges of all values computed before the
// current pass; it may be empty and is nil when unavailable.
type Colorizer interface {
	Color(kind orbit.Kind, value float64, stats *Stats) Color
}

// ColorizerFunc adapts a function to the Colorizer interface.
type ColorizerFunc func(kind orbit.Kind, value float64, stats *Stats) Color

// Color implements Colorizer.
func (f ColorizerFunc) Color(kind orbit.Kind, value float64, stats *Stats) Color {
	return f(kind, value, stats)
}

// Layer describes the palette of one orbit kind.
type Layer struct {
	// Colors are the equally spaced stops of a cyclic palette.
	Colors []Color `yaml:"colors,flow"`

	// Cycles is the number of palette repetitions over the value range.
	// Zero means 1.
	Cycles float64 `yaml:"cycles,omitempty"`

	// Offset shifts the palette position, in palette lengths.
	Offset float64 `yaml:"offset,omitempty"`

	// Raw uses values as palette positions directly instead of scaling
	// them to the range of the render.
	Raw bool `yaml:"raw,omitempty"`
}

// DefaultBailoutLayer is a blue and orange palette for escaping points.
func DefaultBailoutLayer() Layer {
	return Layer{Colors: []Color{0xFF000764, 0xFF206BCB, 0xFFEDFFFF, 0xFFFFAA00, 0xFF000200}}
}

// DefaultLakeLayer paints converging points black.
func DefaultLakeLayer() Layer {
	return Layer{Colors: []Color{Black}}
}

// PaletteColorizer colors each orbit kind with its own cyclic palette,
// interpolated in linear light.
type PaletteColorizer struct {
	layers [2]layer
}

type layer struct {
	Layer
	palette color.Palette
}

// NewPaletteColorizer creates a colorizer from the bailout and lake
// layers.
func NewPaletteColorizer(bailout, lake Layer) *PaletteColorizer {
	p := &PaletteColorizer{}
	for i, l := range []Layer{bailout, lake} {
		stops := make([]uint32, len(l.Colors))
		for j, c := range l.Colors {
			stops[j] = uint32(c)
		}
		if l.Cycles == 0 {
			l.Cycles = 1
		}
		p.layers[i] = layer{Layer: l, palette: color.NewPalette(stops...)}
	}
	return p
}

// Color implements Colorizer. Values are scaled to the range of their
// kind; without a usable range the value is the palette position.
func (p *PaletteColorizer) Color(kind orbit.Kind, value float64, stats *Stats) Color {
	l := &p.layers[0]
	if kind == orbit.Lake {
		l = &p.layers[1]
	}
	t := value
	if !l.Raw && stats != nil {
		if r := stats.Range(kind); r != nil {
			if n, ok := r.Normalize(value); ok {
				t = n
			}
		}
	}
	return Color(l.palette.At(t*l.Cycles + l.Offset))
}
