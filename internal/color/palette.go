package color

import "math"

// Linear is a color in linear light with straight alpha.
type Linear struct {
	R, G, B, A float32
}

// Decode converts a packed 0xAARRGGBB color to linear light.
func Decode(argb uint32) Linear {
	return Linear{
		R: ToLinear(uint8(argb >> 16)),
		G: ToLinear(uint8(argb >> 8)),
		B: ToLinear(uint8(argb)),
		A: float32(argb>>24) / 255,
	}
}

// Encode converts c back to a packed 0xAARRGGBB color.
func (c Linear) Encode() uint32 {
	a := clampByte(float64(c.A))
	return uint32(a)<<24 | uint32(FromLinear(c.R))<<16 | uint32(FromLinear(c.G))<<8 | uint32(FromLinear(c.B))
}

// Lerp interpolates between c and d; t = 0 gives c.
func (c Linear) Lerp(d Linear, t float32) Linear {
	return Linear{
		R: c.R + (d.R-c.R)*t,
		G: c.G + (d.G-c.G)*t,
		B: c.B + (d.B-c.B)*t,
		A: c.A + (d.A-c.A)*t,
	}
}

// Palette is a cyclic sequence of equally spaced color stops. The last
// stop blends back into the first.
type Palette struct {
	stops []Linear
}

// NewPalette creates a palette from packed 0xAARRGGBB stops.
func NewPalette(stops ...uint32) Palette {
	p := Palette{stops: make([]Linear, len(stops))}
	for i, s := range stops {
		p.stops[i] = Decode(s)
	}
	return p
}

// Len returns the number of stops.
func (p Palette) Len() int { return len(p.stops) }

// At returns the color at position t. Positions are taken modulo 1 and
// stop i sits at i/Len. An empty palette is opaque black.
func (p Palette) At(t float64) uint32 {
	n := len(p.stops)
	if n == 0 {
		return 0xFF000000
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		t = 0
	}
	t -= math.Floor(t)
	pos := t * float64(n)
	i := int(pos)
	if i >= n {
		i = 0
	}
	frac := float32(pos - float64(i))
	return p.stops[i].Lerp(p.stops[(i+1)%n], frac).Encode()
}
