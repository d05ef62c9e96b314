package fractview

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a packed 0xAARRGGBB sRGB color with straight alpha.
type Color uint32

// Common colors.
const (
	Black       Color = 0xFF000000
	White       Color = 0xFFFFFFFF
	Transparent Color = 0
)

// ARGB creates a color from 8-bit components.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// A returns the alpha component.
func (c Color) A() uint8 { return uint8(c >> 24) }

// R returns the red component.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green component.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue component.
func (c Color) B() uint8 { return uint8(c) }

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}.RGBA()
}

// Hex parses a color in one of the forms "RGB", "RRGGBB" or "AARRGGBB",
// with an optional leading '#'. Colors without alpha are opaque.
func Hex(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("fractview: bad color %q", s)
	}
	switch len(h) {
	case 3:
		r, g, b := v>>8&0xF, v>>4&0xF, v&0xF
		return ARGB(0xFF, uint8(r*17), uint8(g*17), uint8(b*17)), nil
	case 6:
		return Color(0xFF000000 | v), nil
	case 8:
		return Color(v), nil
	}
	return 0, fmt.Errorf("fractview: bad color %q", s)
}

// String returns the color as "#AARRGGBB", or "#RRGGBB" when opaque.
func (c Color) String() string {
	if c.A() == 0xFF {
		return fmt.Sprintf("#%06X", uint32(c)&0xFFFFFF)
	}
	return fmt.Sprintf("#%08X", uint32(c))
}

// MarshalText implements encoding.TextMarshaler, so colors appear as hex
// strings in fractal descriptions.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	v, err := Hex(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
