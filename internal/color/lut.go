// Package color converts between sRGB bytes and linear light and
// interpolates palettes in linear light.
//
// Lookup tables replace math.Pow in the per-pixel paths: sRGB byte to
// linear is a 256 entry table and linear to sRGB a 4096 entry table,
// which is exact for 8-bit output.
package color

import "math"

const linearSteps = 4096

var (
	toLinearLUT   [256]float32
	fromLinearLUT [linearSteps]uint8
)

func init() {
	for i := range 256 {
		toLinearLUT[i] = float32(decode(float64(i) / 255))
	}
	for i := range linearSteps {
		fromLinearLUT[i] = clampByte(encode(float64(i) / (linearSteps - 1)))
	}
}

// decode is the sRGB transfer function inverse.
func decode(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// encode is the sRGB transfer function.
func encode(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1/2.4) - 0.055
}

func clampByte(s float64) uint8 {
	//nolint:gosec // G115: clamped to [0,255]
	return uint8(min(max(int(s*255+0.5), 0), 255))
}

// ToLinear converts an sRGB byte to linear light in [0, 1].
func ToLinear(s uint8) float32 { return toLinearLUT[s] }

// FromLinear converts linear light to an sRGB byte. Input outside
// [0, 1] is clamped; NaN maps to 0.
func FromLinear(l float32) uint8 {
	if !(l > 0) {
		return 0
	}
	l = min(l, 1)
	return fromLinearLUT[int(l*(linearSteps-1)+0.5)]
}
