// Package cplx provides the complex operations fractal formulas need on
// top of math/cmplx.
//
// All functions take and return complex128 by value, so evaluating a
// formula never allocates.
package cplx

import (
	"math"
	"math/cmplx"
)

// maxPowInt bounds the exponents that take the repeated-squaring path.
// Larger exponents fall back to the general complex power.
const maxPowInt = 1 << 16

// Re returns the real part of z as a complex number.
func Re(z complex128) complex128 { return complex(real(z), 0) }

// Im returns the imaginary part of z as a complex number.
func Im(z complex128) complex128 { return complex(imag(z), 0) }

// Conj returns the complex conjugate of z.
func Conj(z complex128) complex128 { return complex(real(z), -imag(z)) }

// Sqr returns z*z.
func Sqr(z complex128) complex128 {
	re, im := real(z), imag(z)
	return complex(re*re-im*im, 2*re*im)
}

// Recip returns 1/z.
func Recip(z complex128) complex128 { return 1 / z }

// SqrAbs returns the squared magnitude of z.
func SqrAbs(z complex128) float64 {
	re, im := real(z), imag(z)
	return re*re + im*im
}

// Rad returns the magnitude of z as a real complex number.
func Rad(z complex128) complex128 { return complex(cmplx.Abs(z), 0) }

// Arg returns the argument of z in radians as a real complex number.
func Arg(z complex128) complex128 { return complex(cmplx.Phase(z), 0) }

// AbsParts returns |re| + |im|i.
func AbsParts(z complex128) complex128 {
	return complex(math.Abs(real(z)), math.Abs(imag(z)))
}

// RAbs returns |re| + im·i.
func RAbs(z complex128) complex128 { return complex(math.Abs(real(z)), imag(z)) }

// IAbs returns re + |im|i.
func IAbs(z complex128) complex128 { return complex(real(z), math.Abs(imag(z))) }

// Floor rounds both components down.
func Floor(z complex128) complex128 {
	return complex(math.Floor(real(z)), math.Floor(imag(z)))
}

// Ceil rounds both components up.
func Ceil(z complex128) complex128 {
	return complex(math.Ceil(real(z)), math.Ceil(imag(z)))
}

// Mod returns a - b·floor(a/b), the complex analogue of a floored modulo.
func Mod(a, b complex128) complex128 {
	return a - b*Floor(a/b)
}

// Max returns the component-wise maximum of a and b.
func Max(a, b complex128) complex128 {
	return complex(math.Max(real(a), real(b)), math.Max(imag(a), imag(b)))
}

// Min returns the component-wise minimum of a and b.
func Min(a, b complex128) complex128 {
	return complex(math.Min(real(a), real(b)), math.Min(imag(a), imag(b)))
}

// PowInt returns z^n by repeated squaring.
func PowInt(z complex128, n int) complex128 {
	if n < 0 {
		return 1 / PowInt(z, -n)
	}
	result := complex(1, 0)
	for n > 0 {
		if n&1 == 1 {
			result *= z
		}
		z = Sqr(z)
		n >>= 1
	}
	return result
}

// IntExponent reports whether e is a real integer small enough for PowInt.
func IntExponent(e complex128) (int, bool) {
	re := real(e)
	if imag(e) != 0 || re != math.Trunc(re) || math.Abs(re) > maxPowInt {
		return 0, false
	}
	return int(re), true
}

// Pow returns a^b. Integer exponents use PowInt so that the result does
// not depend on whether the exponent was known at compile time.
func Pow(a, b complex128) complex128 {
	if n, ok := IntExponent(b); ok {
		return PowInt(a, n)
	}
	return cmplx.Pow(a, b)
}

// IsFinite reports whether both components of z are finite.
func IsFinite(z complex128) bool {
	re, im := real(z), imag(z)
	return !math.IsNaN(re) && !math.IsNaN(im) && !math.IsInf(re, 0) && !math.IsInf(im, 0)
}
