package expr

import (
	"math"
	"math/cmplx"

	"github.com/searles/fractview/cplx"
)

// Op identifies an operator of the catalogue.
type Op uint8

// Binary operators.
const (
	Add Op = iota
	Sub
	Mul
	Div
	Mod
	Pow
	Min
	Max

	// Unary operators.
	Neg
	Recip
	Sqr
	Sqrt
	Exp
	Log
	Sin
	Cos
	Tan
	Atan
	Sinh
	Cosh
	Tanh
	Atanh
	Abs
	RAbs
	IAbs
	Conj
	Re
	Im
	Arg
	Rad
	Floor
	Ceil

	// Constants.
	I
	Pi
	E

	numOps
)

type opInfo struct {
	name        string
	arity       int
	commutative bool
}

var opTable = [numOps]opInfo{
	Add:   {"add", 2, true},
	Sub:   {"sub", 2, false},
	Mul:   {"mul", 2, true},
	Div:   {"div", 2, false},
	Mod:   {"mod", 2, false},
	Pow:   {"pow", 2, false},
	Min:   {"min", 2, true},
	Max:   {"max", 2, true},
	Neg:   {"neg", 1, false},
	Recip: {"recip", 1, false},
	Sqr:   {"sqr", 1, false},
	Sqrt:  {"sqrt", 1, false},
	Exp:   {"exp", 1, false},
	Log:   {"log", 1, false},
	Sin:   {"sin", 1, false},
	Cos:   {"cos", 1, false},
	Tan:   {"tan", 1, false},
	Atan:  {"atan", 1, false},
	Sinh:  {"sinh", 1, false},
	Cosh:  {"cosh", 1, false},
	Tanh:  {"tanh", 1, false},
	Atanh: {"atanh", 1, false},
	Abs:   {"abs", 1, false},
	RAbs:  {"rabs", 1, false},
	IAbs:  {"iabs", 1, false},
	Conj:  {"conj", 1, false},
	Re:    {"re", 1, false},
	Im:    {"im", 1, false},
	Arg:   {"arg", 1, false},
	Rad:   {"rad", 1, false},
	Floor: {"floor", 1, false},
	Ceil:  {"ceil", 1, false},
	I:     {"i", 0, false},
	Pi:    {"pi", 0, false},
	E:     {"e", 0, false},
}

var opsByName = func() map[string]Op {
	m := make(map[string]Op, numOps)
	for op := range numOps {
		m[opTable[op].name] = op
	}
	return m
}()

// Lookup returns the operator with the given (folded) name.
func Lookup(name string) (Op, bool) {
	op, ok := opsByName[name]
	return op, ok
}

// Ops returns every operator of the catalogue.
func Ops() []Op {
	ops := make([]Op, 0, numOps)
	for op := range numOps {
		ops = append(ops, op)
	}
	return ops
}

// String returns the name of op as used in formula text.
func (op Op) String() string {
	if op >= numOps {
		return "op(?)"
	}
	return opTable[op].name
}

// Arity returns the number of operands op takes.
func (op Op) Arity() int { return opTable[op].arity }

// Commutative reports whether the operands of op may be swapped.
func (op Op) Commutative() bool { return opTable[op].commutative }

// Eval0 returns the value of a constant operator.
func (op Op) Eval0() complex128 {
	switch op {
	case I:
		return 1i
	case Pi:
		return complex(math.Pi, 0)
	case E:
		return complex(math.E, 0)
	}
	panic("expr: " + op.String() + " is not a constant")
}

// Eval1 applies a unary operator.
func (op Op) Eval1(a complex128) complex128 {
	switch op {
	case Neg:
		return -a
	case Recip:
		return cplx.Recip(a)
	case Sqr:
		return cplx.Sqr(a)
	case Sqrt:
		return cmplx.Sqrt(a)
	case Exp:
		return cmplx.Exp(a)
	case Log:
		return cmplx.Log(a)
	case Sin:
		return cmplx.Sin(a)
	case Cos:
		return cmplx.Cos(a)
	case Tan:
		return cmplx.Tan(a)
	case Atan:
		return cmplx.Atan(a)
	case Sinh:
		return cmplx.Sinh(a)
	case Cosh:
		return cmplx.Cosh(a)
	case Tanh:
		return cmplx.Tanh(a)
	case Atanh:
		return cmplx.Atanh(a)
	case Abs:
		return cplx.AbsParts(a)
	case RAbs:
		return cplx.RAbs(a)
	case IAbs:
		return cplx.IAbs(a)
	case Conj:
		return cplx.Conj(a)
	case Re:
		return cplx.Re(a)
	case Im:
		return cplx.Im(a)
	case Arg:
		return cplx.Arg(a)
	case Rad:
		return cplx.Rad(a)
	case Floor:
		return cplx.Floor(a)
	case Ceil:
		return cplx.Ceil(a)
	}
	panic("expr: " + op.String() + " is not unary")
}

// Eval2 applies a binary operator.
func (op Op) Eval2(a, b complex128) complex128 {
	switch op {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mul:
		return a * b
	case Div:
		return a / b
	case Mod:
		return cplx.Mod(a, b)
	case Pow:
		return cplx.Pow(a, b)
	case Min:
		return cplx.Min(a, b)
	case Max:
		return cplx.Max(a, b)
	}
	panic("expr: " + op.String() + " is not binary")
}
