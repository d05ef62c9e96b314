package expr

import (
	"fmt"

	"github.com/searles/fractview/cplx"
)

var (
	zero = Num{V: 0}
	one  = Num{V: 1}
)

// Apply builds op(args...). It panics if the number of operands does not
// match the arity of op; that can only happen through a programming error.
//
// Commutative operands are sorted by Compare, literal operands are folded
// when the result is finite, and local rewrites bring the result into
// canonical form. Applying an operator to canonical operands always gives
// the same tree, so reparsing a printed tree is stable.
func Apply(op Op, args ...Expr) Expr {
	if len(args) != op.Arity() {
		panic(fmt.Sprintf("expr: %s takes %d operands, got %d", op, op.Arity(), len(args)))
	}
	switch len(args) {
	case 0:
		return Num{V: op.Eval0()}
	case 1:
		a := args[0]
		if n, ok := a.(Num); ok {
			if v := op.Eval1(n.V); cplx.IsFinite(v) {
				return Num{V: v}
			}
		}
		if e := simplify1(op, a); e != nil {
			return e
		}
		return &App{Op: op, Args: []Expr{a}}
	default:
		a, b := args[0], args[1]
		if op.Commutative() && Compare(b, a) < 0 {
			a, b = b, a
		}
		if na, ok := a.(Num); ok {
			if nb, ok := b.(Num); ok {
				if v := op.Eval2(na.V, nb.V); cplx.IsFinite(v) {
					return Num{V: v}
				}
			}
		}
		if e := simplify2(op, a, b); e != nil {
			return e
		}
		return &App{Op: op, Args: []Expr{a, b}}
	}
}

func simplify1(op Op, a Expr) Expr {
	switch op {
	case Neg:
		if x, ok := unary(a, Neg); ok {
			return x
		}
		if x, y, ok := binary(a, Sub); ok {
			return Apply(Sub, y, x)
		}
		if k, y, ok := binary(a, Mul); ok {
			if n, ok := k.(Num); ok {
				return Apply(Mul, Num{V: -n.V}, y)
			}
		}
	case Recip:
		if x, ok := unary(a, Recip); ok {
			return x
		}
		if x, y, ok := binary(a, Div); ok {
			return Apply(Div, y, x)
		}
	case Sqr:
		if x, ok := unary(a, Sqrt); ok {
			return x
		}
		if x, ok := unary(a, Neg); ok {
			return Apply(Sqr, x)
		}
	case Exp:
		if x, ok := unary(a, Log); ok {
			return x
		}
	case Conj:
		if x, ok := unary(a, Conj); ok {
			return x
		}
	case Abs:
		if _, ok := unary(a, Abs); ok {
			return a
		}
		if x, ok := unary(a, Neg); ok {
			return Apply(Abs, x)
		}
	}
	return nil
}

func simplify2(op Op, a, b Expr) Expr {
	switch op {
	case Add:
		return simplifyAdd(a, b)
	case Sub:
		return simplifySub(a, b)
	case Mul:
		return simplifyMul(a, b)
	case Div:
		return simplifyDiv(a, b)
	case Pow:
		return simplifyPow(a, b)
	}
	return nil
}

// simplifyAdd expects a and b in canonical order, so a literal is always a.
func simplifyAdd(a, b Expr) Expr {
	if isNum(a, 0) {
		return b
	}
	if ka, ok := a.(Num); ok {
		if kb, rest, ok := binary(b, Add); ok {
			if n, ok := kb.(Num); ok {
				return Apply(Add, Num{V: ka.V + n.V}, rest)
			}
		}
	}
	if x, ok := unary(b, Neg); ok {
		return Apply(Sub, a, x)
	}
	if x, ok := unary(a, Neg); ok {
		return Apply(Sub, b, x)
	}
	return nil
}

func simplifySub(a, b Expr) Expr {
	if isNum(b, 0) {
		return a
	}
	if isNum(a, 0) {
		return Apply(Neg, b)
	}
	if x, ok := unary(b, Neg); ok {
		return Apply(Add, a, x)
	}
	if k, ok := b.(Num); ok {
		return Apply(Add, Num{V: -k.V}, a)
	}
	return nil
}

func simplifyMul(a, b Expr) Expr {
	if isNum(a, 0) {
		return zero
	}
	if isNum(a, 1) {
		return b
	}
	if isNum(a, -1) {
		return Apply(Neg, b)
	}
	if ka, ok := a.(Num); ok {
		if kb, rest, ok := binary(b, Mul); ok {
			if n, ok := kb.(Num); ok {
				return Apply(Mul, Num{V: ka.V * n.V}, rest)
			}
		}
		if x, ok := unary(b, Neg); ok {
			return Apply(Mul, Num{V: -ka.V}, x)
		}
		return nil
	}
	if Equal(a, b) {
		return Apply(Sqr, a)
	}
	if x, ok := unary(a, Neg); ok {
		return Apply(Neg, Apply(Mul, x, b))
	}
	if y, ok := unary(b, Neg); ok {
		return Apply(Neg, Apply(Mul, a, y))
	}
	return nil
}

func simplifyDiv(a, b Expr) Expr {
	if isNum(b, 1) {
		return a
	}
	if isNum(b, -1) {
		return Apply(Neg, a)
	}
	if isNum(a, 0) {
		return zero
	}
	if isNum(a, 1) {
		return Apply(Recip, b)
	}
	if x, ok := unary(b, Recip); ok {
		return Apply(Mul, a, x)
	}
	if x, ok := unary(a, Neg); ok {
		if y, ok := unary(b, Neg); ok {
			return Apply(Div, x, y)
		}
	}
	return nil
}

func simplifyPow(a, b Expr) Expr {
	if isNum(a, 1) {
		return one
	}
	nb, ok := b.(Num)
	if !ok {
		return nil
	}
	switch nb.V {
	case 0:
		return one
	case 1:
		return a
	case 2:
		return Apply(Sqr, a)
	case -1:
		return Apply(Recip, a)
	}
	n, ok := cplx.IntExponent(nb.V)
	if !ok {
		return nil
	}
	if base, exp, ok := binary(a, Pow); ok {
		if m, ok := intLiteral(exp); ok {
			return Apply(Pow, base, Num{V: complex(float64(m*n), 0)})
		}
	}
	if base, ok := unary(a, Sqr); ok {
		return Apply(Pow, base, Num{V: complex(float64(2*n), 0)})
	}
	return nil
}

// intLiteral reports whether e is a literal integer exponent.
func intLiteral(e Expr) (int, bool) {
	n, ok := e.(Num)
	if !ok {
		return 0, false
	}
	return cplx.IntExponent(n.V)
}
