package expr

// Derive returns the derivative of e with respect to the variable v.
//
// The second result is false when e applies an operator that has no
// complex derivative (abs, arg, re, im, conj, floor and friends) to an
// operand that depends on v. Lag references are independent of the
// current iterate and differentiate to zero.
func Derive(e Expr, v string) (Expr, bool) {
	switch e := e.(type) {
	case Num, Indexed:
		return zero, true
	case Var:
		if e.Name == v {
			return one, true
		}
		return zero, true
	case *App:
		if !DependsOn(e, v) {
			return zero, true
		}
		return deriveApp(e, v)
	}
	return nil, false
}

func deriveApp(e *App, v string) (Expr, bool) {
	ds := make([]Expr, len(e.Args))
	for i, arg := range e.Args {
		d, ok := Derive(arg, v)
		if !ok {
			return nil, false
		}
		ds[i] = d
	}

	switch e.Op {
	case Add, Sub:
		return Apply(e.Op, ds[0], ds[1]), true
	case Mul:
		a, b := e.Args[0], e.Args[1]
		return Apply(Add, Apply(Mul, ds[0], b), Apply(Mul, a, ds[1])), true
	case Div:
		a, b := e.Args[0], e.Args[1]
		num := Apply(Sub, Apply(Mul, ds[0], b), Apply(Mul, a, ds[1]))
		return Apply(Div, num, Apply(Sqr, b)), true
	case Pow:
		return derivePow(e, ds, v), true
	}

	a, da := e.Args[0], ds[0]
	var inner Expr
	switch e.Op {
	case Neg:
		return Apply(Neg, da), true
	case Recip:
		return Apply(Neg, Apply(Div, da, Apply(Sqr, a))), true
	case Sqr:
		inner = Apply(Mul, Num{V: 2}, a)
	case Sqrt:
		return Apply(Div, da, Apply(Mul, Num{V: 2}, e)), true
	case Exp:
		inner = e
	case Log:
		return Apply(Div, da, a), true
	case Sin:
		inner = Apply(Cos, a)
	case Cos:
		inner = Apply(Neg, Apply(Sin, a))
	case Tan:
		return Apply(Div, da, Apply(Sqr, Apply(Cos, a))), true
	case Atan:
		return Apply(Div, da, Apply(Add, one, Apply(Sqr, a))), true
	case Sinh:
		inner = Apply(Cosh, a)
	case Cosh:
		inner = Apply(Sinh, a)
	case Tanh:
		return Apply(Div, da, Apply(Sqr, Apply(Cosh, a))), true
	case Atanh:
		return Apply(Div, da, Apply(Sub, one, Apply(Sqr, a))), true
	default:
		return nil, false
	}
	return Apply(Mul, inner, da), true
}

// derivePow uses the power rule for exponents independent of v and the
// derivative of exp(b·log a) otherwise.
func derivePow(e *App, ds []Expr, v string) Expr {
	a, b := e.Args[0], e.Args[1]
	da, db := ds[0], ds[1]
	if !DependsOn(b, v) {
		pow := Apply(Pow, a, Apply(Sub, b, one))
		return Apply(Mul, Apply(Mul, b, pow), da)
	}
	logPart := Apply(Mul, db, Apply(Log, a))
	basePart := Apply(Div, Apply(Mul, b, da), a)
	return Apply(Mul, e, Apply(Add, logPart, basePart))
}
