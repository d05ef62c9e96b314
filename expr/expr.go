// Package expr implements the immutable expression trees that fractal
// formulas are parsed into.
//
// Trees are built through Apply, which folds constants and rewrites
// operands into a canonical form, so that two trees describing the same
// computation usually compare equal. The canonical order is total:
// literals sort before variables, variables before lag references and
// lag references before applications.
package expr

import (
	"cmp"
	"fmt"
	"strings"
)

// Expr is a node of an expression tree.
type Expr interface {
	fmt.Stringer
	class() class
}

// class ranks node types in the total order.
type class uint8

const (
	classNum class = iota
	classVar
	classIndexed
	classApp
)

// Num is a complex literal.
type Num struct {
	V complex128
}

// Var is a named variable. Name is stored case-folded; use NewVar.
type Var struct {
	Name string
}

// Indexed refers to z(n-K), the iterate K steps back.
type Indexed struct {
	K int
}

// App applies an operator to its operands. Build it with Apply.
type App struct {
	Op   Op
	Args []Expr
}

func (Num) class() class     { return classNum }
func (Var) class() class     { return classVar }
func (Indexed) class() class { return classIndexed }
func (*App) class() class    { return classApp }

// N returns the literal v.
func N(v complex128) Num { return Num{V: v} }

// NewVar returns the variable with the given name. Identity is
// case-insensitive.
func NewVar(name string) Var { return Var{Name: Fold(name)} }

// Lag returns the reference to z(n-k).
func Lag(k int) Indexed { return Indexed{K: k} }

// Compare orders expressions totally. It returns -1, 0 or +1.
func Compare(a, b Expr) int {
	if ca, cb := a.class(), b.class(); ca != cb {
		return cmp.Compare(ca, cb)
	}
	switch a := a.(type) {
	case Num:
		bn := b.(Num)
		if c := cmp.Compare(real(a.V), real(bn.V)); c != 0 {
			return c
		}
		return cmp.Compare(imag(a.V), imag(bn.V))
	case Var:
		return strings.Compare(a.Name, b.(Var).Name)
	case Indexed:
		return cmp.Compare(a.K, b.(Indexed).K)
	case *App:
		ba := b.(*App)
		if c := cmp.Compare(a.Op, ba.Op); c != 0 {
			return c
		}
		if c := cmp.Compare(len(a.Args), len(ba.Args)); c != 0 {
			return c
		}
		for i := range a.Args {
			if c := Compare(a.Args[i], ba.Args[i]); c != 0 {
				return c
			}
		}
		return 0
	}
	panic(fmt.Sprintf("expr: unknown node %T", a))
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Expr) bool { return Compare(a, b) == 0 }

// Walk calls fn for e and, while fn returns true, for every operand of e
// in depth-first order.
func Walk(e Expr, fn func(Expr) bool) {
	if !fn(e) {
		return
	}
	if app, ok := e.(*App); ok {
		for _, arg := range app.Args {
			Walk(arg, fn)
		}
	}
}

// Size counts the operator and leaf nodes of e. Counting stops soon
// after limit is passed, so the result is only exact up to limit.
func Size(e Expr, limit int) int {
	n := 0
	Walk(e, func(Expr) bool {
		n++
		return n <= limit
	})
	return n
}

// DependsOn reports whether e mentions the variable v.
func DependsOn(e Expr, v string) bool {
	found := false
	Walk(e, func(n Expr) bool {
		if x, ok := n.(Var); ok && x.Name == v {
			found = true
		}
		return !found
	})
	return found
}

func isNum(e Expr, v complex128) bool {
	n, ok := e.(Num)
	return ok && n.V == v
}

// unary returns the operand of e if e applies op.
func unary(e Expr, op Op) (Expr, bool) {
	if app, ok := e.(*App); ok && app.Op == op {
		return app.Args[0], true
	}
	return nil, false
}

// binary returns the operands of e if e applies op.
func binary(e Expr, op Op) (Expr, Expr, bool) {
	if app, ok := e.(*App); ok && app.Op == op {
		return app.Args[0], app.Args[1], true
	}
	return nil, nil, false
}
