// Package compiler lowers expression trees into flat instruction streams
// and interprets them.
//
// A stream is a sequence of segments. A segment starts with an
// instruction that loads an atom into the destination register, followed
// by unary instructions that transform it in place and binary
// instructions that combine it with a right operand. The right operand is
// fused into the binary instruction when it is an atom, and otherwise is
// a nested segment that directly follows the instruction. Evaluation
// needs no operand stack.
package compiler

import (
	"math"

	"github.com/searles/fractview/cplx"
	"github.com/searles/fractview/expr"
)

// Options configures a Compiler.
type Options struct {
	// Names binds the reserved identifiers. Nil means expr.DefaultNames.
	Names *expr.Predefined
	// NoFusion emits every operand as its own segment.
	NoFusion bool
}

// Compiler lowers trees into streams over a shared pool.
type Compiler struct {
	pools    *Pools
	names    *expr.Predefined
	noFusion bool
}

// New returns a compiler that interns into pools.
func New(pools *Pools, opts Options) *Compiler {
	c := &Compiler{pools: pools, names: opts.Names, noFusion: opts.NoFusion}
	if c.names == nil {
		c.names = expr.DefaultNames()
	}
	return c
}

// Pools returns the pools the compiler interns into.
func (c *Compiler) Pools() *Pools { return c.pools }

// node is the intermediate tree between expressions and streams.
type node struct {
	code Code
	op   expr.Op
	atom AtomKind
	arg  int32
	kids []*node
}

func (n *node) isAtom() bool { return n.code == Load }

// Compile lowers e into an executable stream.
func (c *Compiler) Compile(e expr.Expr) *Executable {
	n := c.lower(e)
	return &Executable{code: c.flatten(n, nil), pools: c.pools}
}

func (c *Compiler) lower(e expr.Expr) *node {
	switch e := e.(type) {
	case expr.Num:
		if k, ok := smallInt(e.V); ok {
			return &node{atom: AtomInt, arg: int32(k)}
		}
		return &node{atom: AtomConst, arg: int32(c.pools.Const(e.V))}
	case expr.Var:
		switch e.Name {
		case c.names.Point:
			return &node{atom: AtomC}
		case c.names.Iterate:
			return &node{atom: AtomZ}
		case c.names.Index:
			return &node{atom: AtomN}
		}
		if alias, ok := c.names.Alias(e.Name); ok {
			return c.lower(alias)
		}
		return &node{atom: AtomParam, arg: int32(c.pools.Param(e.Name))}
	case expr.Indexed:
		return &node{atom: AtomLag, arg: int32(e.K)}
	case *expr.App:
		return c.lowerApp(e)
	}
	panic("compiler: unknown expression node")
}

func (c *Compiler) lowerApp(e *expr.App) *node {
	switch len(e.Args) {
	case 0:
		return c.lower(expr.N(e.Op.Eval0()))
	case 1:
		return &node{code: Unary, op: e.Op, kids: []*node{c.lower(e.Args[0])}}
	}
	if e.Op == expr.Pow {
		if exp, ok := e.Args[1].(expr.Num); ok {
			if k, ok := cplx.IntExponent(exp.V); ok {
				return &node{code: PowInt, op: expr.Pow, arg: int32(k), kids: []*node{c.lower(e.Args[0])}}
			}
		}
	}
	return &node{code: Binary, op: e.Op, kids: []*node{c.lower(e.Args[0]), c.lower(e.Args[1])}}
}

// smallInt reports whether v is exactly an int16 (without negative zero
// parts, which an embedded literal cannot represent).
func smallInt(v complex128) (int16, bool) {
	re, im := real(v), imag(v)
	if math.Float64bits(im) != 0 || math.Signbit(re) && re == 0 {
		return 0, false
	}
	if re < math.MinInt16 || re > math.MaxInt16 || re != math.Trunc(re) {
		return 0, false
	}
	return int16(re), true
}

// flatten appends the segment of n to code.
func (c *Compiler) flatten(n *node, code []Instr) []Instr {
	switch n.code {
	case Load:
		return append(code, Instr{Code: Load, Atom: n.atom, Arg: n.arg})
	case Unary:
		code = c.flatten(n.kids[0], code)
		return append(code, Instr{Code: Unary, Op: n.op})
	case PowInt:
		code = c.flatten(n.kids[0], code)
		return append(code, Instr{Code: PowInt, Op: expr.Pow, Arg: n.arg})
	}

	l, r := n.kids[0], n.kids[1]
	switch {
	case !c.noFusion && r.isAtom():
		code = c.flatten(l, code)
		return append(code, Instr{Code: Binary, Op: n.op, Atom: r.atom, Arg: r.arg})
	case !c.noFusion && l.isAtom():
		code = c.flatten(r, code)
		return append(code, Instr{Code: Binary, Op: n.op, Atom: l.atom, Arg: l.arg, Swap: true})
	}
	code = c.flatten(l, code)
	at := len(code)
	code = append(code, Instr{Code: Binary, Op: n.op})
	code = c.flatten(r, code)
	code[at].Arg = int32(len(code) - at - 1)
	return code
}
