package compiler

import (
	"fmt"

	"github.com/searles/fractview/expr"
)

// Code selects what an instruction does with the destination register.
type Code uint8

const (
	// Load sets the destination to the instruction's atom.
	Load Code = iota
	// Unary applies Op to the destination.
	Unary
	// PowInt raises the destination to the integer power Arg.
	PowInt
	// Binary combines the destination with a right operand. The operand
	// is the fused atom, or else the Arg instructions that follow.
	Binary
)

func (c Code) String() string {
	switch c {
	case Load:
		return "load"
	case Unary:
		return "unary"
	case PowInt:
		return "powi"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("Code(%d)", c)
}

// AtomKind selects a leaf operand.
type AtomKind uint8

const (
	AtomNone AtomKind = iota
	// AtomC is the plane point.
	AtomC
	// AtomZ is the previous orbit value.
	AtomZ
	// AtomN is the iteration index.
	AtomN
	// AtomLag is z(n-Arg).
	AtomLag
	// AtomConst is constant pool slot Arg.
	AtomConst
	// AtomParam is parameter pool slot Arg.
	AtomParam
	// AtomInt is the integer literal Arg.
	AtomInt
)

// Instr is one word of an instruction stream.
type Instr struct {
	Code Code
	Op   expr.Op
	Atom AtomKind
	// Swap makes a binary instruction compute op(operand, destination).
	Swap bool
	// Arg is the atom's slot, lag or literal. Without an atom it is the
	// exponent of PowInt or the length of a Binary's right segment.
	Arg int32
}

// fused reports whether a binary instruction carries its operand.
func (in Instr) fused() bool { return in.Atom != AtomNone }
