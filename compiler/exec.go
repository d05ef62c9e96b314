package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/searles/fractview/cplx"
)

// Executable is a compiled instruction stream. It is immutable and safe
// for concurrent use once compilation into its pools has finished.
type Executable struct {
	code  []Instr
	pools *Pools
}

// regs is the read-only machine state of one evaluation.
type regs struct {
	c       complex128
	history []complex128
	n       int
	params  []complex128
	consts  []complex128
}

// Eval runs the stream. history holds the orbit so far with the latest
// value last; params holds parameter values in pool slot order.
//
// A malformed stream or a lag beyond the history panics.
func (x *Executable) Eval(c complex128, history []complex128, n int, params []complex128) complex128 {
	r := regs{c: c, history: history, n: n, params: params, consts: x.pools.consts}
	return r.run(x.code)
}

func (r *regs) load(in Instr) complex128 {
	switch in.Atom {
	case AtomC:
		return r.c
	case AtomZ:
		return r.history[len(r.history)-1]
	case AtomN:
		return complex(float64(r.n), 0)
	case AtomLag:
		return r.history[len(r.history)-int(in.Arg)]
	case AtomConst:
		return r.consts[in.Arg]
	case AtomParam:
		return r.params[in.Arg]
	case AtomInt:
		return complex(float64(in.Arg), 0)
	}
	panic(fmt.Sprintf("compiler: bad atom %d", in.Atom))
}

// run evaluates one segment.
func (r *regs) run(code []Instr) complex128 {
	if len(code) == 0 || code[0].Code != Load {
		panic("compiler: segment does not start with a load")
	}
	dst := r.load(code[0])
	for i := 1; i < len(code); {
		in := code[i]
		switch in.Code {
		case Unary:
			dst = in.Op.Eval1(dst)
			i++
		case PowInt:
			dst = cplx.PowInt(dst, int(in.Arg))
			i++
		case Binary:
			var tmp complex128
			if in.fused() {
				tmp = r.load(in)
				i++
			} else {
				end := i + 1 + int(in.Arg)
				tmp = r.run(code[i+1 : end])
				i = end
			}
			if in.Swap {
				dst = in.Op.Eval2(tmp, dst)
			} else {
				dst = in.Op.Eval2(dst, tmp)
			}
		default:
			panic(fmt.Sprintf("compiler: unexpected %s at %d", in.Code, i))
		}
	}
	return dst
}

// Len returns the number of instructions.
func (x *Executable) Len() int { return len(x.code) }

// Code returns a copy of the instructions.
func (x *Executable) Code() []Instr { return append([]Instr(nil), x.code...) }

// MaxLag returns the largest history lag the stream reads, counting the
// previous value as lag 1. It is 0 for streams that never read history.
func (x *Executable) MaxLag() int {
	lag := 0
	for _, in := range x.code {
		switch in.Atom {
		case AtomZ:
			lag = max(lag, 1)
		case AtomLag:
			lag = max(lag, int(in.Arg))
		}
	}
	return lag
}

// String disassembles the stream, one instruction per line.
func (x *Executable) String() string {
	var sb strings.Builder
	for i, in := range x.code {
		fmt.Fprintf(&sb, "%3d  ", i)
		switch in.Code {
		case Load:
			sb.WriteString("load " + x.atomString(in))
		case Unary:
			sb.WriteString(in.Op.String())
		case PowInt:
			sb.WriteString("powi " + strconv.Itoa(int(in.Arg)))
		case Binary:
			sb.WriteString(in.Op.String())
			if in.Swap {
				sb.WriteString(" swap")
			}
			if in.fused() {
				sb.WriteString(" " + x.atomString(in))
			} else {
				fmt.Fprintf(&sb, " [%d]", in.Arg)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (x *Executable) atomString(in Instr) string {
	switch in.Atom {
	case AtomC:
		return "c"
	case AtomZ:
		return "z"
	case AtomN:
		return "n"
	case AtomLag:
		return "z[" + strconv.Itoa(int(in.Arg)) + "]"
	case AtomConst:
		return fmt.Sprintf("#%d %v", in.Arg, x.pools.consts[in.Arg])
	case AtomParam:
		return "$" + x.pools.params[in.Arg]
	case AtomInt:
		return strconv.Itoa(int(in.Arg))
	}
	return "?"
}
