package compiler

import (
	"math"

	"github.com/searles/fractview/expr"
)

// constKey identifies a constant by its bits, so that 0 and -0 keep
// separate slots.
type constKey [2]uint64

// Pools holds the constants and parameter names shared by all streams of
// one program. Pools is not safe for concurrent compilation; compiled
// streams only read it.
type Pools struct {
	consts     []complex128
	constIndex map[constKey]int
	params     []string
	paramIndex map[string]int
}

// NewPools returns empty pools.
func NewPools() *Pools {
	return &Pools{
		constIndex: make(map[constKey]int),
		paramIndex: make(map[string]int),
	}
}

// Const interns v and returns its slot.
func (p *Pools) Const(v complex128) int {
	key := constKey{math.Float64bits(real(v)), math.Float64bits(imag(v))}
	if i, ok := p.constIndex[key]; ok {
		return i
	}
	i := len(p.consts)
	p.consts = append(p.consts, v)
	p.constIndex[key] = i
	return i
}

// Param interns the parameter name and returns its slot. Names are
// compared case-insensitively.
func (p *Pools) Param(name string) int {
	name = expr.Fold(name)
	if i, ok := p.paramIndex[name]; ok {
		return i
	}
	i := len(p.params)
	p.params = append(p.params, name)
	p.paramIndex[name] = i
	return i
}

// ParamIndex returns the slot of a parameter already interned.
func (p *Pools) ParamIndex(name string) (int, bool) {
	i, ok := p.paramIndex[expr.Fold(name)]
	return i, ok
}

// Consts returns the constant pool. The slice must not be modified.
func (p *Pools) Consts() []complex128 { return p.consts }

// Params returns the parameter names in slot order.
func (p *Pools) Params() []string {
	return append([]string(nil), p.params...)
}

// NumParams returns the number of parameter slots.
func (p *Pools) NumParams() int { return len(p.params) }
