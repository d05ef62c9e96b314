package formula

import (
	"fmt"
	"slices"

	"github.com/searles/fractview/compiler"
	"github.com/searles/fractview/expr"
)

// Program is a compiled specification. The streams are immutable;
// parameter values live outside them and can change without
// recompilation.
type Program struct {
	Function *compiler.Executable
	Init     []*compiler.Executable

	pools  *compiler.Pools
	values []complex128
}

// Compile lowers the function and every initializer into one shared pool.
// opts.Names is replaced by the specification's names.
func (s *Specification) Compile(opts compiler.Options) *Program {
	opts.Names = s.names
	pools := compiler.NewPools()
	c := compiler.New(pools, opts)

	p := &Program{pools: pools}
	p.Function = c.Compile(s.function)
	for _, init := range s.inits {
		p.Init = append(p.Init, c.Compile(init))
	}
	p.values = make([]complex128, pools.NumParams())
	for i, name := range pools.Params() {
		p.values[i] = s.params[name]
	}
	return p
}

// HistoryLen returns the number of initialized history slots.
func (p *Program) HistoryLen() int { return len(p.Init) }

// Values returns a snapshot of the parameter values in pool order, as
// passed to compiler.Executable.Eval.
func (p *Program) Values() []complex128 { return slices.Clone(p.values) }

// Params returns the parameter names in pool order.
func (p *Program) Params() []string { return p.pools.Params() }

// SetParam changes the value of a parameter. It must not be called while
// a render reads the program.
func (p *Program) SetParam(name string, v complex128) error {
	i, ok := p.pools.ParamIndex(expr.Fold(name))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	p.values[i] = v
	return nil
}
