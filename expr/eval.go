package expr

import "fmt"

// Env is the evaluation environment of a tree.
type Env struct {
	Names   *Predefined
	Point   complex128
	History []complex128
	N       int
	Params  map[string]complex128
}

// Eval evaluates e directly. It is the reference semantics for compiled
// instruction streams. Eval panics on unbound variables and on lags that
// reach before the start of the history.
func Eval(e Expr, env *Env) complex128 {
	switch e := e.(type) {
	case Num:
		return e.V
	case Var:
		return env.lookup(e.Name)
	case Indexed:
		return env.History[len(env.History)-e.K]
	case *App:
		switch len(e.Args) {
		case 0:
			return e.Op.Eval0()
		case 1:
			return e.Op.Eval1(Eval(e.Args[0], env))
		default:
			return e.Op.Eval2(Eval(e.Args[0], env), Eval(e.Args[1], env))
		}
	}
	panic(fmt.Sprintf("expr: unknown node %T", e))
}

func (env *Env) lookup(name string) complex128 {
	names := env.Names
	if names == nil {
		names = DefaultNames()
	}
	switch name {
	case names.Point:
		return env.Point
	case names.Iterate:
		return env.History[len(env.History)-1]
	case names.Index:
		return complex(float64(env.N), 0)
	}
	if alias, ok := names.Alias(name); ok {
		return Eval(alias, env)
	}
	if v, ok := env.Params[name]; ok {
		return v
	}
	panic(fmt.Sprintf("expr: unbound variable %q", name))
}
