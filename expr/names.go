package expr

import "golang.org/x/text/cases"

// Fold returns the case-folded form of an identifier. Variable and
// parameter identity is decided on folded names.
func Fold(name string) string {
	// A Caser keeps state, so each call gets its own.
	return cases.Fold().String(name)
}

// Predefined binds the reserved identifiers of a formula to orbit state.
// It is passed explicitly to the parser, the compiler and specification
// validation.
type Predefined struct {
	// Point is the name of the plane point, usually "c".
	Point string
	// Iterate is the name of the previous orbit value, usually "z".
	Iterate string
	// Index is the name of the iteration index, usually "n".
	Index string
	// Aliases expand to expressions over the other names.
	Aliases map[string]Expr
}

// DefaultNames returns the standard bindings c, z, n with the aliases
// zr, zi, cr and ci for the components of z and c.
func DefaultNames() *Predefined {
	z, c := NewVar("z"), NewVar("c")
	return &Predefined{
		Point:   "c",
		Iterate: "z",
		Index:   "n",
		Aliases: map[string]Expr{
			"zr": Apply(Re, z),
			"zi": Apply(Im, z),
			"cr": Apply(Re, c),
			"ci": Apply(Im, c),
		},
	}
}

// Reserved reports whether name is bound by p and therefore never a
// parameter.
func (p *Predefined) Reserved(name string) bool {
	switch name {
	case p.Point, p.Iterate, p.Index:
		return true
	}
	_, ok := p.Aliases[name]
	return ok
}

// Alias returns the definition of an alias.
func (p *Predefined) Alias(name string) (Expr, bool) {
	e, ok := p.Aliases[name]
	return e, ok
}
