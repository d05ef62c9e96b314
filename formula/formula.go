// Package formula validates fractal recurrences and compiles them into
// programs.
//
// A recurrence is a function expression giving the next orbit value and
// one initializer per history slot the function reads. The function reads
// z (the previous value) and, through z[k], older values; its largest lag
// must equal the number of initializers. Initializer i computes slot i
// with n = i and may read slots before it only.
package formula

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/searles/fractview/expr"
)

var (
	// ErrHistoryMismatch is returned when the largest lag of the function
	// differs from the number of initializers.
	ErrHistoryMismatch = errors.New("formula: history length mismatch")

	// ErrUndefinedHistory is returned when an initializer reads a slot
	// that is not yet computed.
	ErrUndefinedHistory = errors.New("formula: initializer reads undefined history")

	// ErrParameterMismatch is returned when the free variables differ from
	// the supplied parameters.
	ErrParameterMismatch = errors.New("formula: parameter mismatch")

	// ErrUnknownParameter is returned by SetParam for names the program
	// does not use.
	ErrUnknownParameter = errors.New("formula: unknown parameter")
)

// Specification is a validated recurrence. It is immutable.
type Specification struct {
	function expr.Expr
	inits    []expr.Expr
	params   map[string]complex128
	names    *expr.Predefined
}

// NewSpecification validates a recurrence. Parameter names are matched
// case-insensitively. names may be nil for the default bindings.
func NewSpecification(function expr.Expr, inits []expr.Expr, params map[string]complex128, names *expr.Predefined) (*Specification, error) {
	if names == nil {
		names = expr.DefaultNames()
	}
	s := &Specification{
		function: function,
		inits:    slices.Clone(inits),
		params:   make(map[string]complex128, len(params)),
		names:    names,
	}
	for _, name := range slices.Sorted(maps.Keys(params)) {
		key := expr.Fold(name)
		if _, dup := s.params[key]; dup {
			return nil, fmt.Errorf("%w: duplicate parameter %s", ErrParameterMismatch, name)
		}
		s.params[key] = params[name]
	}

	if lag := MaxLag(function, names); lag != len(inits) {
		return nil, fmt.Errorf("%w: function reads %d previous values but %d initializers are given",
			ErrHistoryMismatch, lag, len(inits))
	}
	for i, init := range inits {
		if lag := MaxLag(init, names); lag > i {
			return nil, fmt.Errorf("%w: initializer %d reads %d values back, only %d are defined",
				ErrUndefinedHistory, i, lag, i)
		}
	}

	free := make(map[string]bool)
	collectFree(function, names, free)
	for _, init := range inits {
		collectFree(init, names, free)
	}
	var missing, unused []string
	for name := range free {
		if _, ok := s.params[name]; !ok {
			missing = append(missing, name)
		}
	}
	for name := range s.params {
		if !free[name] {
			unused = append(unused, name)
		}
	}
	if len(missing) > 0 || len(unused) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrParameterMismatch, describeMismatch(missing, unused))
	}
	return s, nil
}

func describeMismatch(missing, unused []string) string {
	var parts []string
	if len(missing) > 0 {
		slices.Sort(missing)
		parts = append(parts, "no value for "+strings.Join(missing, ", "))
	}
	if len(unused) > 0 {
		slices.Sort(unused)
		parts = append(parts, "unused "+strings.Join(unused, ", "))
	}
	return strings.Join(parts, "; ")
}

// MaxLag returns how many values back e reads: 1 for the iterate, k for
// z[k] and 0 if e does not read history.
func MaxLag(e expr.Expr, names *expr.Predefined) int {
	lag := 0
	expr.Walk(e, func(n expr.Expr) bool {
		switch n := n.(type) {
		case expr.Indexed:
			lag = max(lag, n.K)
		case expr.Var:
			if n.Name == names.Iterate {
				lag = max(lag, 1)
			} else if alias, ok := names.Alias(n.Name); ok {
				lag = max(lag, MaxLag(alias, names))
			}
		}
		return true
	})
	return lag
}

func collectFree(e expr.Expr, names *expr.Predefined, free map[string]bool) {
	expr.Walk(e, func(n expr.Expr) bool {
		if v, ok := n.(expr.Var); ok && !names.Reserved(v.Name) {
			free[v.Name] = true
		}
		return true
	})
}

// Function returns the function expression.
func (s *Specification) Function() expr.Expr { return s.function }

// Inits returns the initializers in slot order.
func (s *Specification) Inits() []expr.Expr { return slices.Clone(s.inits) }

// Params returns a copy of the parameter values keyed by folded name.
func (s *Specification) Params() map[string]complex128 { return maps.Clone(s.params) }

// Names returns the reserved name bindings.
func (s *Specification) Names() *expr.Predefined { return s.names }
