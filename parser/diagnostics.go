package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is wrapped by the error returned from Diagnostics.Err.
var ErrSyntax = errors.New("parser: syntax error")

// Diagnostic is a non-fatal parse problem at a byte offset of the source.
type Diagnostic struct {
	Pos int
	Msg string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d: %s", d.Pos, d.Msg)
}

// Diagnostics collects the problems of one parse in source order.
type Diagnostics []Diagnostic

func (ds *Diagnostics) add(pos int, msg string) {
	*ds = append(*ds, Diagnostic{Pos: pos, Msg: msg})
}

// Err returns nil if there are no diagnostics and an error wrapping
// ErrSyntax otherwise.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	msgs := make([]string, len(ds))
	for i, d := range ds {
		msgs[i] = d.Error()
	}
	return fmt.Errorf("%w: %s", ErrSyntax, strings.Join(msgs, "; "))
}

// Caret renders the source line with a marker under the position of d.
func (d Diagnostic) Caret(src string) string {
	pos := min(max(d.Pos, 0), len(src))
	return src + "\n" + strings.Repeat(" ", len([]rune(src[:pos]))) + "^ " + d.Msg
}
