package expr

import (
	"strconv"
	"strings"
)

// Binding strengths for printing, matching the parser's grammar levels.
const (
	precSum = iota + 1
	precProduct
	precPower
	precPrimary
)

var infix = map[Op]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Pow: "^",
}

func (n Num) String() string {
	re, im := real(n.V), imag(n.V)
	if im == 0 {
		return formatFloat(re)
	}
	return "(" + formatFloat(re) + "," + formatFloat(im) + ")"
}

func (v Var) String() string { return v.Name }

// String prints x with the default iterate name. Use Predefined.Format
// for other bindings.
func (x Indexed) String() string { return lag("z", x.K) }

func lag(iterate string, k int) string { return iterate + "[" + strconv.Itoa(k) + "]" }

func (a *App) String() string {
	var sb strings.Builder
	write(&sb, a, "z")
	return sb.String()
}

// Format prints e so that parsing it with the same bindings yields e
// again. Lag references use the iterate name of p.
func (p *Predefined) Format(e Expr) string {
	var sb strings.Builder
	write(&sb, e, p.Iterate)
	return sb.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func prec(e Expr) int {
	app, ok := e.(*App)
	if !ok {
		return precPrimary
	}
	switch app.Op {
	case Add, Sub:
		return precSum
	case Mul, Div, Recip:
		return precProduct
	case Pow:
		return precPower
	}
	return precPrimary
}

func write(sb *strings.Builder, e Expr, iterate string) {
	app, ok := e.(*App)
	if !ok {
		if x, ok := e.(Indexed); ok {
			sb.WriteString(lag(iterate, x.K))
			return
		}
		sb.WriteString(e.String())
		return
	}
	if sym, ok := infix[app.Op]; ok {
		p := prec(app)
		// Left associative, except for the power operator.
		left, right := p, p+1
		if app.Op == Pow {
			left, right = p+1, p
		}
		writeOperand(sb, app.Args[0], left, iterate)
		sb.WriteString(" " + sym + " ")
		writeOperand(sb, app.Args[1], right, iterate)
		return
	}
	switch app.Op {
	case Neg:
		sb.WriteByte('-')
		writeOperand(sb, app.Args[0], precPrimary, iterate)
	case Recip:
		sb.WriteString("1 / ")
		writeOperand(sb, app.Args[0], precProduct+1, iterate)
	default:
		sb.WriteString(app.Op.String())
		if len(app.Args) == 0 {
			return
		}
		sb.WriteByte('(')
		for i, arg := range app.Args {
			if i > 0 {
				sb.WriteString("; ")
			}
			write(sb, arg, iterate)
		}
		sb.WriteByte(')')
	}
}

func writeOperand(sb *strings.Builder, e Expr, minPrec int, iterate string) {
	if prec(e) < minPrec {
		sb.WriteByte('(')
		write(sb, e, iterate)
		sb.WriteByte(')')
		return
	}
	write(sb, e, iterate)
}
