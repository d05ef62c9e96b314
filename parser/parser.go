// Package parser turns formula text into expression trees.
//
// The grammar, from lowest to highest precedence:
//
//	sum         := product (('+'|'-') product)*
//	product     := power (('*'|'/') power)*
//	power       := derived ('^' power)?
//	derived     := term "'"*
//	term        := primary primary*
//	primary     := number | '-' number | '-' primary | '(' sum ')' | application
//	number      := real (',' '-'? real)?
//	application := identifier ('(' sum (';' sum)* ')' | operands)?
//
// Adjacent primaries multiply, so "2z sin z" is (2*z)*sin(z). A trailing
// prime differentiates the preceding term with respect to the iterate.
// Operators given without parentheses take a single term when unary and
// two primaries when binary.
//
// Parsing never fails outright. Problems are collected as diagnostics and
// the offending part is replaced by a zero literal, so that the rest of
// the input still yields a tree.
package parser

import (
	"errors"
	"fmt"

	"github.com/searles/fractview/expr"
)

// DefaultMaxDepth bounds the nesting of parentheses and prefix operators.
const DefaultMaxDepth = 256

// DefaultMaxSize bounds the number of nodes a derivative may produce.
const DefaultMaxSize = 10000

// ErrNotConstant is returned by ParseValue for input that does not fold
// to a literal.
var ErrNotConstant = errors.New("parser: not a constant")

// Config configures a Parser.
type Config struct {
	// Names binds the reserved identifiers. Nil means expr.DefaultNames.
	Names *expr.Predefined
	// MaxDepth limits nesting. Zero means DefaultMaxDepth.
	MaxDepth int
	// MaxSize limits the node count of a derivative. Zero means
	// DefaultMaxSize.
	MaxSize int
}

// Parser parses formula text. A Parser holds no per-input state and may
// be used from several goroutines.
type Parser struct {
	names    *expr.Predefined
	maxDepth int
	maxSize  int
}

// New creates a parser.
func New(cfg Config) *Parser {
	p := &Parser{names: cfg.Names, maxDepth: cfg.MaxDepth, maxSize: cfg.MaxSize}
	if p.names == nil {
		p.names = expr.DefaultNames()
	}
	if p.maxDepth <= 0 {
		p.maxDepth = DefaultMaxDepth
	}
	if p.maxSize <= 0 {
		p.maxSize = DefaultMaxSize
	}
	return p
}

var defaultParser = New(Config{})

// Parse parses src with the default names.
func Parse(src string) (expr.Expr, Diagnostics) {
	return defaultParser.Parse(src)
}

// ParseValue parses a constant such as a parameter value ("0.5,-1" or
// "2 pi i").
func ParseValue(src string) (complex128, error) {
	return defaultParser.ParseValue(src)
}

// Parse parses src. The returned tree is never nil.
func (p *Parser) Parse(src string) (expr.Expr, Diagnostics) {
	s := &state{names: p.names, maxDepth: p.maxDepth, maxSize: p.maxSize}
	s.toks = lex(src, &s.diags)
	e := s.sum()
	if t := s.peek(); t.kind != tokEOF {
		s.diags.add(t.pos, "unexpected "+describe(t))
	}
	return e, s.diags
}

// ParseValue parses src and requires the result to be a literal.
func (p *Parser) ParseValue(src string) (complex128, error) {
	e, diags := p.Parse(src)
	if err := diags.Err(); err != nil {
		return 0, err
	}
	n, ok := e.(expr.Num)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotConstant, src)
	}
	return n.V, nil
}

type state struct {
	names    *expr.Predefined
	maxDepth int
	maxSize  int
	toks     []token
	pos      int
	depth    int
	diags    Diagnostics
}

var zero = expr.N(0)

func (s *state) peek() token { return s.toks[s.pos] }

func (s *state) next() token {
	t := s.toks[s.pos]
	if t.kind != tokEOF {
		s.pos++
	}
	return t
}

func (s *state) accept(kind tokenKind) bool {
	if s.peek().kind == kind {
		s.next()
		return true
	}
	return false
}

func (s *state) expect(kind tokenKind) {
	if !s.accept(kind) {
		t := s.peek()
		s.diags.add(t.pos, fmt.Sprintf("expected %s, found %s", kind, describe(t)))
	}
}

func describe(t token) string {
	switch t.kind {
	case tokNumber, tokIdent, tokInvalid:
		return fmt.Sprintf("%s %q", t.kind, t.text)
	}
	return t.kind.String()
}

func (s *state) sum() expr.Expr {
	e := s.product()
	for {
		switch {
		case s.accept(tokPlus):
			e = expr.Apply(expr.Add, e, s.product())
		case s.accept(tokMinus):
			e = expr.Apply(expr.Sub, e, s.product())
		default:
			return e
		}
	}
}

func (s *state) product() expr.Expr {
	e := s.power()
	for {
		switch {
		case s.accept(tokStar):
			e = expr.Apply(expr.Mul, e, s.power())
		case s.accept(tokSlash):
			e = expr.Apply(expr.Div, e, s.power())
		default:
			return e
		}
	}
}

func (s *state) power() expr.Expr {
	base := s.derived()
	if !s.accept(tokCaret) {
		return base
	}
	if !s.enter() {
		return zero
	}
	defer s.leave()
	return expr.Apply(expr.Pow, base, s.power())
}

func (s *state) derived() expr.Expr {
	e := s.term()
	for s.peek().kind == tokPrime {
		t := s.next()
		d, ok := expr.Derive(e, s.names.Iterate)
		if !ok {
			s.diags.add(t.pos, fmt.Sprintf("%v has no derivative", e))
			return zero
		}
		if expr.Size(d, s.maxSize) > s.maxSize {
			s.diags.add(t.pos, "derivative too large")
			for s.accept(tokPrime) {
			}
			return zero
		}
		e = d
	}
	return e
}

func (s *state) term() expr.Expr {
	e := s.primary()
	for startsPrimary(s.peek().kind) {
		e = expr.Apply(expr.Mul, e, s.primary())
	}
	return e
}

func startsPrimary(kind tokenKind) bool {
	return kind == tokNumber || kind == tokIdent || kind == tokLParen
}

func (s *state) enter() bool {
	s.depth++
	if s.depth > s.maxDepth {
		s.depth--
		t := s.peek()
		s.diags.add(t.pos, "expression is nested too deeply")
		s.pos = len(s.toks) - 1
		return false
	}
	return true
}

func (s *state) leave() { s.depth-- }

func (s *state) primary() expr.Expr {
	if !s.enter() {
		return zero
	}
	defer s.leave()

	t := s.peek()
	switch t.kind {
	case tokNumber:
		s.next()
		return s.complexTail(t.num)
	case tokMinus:
		s.next()
		if n := s.peek(); n.kind == tokNumber {
			s.next()
			return s.complexTail(-n.num)
		}
		return expr.Apply(expr.Neg, s.primary())
	case tokLParen:
		s.next()
		e := s.sum()
		s.expect(tokRParen)
		return e
	case tokIdent:
		s.next()
		return s.application(t)
	}
	s.diags.add(t.pos, "unexpected "+describe(t))
	s.next()
	return zero
}

// complexTail reads the optional imaginary part of a literal whose real
// part is re.
func (s *state) complexTail(re float64) expr.Expr {
	if !s.accept(tokComma) {
		return expr.N(complex(re, 0))
	}
	sign := 1.0
	if s.accept(tokMinus) {
		sign = -1
	}
	t := s.peek()
	if t.kind != tokNumber {
		s.diags.add(t.pos, "expected imaginary part, found "+describe(t))
		return expr.N(complex(re, 0))
	}
	s.next()
	return expr.N(complex(re, sign*t.num))
}

func (s *state) application(t token) expr.Expr {
	name := expr.Fold(t.text)
	if alias, ok := s.names.Alias(name); ok {
		return alias
	}
	if name == s.names.Iterate && s.peek().kind == tokLBracket {
		return s.lag()
	}
	if s.names.Reserved(name) {
		return expr.NewVar(name)
	}
	op, ok := expr.Lookup(name)
	if !ok {
		return expr.NewVar(name)
	}
	if op.Arity() == 0 {
		return expr.Apply(op)
	}

	if s.peek().kind == tokLParen {
		open := s.next()
		args := []expr.Expr{s.sum()}
		for s.accept(tokSemicolon) {
			args = append(args, s.sum())
		}
		s.expect(tokRParen)
		if len(args) != op.Arity() {
			s.diags.add(open.pos, fmt.Sprintf("%s takes %d arguments, got %d", op, op.Arity(), len(args)))
			args = fitArgs(args, op.Arity())
		}
		return expr.Apply(op, args...)
	}

	if op.Arity() == 1 {
		return expr.Apply(op, s.term())
	}
	a := s.primary()
	b := s.primary()
	return expr.Apply(op, a, b)
}

func fitArgs(args []expr.Expr, n int) []expr.Expr {
	for len(args) < n {
		args = append(args, zero)
	}
	return args[:n]
}

// lag parses "[k]" after the iterate name.
func (s *state) lag() expr.Expr {
	s.next()
	t := s.peek()
	if t.kind != tokNumber {
		s.diags.add(t.pos, "expected history index, found "+describe(t))
		s.expect(tokRBracket)
		return zero
	}
	s.next()
	s.expect(tokRBracket)

	k := int(t.num)
	switch {
	case float64(k) != t.num || k < 0:
		s.diags.add(t.pos, fmt.Sprintf("history index %s is not a non-negative integer", t.text))
		return zero
	case k == 0:
		s.diags.add(t.pos, "history index 0 refers to the value being computed")
		return zero
	case k == 1:
		return expr.NewVar(s.names.Iterate)
	}
	return expr.Lag(k)
}
