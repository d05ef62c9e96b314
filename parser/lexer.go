package parser

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// tokenKind classifies a lexical token.
type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokPrime
	tokLParen
	tokRParen
	tokSemicolon
	tokComma
	tokLBracket
	tokRBracket
	tokInvalid
)

var tokenNames = [...]string{
	tokEOF:       "end of input",
	tokNumber:    "number",
	tokIdent:     "identifier",
	tokPlus:      "'+'",
	tokMinus:     "'-'",
	tokStar:      "'*'",
	tokSlash:     "'/'",
	tokCaret:     "'^'",
	tokPrime:     "'''",
	tokLParen:    "'('",
	tokRParen:    "')'",
	tokSemicolon: "';'",
	tokComma:     "','",
	tokLBracket:  "'['",
	tokRBracket:  "']'",
	tokInvalid:   "invalid character",
}

func (k tokenKind) String() string { return tokenNames[k] }

// token is a lexeme with its byte offset in the source.
type token struct {
	kind tokenKind
	pos  int
	text string
	num  float64
}

var punctuation = map[byte]tokenKind{
	'+':  tokPlus,
	'-':  tokMinus,
	'*':  tokStar,
	'/':  tokSlash,
	'^':  tokCaret,
	'\'': tokPrime,
	'(':  tokLParen,
	')':  tokRParen,
	';':  tokSemicolon,
	',':  tokComma,
	'[':  tokLBracket,
	']':  tokRBracket,
}

// lex splits src into tokens. The result always ends with tokEOF.
// Numbers that do not convert (overflow) are reported through diags.
func lex(src string, diags *Diagnostics) []token {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isDigit(src[i]) || (src[i] == '.' && i+1 < len(src) && isDigit(src[i+1])):
			end := scanNumber(src, i)
			text := src[i:end]
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				diags.add(i, "malformed number "+strconv.Quote(text))
			}
			toks = append(toks, token{kind: tokNumber, pos: i, text: text, num: v})
			i = end
		case r == '_' || unicode.IsLetter(r):
			end := i + size
			for end < len(src) {
				r, size := utf8.DecodeRuneInString(src[end:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				end += size
			}
			toks = append(toks, token{kind: tokIdent, pos: i, text: src[i:end]})
			i = end
		default:
			kind, ok := punctuation[src[i]]
			if !ok {
				kind = tokInvalid
			}
			toks = append(toks, token{kind: kind, pos: i, text: src[i : i+size]})
			i += size
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)})
}

// scanNumber returns the end of the number starting at i. An exponent is
// only taken when 'e' is followed by an optional sign and a digit, so
// that "2e" reads as 2 times the constant e.
func scanNumber(src string, i int) int {
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	if i < len(src) && src[i] == '.' {
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
		}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(src[j]) {
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }
