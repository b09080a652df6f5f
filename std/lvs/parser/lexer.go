package parser

import (
	"strings"
	"unicode/utf8"

	enc "github.com/named-data/lvsc/std/encoding"
	"github.com/named-data/lvsc/std/lvs/ast"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokVar
	tokString
	tokNumber
	tokType
	tokRule
	tokAssign // =
	tokColon  // :
	tokSemi   // ;
	tokSlash  // /
	tokOr     // |
	tokStar   // *
	tokAnd    // &
	tokArrow  // <=
	tokComma  // ,
	tokLParen // (
	tokRParen // )
	tokLBrace // {
	tokRBrace // }
)

var tokenNames = [...]string{
	tokEOF:    "end of input",
	tokIdent:  "identifier",
	tokVar:    "capture variable",
	tokString: "string literal",
	tokNumber: "number literal",
	tokType:   "'type'",
	tokRule:   "'rule'",
	tokAssign: "'='",
	tokColon:  "':'",
	tokSemi:   "';'",
	tokSlash:  "'/'",
	tokOr:     "'|'",
	tokStar:   "'*'",
	tokAnd:    "'&'",
	tokArrow:  "'<='",
	tokComma:  "','",
	tokLParen: "'('",
	tokRParen: "')'",
	tokLBrace: "'{'",
	tokRBrace: "'}'",
}

func (k tokenKind) String() string {
	return tokenNames[k]
}

var punctuation = map[rune]tokenKind{
	'=': tokAssign,
	':': tokColon,
	';': tokSemi,
	'/': tokSlash,
	'|': tokOr,
	'*': tokStar,
	'&': tokAnd,
	',': tokComma,
	'(': tokLParen,
	')': tokRParen,
	'{': tokLBrace,
	'}': tokRBrace,
}

type token struct {
	kind tokenKind
	pos  ast.Pos
	// text is the identifier or variable name, or the number digits.
	text string
	// comp is the decoded component of a string or number literal.
	comp enc.Component
}

func (t token) String() string {
	switch t.kind {
	case tokIdent:
		return "identifier '" + t.text + "'"
	case tokVar:
		return "'$" + t.text + "'"
	case tokString, tokNumber:
		return "literal \"" + t.comp.String() + "\""
	}
	return t.kind.String()
}

// lexer splits schema text into tokens. Columns count runes, not bytes.
type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) pos() ast.Pos {
	return ast.Pos{Line: l.line, Column: l.col}
}

func (l *lexer) peekRune() rune {
	if l.off >= len(l.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.off:])
	return r
}

// invalid reports whether the next byte does not start a valid UTF-8 sequence.
// An encoded U+FFFD is valid.
func (l *lexer) invalid() bool {
	if l.off >= len(l.src) {
		return false
	}
	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	return r == utf8.RuneError && size == 1
}

func (l *lexer) errInvalid() error {
	return SyntaxError{Pos: l.pos(), Expected: "invalid UTF-8 in source"}
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipSpaceAndComments() {
	for l.off < len(l.src) {
		switch r := l.peekRune(); {
		case r == '#':
			for l.off < len(l.src) && l.peekRune() != '\n' && !l.invalid() {
				l.advance()
			}
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance()
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool {
	return enc.IsAlphabet(r) || r == '_'
}

func isIdentChar(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()
	pos := l.pos()
	if l.off >= len(l.src) {
		return token{kind: tokEOF, pos: pos}, nil
	}

	if l.invalid() {
		return token{}, l.errInvalid()
	}

	r := l.peekRune()
	switch {
	case isIdentStart(r):
		text := l.scanWhile(isIdentChar)
		switch text {
		case "type":
			return token{kind: tokType, pos: pos, text: text}, nil
		case "rule":
			return token{kind: tokRule, pos: pos, text: text}, nil
		}
		return token{kind: tokIdent, pos: pos, text: text}, nil
	case r == '$':
		l.advance()
		if !isIdentStart(l.peekRune()) {
			return token{}, SyntaxError{Pos: l.pos(), Expected: "variable name after '$'", Found: l.describeNext()}
		}
		return token{kind: tokVar, pos: pos, text: l.scanWhile(isIdentChar)}, nil
	case isDigit(r):
		text := l.scanWhile(isDigit)
		return token{kind: tokNumber, pos: pos, text: text, comp: enc.NewGenericComponent(text)}, nil
	case r == '"':
		return l.scanString(pos)
	case r == '<':
		l.advance()
		if l.peekRune() != '=' {
			return token{}, SyntaxError{Pos: l.pos(), Expected: "'=' after '<'", Found: l.describeNext()}
		}
		l.advance()
		return token{kind: tokArrow, pos: pos}, nil
	}

	if kind, ok := punctuation[r]; ok {
		l.advance()
		return token{kind: kind, pos: pos}, nil
	}
	return token{}, SyntaxError{Pos: pos, Expected: "a token", Found: l.describeNext()}
}

func (l *lexer) scanWhile(pred func(rune) bool) string {
	start := l.off
	for l.off < len(l.src) && pred(l.peekRune()) {
		l.advance()
	}
	return l.src[start:l.off]
}

func (l *lexer) scanString(pos ast.Pos) (token, error) {
	l.advance() // opening quote
	sb := strings.Builder{}
	for {
		if l.off >= len(l.src) || l.peekRune() == '\n' {
			return token{}, SyntaxError{Pos: pos, Expected: "closing '\"' of string literal", Found: l.describeNext()}
		}
		if l.invalid() {
			return token{}, l.errInvalid()
		}
		r := l.advance()
		switch r {
		case '"':
			comp, err := enc.ComponentFromStr(sb.String())
			if err != nil {
				return token{}, SyntaxError{Pos: pos, Expected: "a valid name component", Found: err.Error()}
			}
			return token{kind: tokString, pos: pos, text: sb.String(), comp: comp}, nil
		case '\\':
			if l.invalid() {
				return token{}, l.errInvalid()
			}
			esc := l.peekRune()
			if esc != '"' && esc != '\\' {
				return token{}, SyntaxError{Pos: l.pos(), Expected: `escape sequence \" or \\`, Found: l.describeNext()}
			}
			sb.WriteRune(l.advance())
		default:
			sb.WriteRune(r)
		}
	}
}

func (l *lexer) describeNext() string {
	if l.off >= len(l.src) {
		return tokEOF.String()
	}
	return "'" + string(l.peekRune()) + "'"
}
