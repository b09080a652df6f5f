// Package parser turns Light VerSec source text into an ast.Schema.
//
// Grammar:
//
//	schema      = { typeDef | ruleDef } EOF
//	typeDef     = "type" IDENT "=" patternExpr ";"
//	ruleDef     = "rule" IDENT ":" patternExpr "<=" patternExpr { "&" chainRef } ";"
//	chainRef    = IDENT [ "(" VAR { "," VAR } ")" ]
//	patternExpr = sequence { "|" sequence }
//	sequence    = [ "/" ] component { "/" component }
//	component   = STRING | NUMBER | "*" | VAR [ ":" ( IDENT | constraint ) ]
//	constraint  = "{" option { "|" option } "}"
//	option      = STRING | NUMBER | VAR
//
// No semantic checks happen here: references are resolved later.
package parser

import (
	"github.com/named-data/lvsc/std/lvs/ast"
)

type parser struct {
	lex *lexer
	tok token
}

// Parse parses a whole schema document.
func Parse(src string) (*ast.Schema, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.next(); err != nil {
		return nil, err
	}

	schema := &ast.Schema{}
	for p.tok.kind != tokEOF {
		switch p.tok.kind {
		case tokType:
			def, err := p.typeDef()
			if err != nil {
				return nil, err
			}
			schema.Types = append(schema.Types, def)
		case tokRule:
			def, err := p.ruleDef()
			if err != nil {
				return nil, err
			}
			schema.Rules = append(schema.Rules, def)
		default:
			return nil, p.unexpected("'type' or 'rule'")
		}
	}
	return schema, nil
}

// ParsePattern parses a standalone pattern expression, e.g. `"a"/$x/*`.
func ParsePattern(src string) (*ast.Pattern, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.next(); err != nil {
		return nil, err
	}
	pat, err := p.pattern()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.unexpected("'|', '/' or end of input")
	}
	return pat, nil
}

func (p *parser) next() (err error) {
	p.tok, err = p.lex.next()
	return err
}

func (p *parser) unexpected(expected string) error {
	return SyntaxError{Pos: p.tok.pos, Expected: expected, Found: p.tok.String()}
}

// expect consumes a token of the given kind.
func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.tok
	if tok.kind != kind {
		return tok, p.unexpected(kind.String())
	}
	return tok, p.next()
}

func (p *parser) typeDef() (*ast.TypeDef, error) {
	pos := p.tok.pos
	if err := p.next(); err != nil {
		return nil, err
	}
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(tokAssign); err != nil {
		return nil, err
	}
	pat, err := p.pattern()
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(tokSemi); err != nil {
		return nil, err
	}
	return &ast.TypeDef{Pos: pos, Name: name.text, Pattern: pat}, nil
}

func (p *parser) ruleDef() (*ast.RuleDef, error) {
	pos := p.tok.pos
	if err := p.next(); err != nil {
		return nil, err
	}
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(tokColon); err != nil {
		return nil, err
	}
	data, err := p.pattern()
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(tokArrow); err != nil {
		return nil, err
	}
	signer, err := p.pattern()
	if err != nil {
		return nil, err
	}

	def := &ast.RuleDef{Pos: pos, Name: name.text, Data: data, Signer: signer}
	for p.tok.kind == tokAnd {
		if err = p.next(); err != nil {
			return nil, err
		}
		chain, err := p.chainRef()
		if err != nil {
			return nil, err
		}
		def.Chains = append(def.Chains, chain)
	}

	if _, err = p.expect(tokSemi); err != nil {
		return nil, err
	}
	return def, nil
}

func (p *parser) chainRef() (*ast.ChainRef, error) {
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	ref := &ast.ChainRef{Pos: name.pos, Rule: name.text}
	if p.tok.kind != tokLParen {
		return ref, nil
	}

	if err = p.next(); err != nil {
		return nil, err
	}
	ref.Vars = []string{}
	for {
		v, err := p.expect(tokVar)
		if err != nil {
			return nil, err
		}
		ref.Vars = append(ref.Vars, v.text)
		if p.tok.kind != tokComma {
			break
		}
		if err = p.next(); err != nil {
			return nil, err
		}
	}
	if _, err = p.expect(tokRParen); err != nil {
		return nil, err
	}
	return ref, nil
}

func (p *parser) pattern() (*ast.Pattern, error) {
	pat := &ast.Pattern{Pos: p.tok.pos}
	for {
		seq, err := p.sequence()
		if err != nil {
			return nil, err
		}
		pat.Alts = append(pat.Alts, seq)
		if p.tok.kind != tokOr {
			return pat, nil
		}
		if err = p.next(); err != nil {
			return nil, err
		}
	}
}

func (p *parser) sequence() (*ast.Sequence, error) {
	seq := &ast.Sequence{Pos: p.tok.pos}
	if p.tok.kind == tokSlash {
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	for {
		comp, err := p.component()
		if err != nil {
			return nil, err
		}
		seq.Components = append(seq.Components, comp)
		if p.tok.kind != tokSlash {
			return seq, nil
		}
		if err = p.next(); err != nil {
			return nil, err
		}
	}
}

func (p *parser) component() (*ast.Component, error) {
	tok := p.tok
	comp := &ast.Component{Pos: tok.pos}
	switch tok.kind {
	case tokString, tokNumber:
		comp.Kind = ast.KindLiteral
		comp.Value = tok.comp
		return comp, p.next()
	case tokStar:
		comp.Kind = ast.KindWildcard
		return comp, p.next()
	case tokVar:
		comp.Kind = ast.KindCapture
		comp.Var = tok.text
	default:
		return nil, p.unexpected("a pattern component")
	}

	if err := p.next(); err != nil {
		return nil, err
	}
	if p.tok.kind != tokColon {
		return comp, nil
	}
	if err := p.next(); err != nil {
		return nil, err
	}

	switch p.tok.kind {
	case tokIdent:
		comp.TypeName = p.tok.text
		return comp, p.next()
	case tokLBrace:
		opts, err := p.constraint()
		if err != nil {
			return nil, err
		}
		comp.Options = opts
		return comp, nil
	default:
		return nil, p.unexpected("a type name or '{'")
	}
}

func (p *parser) constraint() ([]*ast.Option, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	var opts []*ast.Option
	for {
		tok := p.tok
		switch tok.kind {
		case tokString, tokNumber:
			value := tok.comp
			opts = append(opts, &ast.Option{Pos: tok.pos, Value: &value})
		case tokVar:
			opts = append(opts, &ast.Option{Pos: tok.pos, Var: tok.text})
		default:
			return nil, p.unexpected("a literal or capture variable")
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokOr {
			break
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return opts, nil
}
