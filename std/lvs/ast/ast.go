// Package ast holds the syntax tree of a Light VerSec schema.
package ast

import (
	"fmt"
	"strings"

	enc "github.com/named-data/lvsc/std/encoding"
)

// Pos is a 1-based position in the schema source.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Schema is the parsed form of one schema document, in source order.
type Schema struct {
	Types []*TypeDef
	Rules []*RuleDef
}

// TypeDef is `type Name = pattern;`.
type TypeDef struct {
	Pos     Pos
	Name    string
	Pattern *Pattern
}

// RuleDef is `rule Name: data <= signer & Chain...;`.
type RuleDef struct {
	Pos    Pos
	Name   string
	Data   *Pattern
	Signer *Pattern
	Chains []*ChainRef
}

// ChainRef is `& Rule` or `& Rule($a, $b)`.
type ChainRef struct {
	Pos  Pos
	Rule string
	// Vars is the explicit capture correspondence; nil when implicit.
	Vars []string
}

// Pattern is a set of alternatives separated by `|`.
type Pattern struct {
	Pos  Pos
	Alts []*Sequence
}

// Sequence is one alternative: components separated by `/`.
type Sequence struct {
	Pos        Pos
	Components []*Component
}

type ComponentKind uint8

const (
	KindLiteral ComponentKind = iota + 1
	KindWildcard
	KindCapture
)

// Component is a single pattern position.
type Component struct {
	Pos   Pos
	Kind  ComponentKind
	Value enc.Component
	// Var is the capture name without the `$`.
	Var string
	// TypeName is set for typed captures `$x: T`.
	TypeName string
	// Options is set for constrained captures `$x: {...}`.
	Options []*Option
}

// Option is one alternative of a capture constraint.
type Option struct {
	Pos   Pos
	Value *enc.Component
	Var   string
}

func (c *Component) String() string {
	switch c.Kind {
	case KindLiteral:
		return `"` + c.Value.String() + `"`
	case KindWildcard:
		return "*"
	}

	sb := strings.Builder{}
	sb.WriteString("$" + c.Var)
	if c.TypeName != "" {
		sb.WriteString(": " + c.TypeName)
	}
	if c.Options != nil {
		sb.WriteString(": {")
		for i, o := range c.Options {
			if i > 0 {
				sb.WriteString(" | ")
			}
			sb.WriteString(o.String())
		}
		sb.WriteString("}")
	}
	return sb.String()
}

func (o *Option) String() string {
	if o.Value != nil {
		return `"` + o.Value.String() + `"`
	}
	return "$" + o.Var
}

func (s *Sequence) String() string {
	parts := make([]string, len(s.Components))
	for i, c := range s.Components {
		parts[i] = c.String()
	}
	return strings.Join(parts, "/")
}

func (p *Pattern) String() string {
	parts := make([]string, len(p.Alts))
	for i, a := range p.Alts {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}
