// Package resolver binds type and rule references of a parsed schema.
package resolver

import (
	enc "github.com/named-data/lvsc/std/encoding"
	"github.com/named-data/lvsc/std/lvs/ast"
	"github.com/named-data/lvsc/std/types/optional"
)

// Schema is the resolved schema. It shares no memory with the AST it was built from.
type Schema struct {
	Types     []*Type
	Rules     []*Rule
	TypeIndex map[string]int
	RuleIndex map[string]int
}

type Type struct {
	Pos     ast.Pos
	Name    string
	Pattern *Pattern
}

type Rule struct {
	Pos    ast.Pos
	Name   string
	Data   *Pattern
	Signer *Pattern
	Chains []*Chain
}

// Chain is a resolved `& Rule` reference.
type Chain struct {
	Pos   ast.Pos
	Rule  string
	Index int
	// Vars is the explicit correspondence, nil when implicit.
	Vars []string
}

type Pattern struct {
	Pos  ast.Pos
	Alts []*Sequence
}

type Sequence struct {
	Pos        ast.Pos
	Components []*Component
}

type Component struct {
	Pos      ast.Pos
	Kind     ast.ComponentKind
	Value    enc.Component
	Var      string
	TypeName string
	// TypeRef is the index of TypeName in Schema.Types.
	TypeRef optional.Optional[int]
	Options []*Option
}

type Option struct {
	Pos   ast.Pos
	Value optional.Optional[enc.Component]
	Var   string
}

type resolver struct {
	src    *ast.Schema
	schema *Schema
}

// Resolve builds the name tables in one pass, then binds every reference against them.
// Forward references are legal; recursive types must have a terminating alternative.
func Resolve(src *ast.Schema) (*Schema, error) {
	r := &resolver{
		src: src,
		schema: &Schema{
			TypeIndex: make(map[string]int, len(src.Types)),
			RuleIndex: make(map[string]int, len(src.Rules)),
		},
	}
	if err := r.collect(); err != nil {
		return nil, err
	}
	if err := r.bind(); err != nil {
		return nil, err
	}
	if err := checkGuarded(r.schema); err != nil {
		return nil, err
	}
	return r.schema, nil
}

func (r *resolver) collect() error {
	for _, def := range r.src.Types {
		if prev, ok := r.schema.TypeIndex[def.Name]; ok {
			return DuplicateDefinitionError{
				Kind: KindType,
				Name: def.Name,
				Pos:  def.Pos,
				Prev: r.src.Types[prev].Pos,
			}
		}
		r.schema.TypeIndex[def.Name] = len(r.schema.Types)
		r.schema.Types = append(r.schema.Types, &Type{Pos: def.Pos, Name: def.Name})
	}
	for _, def := range r.src.Rules {
		if prev, ok := r.schema.RuleIndex[def.Name]; ok {
			return DuplicateDefinitionError{
				Kind: KindRule,
				Name: def.Name,
				Pos:  def.Pos,
				Prev: r.src.Rules[prev].Pos,
			}
		}
		r.schema.RuleIndex[def.Name] = len(r.schema.Rules)
		r.schema.Rules = append(r.schema.Rules, &Rule{Pos: def.Pos, Name: def.Name})
	}
	return nil
}

func (r *resolver) bind() (err error) {
	for i, def := range r.src.Types {
		if r.schema.Types[i].Pattern, err = r.pattern(def.Pattern); err != nil {
			return err
		}
	}
	for i, def := range r.src.Rules {
		rule := r.schema.Rules[i]
		if rule.Data, err = r.pattern(def.Data); err != nil {
			return err
		}
		if rule.Signer, err = r.pattern(def.Signer); err != nil {
			return err
		}
		for _, ref := range def.Chains {
			idx, ok := r.schema.RuleIndex[ref.Rule]
			if !ok {
				return UndefinedReferenceError{Kind: KindRule, Name: ref.Rule, Pos: ref.Pos}
			}
			chain := &Chain{Pos: ref.Pos, Rule: ref.Rule, Index: idx}
			if ref.Vars != nil {
				chain.Vars = append([]string{}, ref.Vars...)
			}
			rule.Chains = append(rule.Chains, chain)
		}
	}
	return nil
}

func (r *resolver) pattern(src *ast.Pattern) (*Pattern, error) {
	pat := &Pattern{Pos: src.Pos, Alts: make([]*Sequence, 0, len(src.Alts))}
	for _, alt := range src.Alts {
		seq := &Sequence{Pos: alt.Pos, Components: make([]*Component, 0, len(alt.Components))}
		for _, c := range alt.Components {
			comp, err := r.component(c)
			if err != nil {
				return nil, err
			}
			seq.Components = append(seq.Components, comp)
		}
		pat.Alts = append(pat.Alts, seq)
	}
	return pat, nil
}

func (r *resolver) component(src *ast.Component) (*Component, error) {
	comp := &Component{
		Pos:      src.Pos,
		Kind:     src.Kind,
		Var:      src.Var,
		TypeName: src.TypeName,
	}
	if src.Kind == ast.KindLiteral {
		comp.Value = src.Value.Clone()
	}

	if src.TypeName != "" {
		idx, ok := r.schema.TypeIndex[src.TypeName]
		if !ok {
			return nil, UndefinedReferenceError{Kind: KindType, Name: src.TypeName, Pos: src.Pos}
		}
		comp.TypeRef = optional.Some(idx)
	}

	if src.Options != nil {
		comp.Options = make([]*Option, 0, len(src.Options))
		for _, o := range src.Options {
			opt := &Option{Pos: o.Pos, Var: o.Var}
			if o.Value != nil {
				opt.Value = optional.Some(o.Value.Clone())
			}
			comp.Options = append(comp.Options, opt)
		}
	}
	return comp, nil
}
