package pattern

import (
	"github.com/named-data/lvsc/std/lvs/ast"
	"github.com/named-data/lvsc/std/lvs/resolver"
)

// Compile builds the matcher of a resolved pattern. Each alternative compiles
// on its own. outer lists variables already bound when the pattern is matched,
// i.e. the data pattern's captures when compiling a signer pattern.
func Compile(p *resolver.Pattern, outer []string) (*Matcher, error) {
	m := &Matcher{Alts: make([]*Sequence, 0, len(p.Alts))}
	for _, alt := range p.Alts {
		seq, err := compileSequence(alt, outer)
		if err != nil {
			return nil, err
		}
		m.Alts = append(m.Alts, seq)
	}
	return m, nil
}

func compileSequence(src *resolver.Sequence, outer []string) (*Sequence, error) {
	bound := make(map[string]bool, len(outer)+len(src.Components))
	for _, v := range outer {
		bound[v] = true
	}
	local := map[string]bool{}

	comps := make([]Component, 0, len(src.Components))
	for _, c := range src.Components {
		switch c.Kind {
		case ast.KindLiteral:
			comps = append(comps, Component{Kind: KindLiteral, Value: c.Value.Clone()})
			continue
		case ast.KindWildcard:
			comps = append(comps, Component{Kind: KindWildcard})
			continue
		}

		annotated := c.TypeRef.IsSet() || len(c.Options) > 0
		if local[c.Var] && annotated {
			return nil, CaptureRedefinitionError{Var: c.Var, Pos: c.Pos}
		}

		comp := Component{
			Kind:     KindCapture,
			Var:      c.Var,
			TypeRef:  c.TypeRef,
			TypeName: c.TypeName,
		}
		for _, o := range c.Options {
			opt := Option{Var: o.Var}
			if v, ok := o.Value.Get(); ok {
				opt.Value.Set(v.Clone())
			} else if !bound[o.Var] {
				return nil, resolver.UndefinedReferenceError{
					Kind: resolver.KindCapture,
					Name: o.Var,
					Pos:  o.Pos,
				}
			}
			comp.Options = append(comp.Options, opt)
		}

		comps = append(comps, comp)
		local[c.Var] = true
		bound[c.Var] = true
	}
	return NewSequence(comps), nil
}
