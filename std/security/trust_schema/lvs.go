// Package trust_schema checks signing relations against a compiled LVS model.
package trust_schema

import (
	enc "github.com/named-data/lvsc/std/encoding"
	"github.com/named-data/lvsc/std/lvs/binfmt"
	"github.com/named-data/lvsc/std/lvs/model"
	"github.com/named-data/lvsc/std/lvs/pattern"
	"github.com/named-data/lvsc/std/lvs/rules"
)

// LvsSchema is a trust schema backed by a compiled LVS model.
type LvsSchema struct {
	m *model.Model
}

// NewLvsSchema decodes a binary model.
func NewLvsSchema(buf []byte) (*LvsSchema, error) {
	m, err := binfmt.Decode(buf)
	if err != nil {
		return nil, err
	}
	return &LvsSchema{m: m}, nil
}

func NewLvsSchemaFromModel(m *model.Model) *LvsSchema {
	return &LvsSchema{m: m}
}

func (s *LvsSchema) Model() *model.Model {
	return s.m
}

// Match returns the rules whose data pattern matches name, in table order.
func (s *LvsSchema) Match(name enc.Name) []string {
	name = trimDigest(name)
	var ret []string
	for _, r := range s.m.Rules {
		if _, ok := r.Data.Match(name, s.m, nil); ok {
			ret = append(ret, r.Name)
		}
	}
	return ret
}

// Check reports whether key may sign pkt under some rule of the schema.
// Chained rules are checked against key itself; the rest of the chain is not.
func (s *LvsSchema) Check(pkt enc.Name, key enc.Name) bool {
	pkt, key = trimDigest(pkt), trimDigest(key)
	for _, r := range s.m.Rules {
		if s.checkRule(r, pkt, nil, func(ctx pattern.Context) bool {
			return s.signedBy(r, ctx, key, nil)
		}) {
			return true
		}
	}
	return false
}

// CheckChain validates a signing chain: chain[0] is the data name, every
// following name signs the one before it. The chain must start at a check
// rule and end with a signer that needs no further chained rule.
func (s *LvsSchema) CheckChain(chain []enc.Name) bool {
	if len(chain) < 2 {
		return false
	}
	trimmed := make([]enc.Name, len(chain))
	for i, n := range chain {
		trimmed[i] = trimDigest(n)
	}

	for _, name := range s.m.Checks {
		r := s.m.Rule(name)
		if r != nil && s.validate(r, nil, trimmed) {
			return true
		}
	}
	return false
}

// validate checks that chain[0] matches r and chain[1:] satisfies its signer constraints.
func (s *LvsSchema) validate(r *rules.Rule, seed pattern.Context, chain []enc.Name) bool {
	if len(chain) < 2 {
		return false
	}
	return s.checkRule(r, chain[0], seed, func(ctx pattern.Context) bool {
		return s.signedBy(r, ctx, chain[1], chain[1:])
	})
}

func (s *LvsSchema) checkRule(r *rules.Rule, name enc.Name, seed pattern.Context, pred func(pattern.Context) bool) bool {
	found := false
	r.Data.Each(name, s.m, seed, func(ctx pattern.Context) bool {
		found = pred(ctx)
		return !found
	})
	return found
}

// signedBy checks every signer constraint of r against key, with the data
// captures in ctx. When rest is not nil, chained rules are validated against
// the remaining chain and a signer without chained rules must end it.
func (s *LvsSchema) signedBy(r *rules.Rule, ctx pattern.Context, key enc.Name, rest []enc.Name) bool {
	chained := false
	for _, sc := range r.Signers {
		if !sc.IsChain() {
			if _, ok := sc.Pattern.Match(key, s.m, ctx); !ok {
				return false
			}
			continue
		}

		chained = true
		next := s.m.Rule(sc.Chain)
		if next == nil {
			return false
		}
		seed := pattern.Context{}
		for _, v := range sc.Correspondence {
			if val, ok := ctx[v]; ok {
				seed[v] = val
			}
		}

		if rest == nil {
			if _, ok := next.Data.Match(key, s.m, seed); !ok {
				return false
			}
		} else if !s.validate(next, seed, rest) {
			return false
		}
	}
	if rest != nil && !chained {
		return len(rest) == 1
	}
	return true
}

// trimDigest drops the implicit digest component, which no pattern covers.
func trimDigest(name enc.Name) enc.Name {
	if len(name) > 0 && name[len(name)-1].Typ == enc.TypeImplicitSha256DigestComponent {
		return name[:len(name)-1]
	}
	return name
}
