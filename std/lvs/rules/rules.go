// Package rules builds the trust rule graph of a resolved schema.
package rules

import (
	"github.com/named-data/lvsc/std/lvs/pattern"
	"github.com/named-data/lvsc/std/lvs/resolver"
)

// Rule is a compiled trust rule.
type Rule struct {
	Name    string
	Data    *pattern.Matcher
	Signers []SignerConstraint
}

// SignerConstraint is either a signer name pattern or a chain to another rule.
type SignerConstraint struct {
	Pattern *pattern.Matcher
	// Chain names the rule the signer must also satisfy.
	Chain string
	// Correspondence lists captures the signer must carry over to the chained rule.
	Correspondence []string
}

// IsChain reports whether the constraint is a chain edge.
func (c SignerConstraint) IsChain() bool {
	return c.Pattern == nil
}

// Chains returns the names of the rules r chains to.
func (r *Rule) Chains() []string {
	var ret []string
	for _, sc := range r.Signers {
		if sc.IsChain() {
			ret = append(ret, sc.Chain)
		}
	}
	return ret
}

// Graph is the rule table in canonical order plus the verifier entry points.
type Graph struct {
	Rules  []*Rule
	Checks []string
}

// Build compiles every rule and orders them for the rule table.
//
// Chain targets are looked up by name here rather than trusted from the
// resolver, so Build also rejects unknown chains on its own.
func Build(s *resolver.Schema) (*Graph, error) {
	index := make(map[string]int, len(s.Rules))
	for i, r := range s.Rules {
		index[r.Name] = i
	}

	compiled := make([]*Rule, len(s.Rules))
	for i, r := range s.Rules {
		rule, err := compileRule(r)
		if err != nil {
			return nil, err
		}
		compiled[i] = rule
	}

	edges := make([][]int, len(s.Rules))
	for i, r := range s.Rules {
		for j, ch := range r.Chains {
			target, ok := index[ch.Rule]
			if !ok {
				return nil, UnknownRuleReferenceError{Rule: r.Name, Name: ch.Rule, Pos: ch.Pos}
			}
			corr, err := correspondence(r, ch, compiled[i].Data, compiled[target].Data)
			if err != nil {
				return nil, err
			}
			edges[i] = append(edges[i], target)
			sc := &compiled[i].Signers[1+j]
			sc.Chain = ch.Rule
			sc.Correspondence = corr
		}
	}

	if cycle := findCycle(s, edges); cycle != nil {
		return nil, CyclicRuleChainError{Cycle: cycle}
	}

	g := &Graph{Rules: make([]*Rule, 0, len(compiled))}
	emitted := make([]bool, len(compiled))
	var emit func(int)
	emit = func(i int) {
		if emitted[i] {
			return
		}
		emitted[i] = true
		g.Rules = append(g.Rules, compiled[i])
		for _, t := range edges[i] {
			emit(t)
		}
	}
	for i := range compiled {
		emit(i)
	}
	g.Checks = Checks(g.Rules)
	return g, nil
}

// Checks returns the rules no other rule chains to, in table order.
// These are the entry points of signature validation.
func Checks(rs []*Rule) []string {
	referenced := map[string]bool{}
	for _, r := range rs {
		for _, c := range r.Chains() {
			referenced[c] = true
		}
	}
	var ret []string
	for _, r := range rs {
		if !referenced[r.Name] {
			ret = append(ret, r.Name)
		}
	}
	return ret
}

func compileRule(r *resolver.Rule) (*Rule, error) {
	data, err := pattern.Compile(r.Data, nil)
	if err != nil {
		return nil, err
	}
	signer, err := pattern.Compile(r.Signer, data.Vars())
	if err != nil {
		return nil, err
	}
	rule := &Rule{
		Name:    r.Name,
		Data:    data,
		Signers: make([]SignerConstraint, 1, 1+len(r.Chains)),
	}
	rule.Signers[0].Pattern = signer
	for range r.Chains {
		rule.Signers = append(rule.Signers, SignerConstraint{})
	}
	return rule, nil
}

// correspondence returns the captures shared across a chain edge: the
// explicit list, or every capture of the chained rule that the referencing
// rule binds in all of its alternatives.
func correspondence(r *resolver.Rule, ch *resolver.Chain, from, to *pattern.Matcher) ([]string, error) {
	if ch.Vars == nil {
		var ret []string
		for _, v := range to.Vars() {
			if from.Binds(v) {
				ret = append(ret, v)
			}
		}
		return ret, nil
	}

	ret := make([]string, 0, len(ch.Vars))
	for _, v := range ch.Vars {
		if !from.Binds(v) || !to.HasVar(v) {
			return nil, UnsatisfiableCorrespondenceError{
				Rule:     r.Name,
				Chain:    ch.Rule,
				Variable: v,
				Pos:      ch.Pos,
			}
		}
		ret = append(ret, v)
	}
	return ret, nil
}

func findCycle(s *resolver.Schema, edges [][]int) []string {
	const (
		visiting = iota + 1
		done
	)
	state := make([]int, len(edges))
	stack := []int{}

	var visit func(int) []string
	visit = func(i int) []string {
		state[i] = visiting
		stack = append(stack, i)
		for _, t := range edges[i] {
			switch state[t] {
			case visiting:
				from := 0
				for k, j := range stack {
					if j == t {
						from = k
						break
					}
				}
				cycle := make([]string, 0, len(stack)-from+1)
				for _, j := range stack[from:] {
					cycle = append(cycle, s.Rules[j].Name)
				}
				return append(cycle, s.Rules[t].Name)
			case 0:
				if cycle := visit(t); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = done
		return nil
	}

	for i := range edges {
		if state[i] == 0 {
			if cycle := visit(i); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
