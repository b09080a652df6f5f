// Package model holds the compiled form of a schema.
package model

import (
	"github.com/named-data/lvsc/std/lvs/pattern"
	"github.com/named-data/lvsc/std/lvs/rules"
)

// Model is a compiled schema: the type table in definition order, the rule
// table in first-reference order and the names of the check rules.
type Model struct {
	Types  []*Type
	Rules  []*rules.Rule
	Checks []string
}

// Type is a named pattern referenced by typed captures.
type Type struct {
	Name    string
	Matcher *pattern.Matcher
}

// TypeMatcher implements pattern.Types.
func (m *Model) TypeMatcher(ref int) *pattern.Matcher {
	if ref < 0 || ref >= len(m.Types) {
		return nil
	}
	return m.Types[ref].Matcher
}

// Rule finds a rule by name.
func (m *Model) Rule(name string) *rules.Rule {
	for _, r := range m.Rules {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// RuleIndex returns the position of a rule in the rule table, or -1.
func (m *Model) RuleIndex(name string) int {
	for i, r := range m.Rules {
		if r.Name == name {
			return i
		}
	}
	return -1
}
