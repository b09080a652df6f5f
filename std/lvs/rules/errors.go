package rules

import (
	"fmt"
	"strings"

	"github.com/named-data/lvsc/std/lvs/ast"
)

// UnknownRuleReferenceError reports a chain to a rule that does not exist.
type UnknownRuleReferenceError struct {
	Rule string
	Name string
	Pos  ast.Pos
}

func (e UnknownRuleReferenceError) Error() string {
	return fmt.Sprintf("%s: rule %s chains to unknown rule %s", e.Pos, e.Rule, e.Name)
}

// UnsatisfiableCorrespondenceError reports a correspondence variable that one
// side of a chain never captures.
type UnsatisfiableCorrespondenceError struct {
	Rule     string
	Chain    string
	Variable string
	Pos      ast.Pos
}

func (e UnsatisfiableCorrespondenceError) Error() string {
	return fmt.Sprintf("%s: rule %s cannot provide capture $%s to chained rule %s",
		e.Pos, e.Rule, e.Variable, e.Chain)
}

// CyclicRuleChainError reports rules that chain back to themselves.
// Cycle starts and ends with the same rule name.
type CyclicRuleChainError struct {
	Cycle []string
}

func (e CyclicRuleChainError) Error() string {
	return "cyclic rule chain: " + strings.Join(e.Cycle, " -> ")
}
