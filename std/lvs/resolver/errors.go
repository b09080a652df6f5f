package resolver

import (
	"fmt"
	"strings"

	"github.com/named-data/lvsc/std/lvs/ast"
)

// Reference kinds reported by UndefinedReferenceError and DuplicateDefinitionError.
const (
	KindType    = "type"
	KindRule    = "rule"
	KindCapture = "capture"
)

// UndefinedReferenceError reports a reference to a name that is never defined.
type UndefinedReferenceError struct {
	Kind string
	Name string
	Pos  ast.Pos
}

func (e UndefinedReferenceError) Error() string {
	if e.Kind == KindCapture {
		return fmt.Sprintf("%s: undefined capture $%s", e.Pos, e.Name)
	}
	return fmt.Sprintf("%s: undefined %s %s", e.Pos, e.Kind, e.Name)
}

// DuplicateDefinitionError reports a type or rule defined twice.
type DuplicateDefinitionError struct {
	Kind string
	Name string
	Pos  ast.Pos
	Prev ast.Pos
}

func (e DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("%s: %s %s already defined at %s", e.Pos, e.Kind, e.Name, e.Prev)
}

// CyclicDefinitionError reports types that can only be matched by recursing forever.
// Cycle starts and ends with the same type name.
type CyclicDefinitionError struct {
	Cycle []string
}

func (e CyclicDefinitionError) Error() string {
	return "unguarded recursive type definition: " + strings.Join(e.Cycle, " -> ")
}
