package parser

import (
	"fmt"

	"github.com/named-data/lvsc/std/lvs/ast"
)

// SyntaxError reports malformed schema text.
type SyntaxError struct {
	Pos      ast.Pos
	Expected string
	Found    string
}

func (e SyntaxError) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("%s: syntax error: %s", e.Pos, e.Expected)
	}
	return fmt.Sprintf("%s: syntax error: expected %s, found %s", e.Pos, e.Expected, e.Found)
}
