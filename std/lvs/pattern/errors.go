package pattern

import (
	"fmt"

	"github.com/named-data/lvsc/std/lvs/ast"
)

// CaptureRedefinitionError reports a variable annotated again after its first occurrence.
type CaptureRedefinitionError struct {
	Var string
	Pos ast.Pos
}

func (e CaptureRedefinitionError) Error() string {
	return fmt.Sprintf("%s: capture $%s is already bound; a repeated capture cannot carry a type or constraint", e.Pos, e.Var)
}
