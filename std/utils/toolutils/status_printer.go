package toolutils

import (
	"fmt"
	"io"
	"strings"
)

type StatusPrinter struct {
	File    io.Writer
	Padding int
}

// Print writes key=value with the key right-aligned to Padding.
func (s StatusPrinter) Print(key string, value any) {
	fmt.Fprintf(s.File, "%s%s=%v\n", strings.Repeat(" ", max(s.Padding-len(key), 0)), key, value)
}
