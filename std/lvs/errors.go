package lvs

import (
	"fmt"

	"github.com/named-data/lvsc/std/lvs/binfmt"
	"github.com/named-data/lvsc/std/lvs/parser"
	"github.com/named-data/lvsc/std/lvs/pattern"
	"github.com/named-data/lvsc/std/lvs/resolver"
	"github.com/named-data/lvsc/std/lvs/rules"
)

// Errors returned by the compiler stages. Use errors.As to inspect them.
type (
	SyntaxError                      = parser.SyntaxError
	UndefinedReferenceError          = resolver.UndefinedReferenceError
	DuplicateDefinitionError         = resolver.DuplicateDefinitionError
	CyclicDefinitionError            = resolver.CyclicDefinitionError
	CaptureRedefinitionError         = pattern.CaptureRedefinitionError
	UnknownRuleReferenceError        = rules.UnknownRuleReferenceError
	UnsatisfiableCorrespondenceError = rules.UnsatisfiableCorrespondenceError
	CyclicRuleChainError             = rules.CyclicRuleChainError
	EncodingLimitError               = binfmt.EncodingLimitError
	FormatError                      = binfmt.FormatError
	VersionError                     = binfmt.VersionError
)

// SourceSizeError is returned for schema text longer than Options.MaxSourceSize.
type SourceSizeError struct {
	Size  int
	Limit int
}

func (e SourceSizeError) Error() string {
	return fmt.Sprintf("schema source is %d bytes, limit is %d", e.Size, e.Limit)
}
