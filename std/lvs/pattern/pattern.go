// Package pattern compiles resolved name patterns into matchers and matches names against them.
package pattern

import (
	"strings"

	enc "github.com/named-data/lvsc/std/encoding"
	"github.com/named-data/lvsc/std/types/optional"
)

// Kind of a component matcher. The values are the binary format tags.
type Kind uint8

const (
	KindLiteral  Kind = 0x01
	KindWildcard Kind = 0x02
	KindCapture  Kind = 0x03
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindWildcard:
		return "wildcard"
	case KindCapture:
		return "capture"
	}
	return "invalid"
}

// Matcher is a compiled pattern expression, one Sequence per alternative.
type Matcher struct {
	Alts []*Sequence
}

// Sequence matches names component by component.
type Sequence struct {
	Components []Component
	// Captures lists every variable in first-appearance order.
	Captures []Capture
}

// Capture is one entry of a sequence's capture table.
type Capture struct {
	Var       string
	Positions []int
}

type Component struct {
	Kind  Kind
	Value enc.Component
	Var   string
	// TypeRef indexes the type table for typed captures.
	TypeRef  optional.Optional[int]
	TypeName string
	Options  []Option
	// Backref is set on every repeated occurrence of Var in the sequence.
	Backref bool
}

// Option is one member of a capture constraint: a literal or another capture.
type Option struct {
	Value optional.Optional[enc.Component]
	Var   string
}

// NewSequence builds a sequence and its capture table.
func NewSequence(comps []Component) *Sequence {
	seq := &Sequence{Components: comps}
	index := map[string]int{}
	for i := range comps {
		c := &comps[i]
		if c.Kind != KindCapture {
			continue
		}
		if k, ok := index[c.Var]; ok {
			c.Backref = true
			seq.Captures[k].Positions = append(seq.Captures[k].Positions, i)
			continue
		}
		c.Backref = false
		index[c.Var] = len(seq.Captures)
		seq.Captures = append(seq.Captures, Capture{Var: c.Var, Positions: []int{i}})
	}
	return seq
}

// HasVar reports whether the sequence captures v.
func (s *Sequence) HasVar(v string) bool {
	for _, c := range s.Captures {
		if c.Var == v {
			return true
		}
	}
	return false
}

// Vars returns the variables captured by any alternative, in first-appearance order.
func (m *Matcher) Vars() []string {
	var vars []string
	seen := map[string]bool{}
	for _, alt := range m.Alts {
		for _, c := range alt.Captures {
			if !seen[c.Var] {
				seen[c.Var] = true
				vars = append(vars, c.Var)
			}
		}
	}
	return vars
}

// HasVar reports whether some alternative captures v.
func (m *Matcher) HasVar(v string) bool {
	for _, alt := range m.Alts {
		if alt.HasVar(v) {
			return true
		}
	}
	return false
}

// Binds reports whether every alternative captures v, so a successful match
// always binds it.
func (m *Matcher) Binds(v string) bool {
	if len(m.Alts) == 0 {
		return false
	}
	for _, alt := range m.Alts {
		if !alt.HasVar(v) {
			return false
		}
	}
	return true
}

func (c Component) String() string {
	switch c.Kind {
	case KindLiteral:
		return `"` + c.Value.String() + `"`
	case KindWildcard:
		return "*"
	case KindCapture:
	default:
		return "?"
	}

	sb := strings.Builder{}
	sb.WriteString("$" + c.Var)
	if c.TypeName != "" {
		sb.WriteString(": " + c.TypeName)
	}
	if len(c.Options) > 0 {
		sb.WriteString(": {")
		for i, o := range c.Options {
			if i > 0 {
				sb.WriteString(" | ")
			}
			sb.WriteString(o.String())
		}
		sb.WriteString("}")
	}
	return sb.String()
}

func (o Option) String() string {
	if v, ok := o.Value.Get(); ok {
		return `"` + v.String() + `"`
	}
	return "$" + o.Var
}

func (s *Sequence) String() string {
	parts := make([]string, len(s.Components))
	for i, c := range s.Components {
		parts[i] = c.String()
	}
	return strings.Join(parts, "/")
}

func (m *Matcher) String() string {
	parts := make([]string, len(m.Alts))
	for i, a := range m.Alts {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}
