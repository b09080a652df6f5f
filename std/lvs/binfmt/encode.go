package binfmt

import (
	"encoding/binary"

	enc "github.com/named-data/lvsc/std/encoding"
	"github.com/named-data/lvsc/std/lvs/model"
	"github.com/named-data/lvsc/std/lvs/pattern"
	"github.com/named-data/lvsc/std/lvs/rules"
	"github.com/named-data/lvsc/std/types/optional"
)

type encoder struct {
	buf   []byte
	types int
	rules map[string]int
}

// Encode writes m in a single pass: the type table, then the rule table.
// Nothing is returned when any table exceeds the format's limits.
func Encode(m *model.Model) ([]byte, error) {
	if len(m.Types) > MaxTypes {
		return nil, EncodingLimitError{Field: "type", Count: len(m.Types), Limit: MaxTypes}
	}
	if len(m.Rules) > MaxRules {
		return nil, EncodingLimitError{Field: "rule", Count: len(m.Rules), Limit: MaxRules}
	}

	e := &encoder{
		buf:   make([]byte, 0, 256),
		types: len(m.Types),
		rules: make(map[string]int, len(m.Rules)),
	}
	for i, r := range m.Rules {
		e.rules[r.Name] = i
	}

	e.buf = append(e.buf, Version)
	e.buf = binary.AppendUvarint(e.buf, uint64(len(m.Types)))
	for _, t := range m.Types {
		if err := e.str("type name", t.Name); err != nil {
			return nil, err
		}
		if err := e.matcher(t.Matcher); err != nil {
			return nil, err
		}
	}

	e.buf = binary.AppendUvarint(e.buf, uint64(len(m.Rules)))
	for _, r := range m.Rules {
		if err := e.rule(r); err != nil {
			return nil, err
		}
	}
	return e.buf, nil
}

func (e *encoder) u8(field string, n int) error {
	if n > MaxCount8 {
		return EncodingLimitError{Field: field, Count: n, Limit: MaxCount8}
	}
	e.buf = append(e.buf, byte(n))
	return nil
}

func (e *encoder) u16(field string, n int, limit int) error {
	if n > limit {
		return EncodingLimitError{Field: field, Count: n, Limit: limit}
	}
	e.buf = binary.LittleEndian.AppendUint16(e.buf, uint16(n))
	return nil
}

func (e *encoder) str(field string, s string) error {
	if err := e.u16(field+" length", len(s), MaxLength); err != nil {
		return err
	}
	e.buf = append(e.buf, s...)
	return nil
}

func (e *encoder) tlv(c enc.Component) error {
	b := c.Bytes()
	if err := e.u16("component length", len(b), MaxLength); err != nil {
		return err
	}
	e.buf = append(e.buf, b...)
	return nil
}

func (e *encoder) matcher(m *pattern.Matcher) error {
	if err := e.u8("alternative", len(m.Alts)); err != nil {
		return err
	}
	for _, seq := range m.Alts {
		if err := e.u8("component", len(seq.Components)); err != nil {
			return err
		}
		for i := range seq.Components {
			if err := e.component(&seq.Components[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *encoder) component(c *pattern.Component) error {
	switch c.Kind {
	case pattern.KindLiteral:
		e.buf = append(e.buf, TagLiteral)
		return e.tlv(c.Value)
	case pattern.KindWildcard:
		e.buf = append(e.buf, TagWildcard)
		return nil
	}

	e.buf = append(e.buf, TagCapture)
	if err := e.str("capture name", c.Var); err != nil {
		return err
	}
	var typeRef uint16
	if ref, ok := c.TypeRef.Get(); ok {
		if ref < 0 || ref >= e.types {
			return EncodingLimitError{Field: "type reference", Count: ref + 1, Limit: e.types}
		}
		typeRef = optional.CastInt[int, uint16](c.TypeRef).Unwrap() + 1
	}
	e.buf = binary.LittleEndian.AppendUint16(e.buf, typeRef)
	if err := e.u8("constraint option", len(c.Options)); err != nil {
		return err
	}
	for _, o := range c.Options {
		if v, ok := o.Value.Get(); ok {
			e.buf = append(e.buf, TagLiteral)
			if err := e.tlv(v); err != nil {
				return err
			}
			continue
		}
		e.buf = append(e.buf, TagOptVar)
		if err := e.str("capture name", o.Var); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) rule(r *rules.Rule) error {
	if err := e.str("rule name", r.Name); err != nil {
		return err
	}
	if err := e.matcher(r.Data); err != nil {
		return err
	}
	if err := e.u8("signer constraint", len(r.Signers)); err != nil {
		return err
	}
	for _, sc := range r.Signers {
		if !sc.IsChain() {
			e.buf = append(e.buf, TagPattern)
			if err := e.matcher(sc.Pattern); err != nil {
				return err
			}
			continue
		}

		e.buf = append(e.buf, TagChain)
		ref, ok := e.rules[sc.Chain]
		if !ok {
			return rules.UnknownRuleReferenceError{Rule: r.Name, Name: sc.Chain}
		}
		e.buf = binary.LittleEndian.AppendUint16(e.buf, uint16(ref))
		if err := e.u8("correspondence", len(sc.Correspondence)); err != nil {
			return err
		}
		for _, v := range sc.Correspondence {
			if err := e.str("capture name", v); err != nil {
				return err
			}
		}
	}
	return nil
}
