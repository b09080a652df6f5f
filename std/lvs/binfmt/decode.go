package binfmt

import (
	"encoding/binary"

	enc "github.com/named-data/lvsc/std/encoding"
	"github.com/named-data/lvsc/std/lvs/model"
	"github.com/named-data/lvsc/std/lvs/pattern"
	"github.com/named-data/lvsc/std/lvs/rules"
)

type decoder struct {
	buf []byte
	pos int
	// captures with a type reference, named once the type table is complete
	typed []*pattern.Component
	// chains[i] holds rule references of rule i, in signer order
	chains [][]int
}

// Decode rebuilds a model from its binary form, including the capture
// tables and the check rules, which are not stored.
func Decode(buf []byte) (*model.Model, error) {
	d := &decoder{buf: buf}

	version, err := d.u8()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, VersionError{Version: version}
	}

	m := &model.Model{}
	typeCount, err := d.count(MaxTypes, 3)
	if err != nil {
		return nil, err
	}
	m.Types = make([]*model.Type, 0, typeCount)
	seen := map[string]bool{}
	for range typeCount {
		start := d.pos
		name, err := d.str()
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, FormatError{Offset: start, Msg: "duplicate type " + name}
		}
		seen[name] = true
		matcher, err := d.matcher()
		if err != nil {
			return nil, err
		}
		m.Types = append(m.Types, &model.Type{Name: name, Matcher: matcher})
	}

	ruleCount, err := d.count(MaxRules, 4)
	if err != nil {
		return nil, err
	}
	m.Rules = make([]*rules.Rule, 0, ruleCount)
	d.chains = make([][]int, 0, ruleCount)
	clear(seen)
	for range ruleCount {
		start := d.pos
		r, err := d.rule(ruleCount)
		if err != nil {
			return nil, err
		}
		if seen[r.Name] {
			return nil, FormatError{Offset: start, Msg: "duplicate rule " + r.Name}
		}
		seen[r.Name] = true
		m.Rules = append(m.Rules, r)
	}
	if d.pos != len(d.buf) {
		return nil, FormatError{Offset: d.pos, Msg: "trailing bytes"}
	}

	for _, c := range d.typed {
		ref := c.TypeRef.Unwrap()
		if ref >= len(m.Types) {
			return nil, FormatError{Offset: d.pos, Msg: "type reference out of range"}
		}
		c.TypeName = m.Types[ref].Name
	}
	for i, refs := range d.chains {
		k := 0
		for j := range m.Rules[i].Signers {
			sc := &m.Rules[i].Signers[j]
			if sc.IsChain() {
				sc.Chain = m.Rules[refs[k]].Name
				k++
			}
		}
	}
	if err := d.checkAcyclic(m); err != nil {
		return nil, err
	}
	m.Checks = rules.Checks(m.Rules)
	return m, nil
}

func (d *decoder) fail(msg string) error {
	return FormatError{Offset: d.pos, Msg: msg}
}

func (d *decoder) take(n int) ([]byte, error) {
	if len(d.buf)-d.pos < n {
		return nil, d.fail("unexpected end of input")
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) u8() (byte, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) u16() (int, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return int(binary.LittleEndian.Uint16(b)), nil
}

// count reads a table size. Every entry takes at least minSize bytes,
// which bounds the count by the remaining input.
func (d *decoder) count(limit int, minSize int) (int, error) {
	v, n := binary.Uvarint(d.buf[d.pos:])
	if n <= 0 {
		return 0, d.fail("invalid varint")
	}
	if v > uint64(limit) || v > uint64((len(d.buf)-d.pos-n)/minSize) {
		return 0, d.fail("table size out of range")
	}
	d.pos += n
	return int(v), nil
}

func (d *decoder) str() (string, error) {
	l, err := d.u16()
	if err != nil {
		return "", err
	}
	b, err := d.take(l)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) tlv() (enc.Component, error) {
	l, err := d.u16()
	if err != nil {
		return enc.Component{}, err
	}
	start := d.pos
	b, err := d.take(l)
	if err != nil {
		return enc.Component{}, err
	}
	c, err := enc.ComponentFromBytes(b)
	if err != nil {
		return enc.Component{}, FormatError{Offset: start, Msg: err.Error()}
	}
	return c.Clone(), nil
}

func (d *decoder) matcher() (*pattern.Matcher, error) {
	alts, err := d.u8()
	if err != nil {
		return nil, err
	}
	if alts == 0 {
		return nil, d.fail("matcher without alternatives")
	}
	m := &pattern.Matcher{Alts: make([]*pattern.Sequence, 0, alts)}
	for range alts {
		n, err := d.u8()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, d.fail("empty sequence")
		}
		comps := make([]pattern.Component, 0, n)
		for range n {
			c, err := d.component()
			if err != nil {
				return nil, err
			}
			comps = append(comps, c)
		}
		seq := pattern.NewSequence(comps)
		for i := range seq.Components {
			if seq.Components[i].TypeRef.IsSet() {
				d.typed = append(d.typed, &seq.Components[i])
			}
		}
		m.Alts = append(m.Alts, seq)
	}
	return m, nil
}

func (d *decoder) component() (pattern.Component, error) {
	tag, err := d.u8()
	if err != nil {
		return pattern.Component{}, err
	}
	switch tag {
	case TagLiteral:
		v, err := d.tlv()
		if err != nil {
			return pattern.Component{}, err
		}
		return pattern.Component{Kind: pattern.KindLiteral, Value: v}, nil
	case TagWildcard:
		return pattern.Component{Kind: pattern.KindWildcard}, nil
	case TagCapture:
	default:
		d.pos--
		return pattern.Component{}, d.fail("unknown component tag")
	}

	c := pattern.Component{Kind: pattern.KindCapture}
	if c.Var, err = d.str(); err != nil {
		return c, err
	}
	if c.Var == "" {
		return c, d.fail("empty capture name")
	}
	typeRef, err := d.u16()
	if err != nil {
		return c, err
	}
	if typeRef > 0 {
		c.TypeRef.Set(typeRef - 1)
	}
	opts, err := d.u8()
	if err != nil {
		return c, err
	}
	for range opts {
		tag, err := d.u8()
		if err != nil {
			return c, err
		}
		var opt pattern.Option
		switch tag {
		case TagLiteral:
			v, err := d.tlv()
			if err != nil {
				return c, err
			}
			opt.Value.Set(v)
		case TagOptVar:
			if opt.Var, err = d.str(); err != nil {
				return c, err
			}
		default:
			d.pos--
			return c, d.fail("unknown option tag")
		}
		c.Options = append(c.Options, opt)
	}
	return c, nil
}

func (d *decoder) rule(ruleCount int) (*rules.Rule, error) {
	r := &rules.Rule{}
	var err error
	if r.Name, err = d.str(); err != nil {
		return nil, err
	}
	if r.Data, err = d.matcher(); err != nil {
		return nil, err
	}
	n, err := d.u8()
	if err != nil {
		return nil, err
	}

	var refs []int
	r.Signers = make([]rules.SignerConstraint, 0, n)
	for range n {
		tag, err := d.u8()
		if err != nil {
			return nil, err
		}
		var sc rules.SignerConstraint
		switch tag {
		case TagPattern:
			if sc.Pattern, err = d.matcher(); err != nil {
				return nil, err
			}
		case TagChain:
			ref, err := d.u16()
			if err != nil {
				return nil, err
			}
			if ref >= ruleCount {
				return nil, d.fail("rule reference out of range")
			}
			refs = append(refs, ref)
			corr, err := d.u8()
			if err != nil {
				return nil, err
			}
			for range corr {
				v, err := d.str()
				if err != nil {
					return nil, err
				}
				sc.Correspondence = append(sc.Correspondence, v)
			}
		default:
			d.pos--
			return nil, d.fail("unknown signer tag")
		}
		r.Signers = append(r.Signers, sc)
	}
	d.chains = append(d.chains, refs)
	return r, nil
}

// checkAcyclic rejects chain cycles, which would make validation loop forever.
func (d *decoder) checkAcyclic(m *model.Model) error {
	state := make([]byte, len(m.Rules))
	var visit func(int) bool
	visit = func(i int) bool {
		state[i] = 1
		for _, t := range d.chains[i] {
			if state[t] == 1 || (state[t] == 0 && !visit(t)) {
				return false
			}
		}
		state[i] = 2
		return true
	}
	for i := range m.Rules {
		if state[i] == 0 && !visit(i) {
			return FormatError{Offset: len(d.buf), Msg: "cyclic rule chain through " + m.Rules[i].Name}
		}
	}
	return nil
}
