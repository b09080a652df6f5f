package pattern

import (
	enc "github.com/named-data/lvsc/std/encoding"
)

// Types resolves type references while matching.
type Types interface {
	TypeMatcher(ref int) *Matcher
}

// TypeList is a Types backed by a slice indexed by type reference.
type TypeList []*Matcher

func (l TypeList) TypeMatcher(ref int) *Matcher {
	if ref < 0 || ref >= len(l) {
		return nil
	}
	return l[ref]
}

// Context holds the values captured during a match. Untyped captures bind
// single-component names; typed captures bind the whole sub-name and record
// the sub-captures as "var.sub".
type Context map[string]enc.Name

func (c Context) Clone() Context {
	ret := make(Context, len(c))
	for k, v := range c {
		ret[k] = v
	}
	return ret
}

// Get returns the single component bound to v.
func (c Context) Get(v string) (enc.Component, bool) {
	n, ok := c[v]
	if !ok || len(n) != 1 {
		return enc.Component{}, false
	}
	return n[0], true
}

type rangeKey struct {
	typ, start, end int
}

type matchState struct {
	types  Types
	name   enc.Name
	active map[rangeKey]bool
}

// Each calls yield with the context of every way name matches m, until yield
// returns false. Variables present in seed must match their seeded values.
// Each returns false if it was stopped by yield.
func (m *Matcher) Each(name enc.Name, types Types, seed Context, yield func(Context) bool) bool {
	st := &matchState{types: types, name: name, active: map[rangeKey]bool{}}
	if seed == nil {
		seed = Context{}
	}
	return st.matcher(m, 0, len(name), seed, yield)
}

// Match reports whether name matches m and returns the first context found.
func (m *Matcher) Match(name enc.Name, types Types, seed Context) (Context, bool) {
	var found Context
	m.Each(name, types, seed, func(ctx Context) bool {
		found = ctx
		return false
	})
	return found, found != nil
}

func (st *matchState) matcher(m *Matcher, start, end int, ctx Context, yield func(Context) bool) bool {
	for _, alt := range m.Alts {
		if !st.sequence(alt.Components, start, end, ctx, yield) {
			return false
		}
	}
	return true
}

// sequence matches comps against name[pos:end].
func (st *matchState) sequence(comps []Component, pos, end int, ctx Context, yield func(Context) bool) bool {
	if len(comps) == 0 {
		if pos == end {
			return yield(ctx)
		}
		return true
	}
	if pos >= end {
		return true
	}

	c := &comps[0]
	rest := comps[1:]
	switch c.Kind {
	case KindLiteral:
		if !st.name[pos].Equal(c.Value) {
			return true
		}
		return st.sequence(rest, pos+1, end, ctx, yield)
	case KindWildcard:
		return st.sequence(rest, pos+1, end, ctx, yield)
	case KindCapture:
	default:
		return true
	}

	if bound, ok := ctx[c.Var]; ok {
		n := len(bound)
		if n == 0 || pos+n > end || !bound.Equal(st.name[pos:pos+n]) {
			return true
		}
		// a value bound outside this sequence still has to meet the constraints
		if !st.options(c.Options, bound, ctx) {
			return true
		}
		if ref, typed := c.TypeRef.Get(); typed {
			sub := st.types.TypeMatcher(ref)
			if sub == nil || len(st.typed(ref, sub, pos, pos+n)) == 0 {
				return true
			}
		}
		return st.sequence(rest, pos+n, end, ctx, yield)
	}

	ref, typed := c.TypeRef.Get()
	if !typed {
		if !st.options(c.Options, st.name[pos:pos+1], ctx) {
			return true
		}
		next := ctx.Clone()
		next[c.Var] = st.name[pos : pos+1]
		return st.sequence(rest, pos+1, end, next, yield)
	}

	sub := st.types.TypeMatcher(ref)
	if sub == nil {
		return true
	}
	for stop := pos + 1; stop <= end; stop++ {
		if !st.options(c.Options, st.name[pos:stop], ctx) {
			continue
		}
		for _, subCtx := range st.typed(ref, sub, pos, stop) {
			next := ctx.Clone()
			next[c.Var] = st.name[pos:stop]
			for k, v := range subCtx {
				next[c.Var+"."+k] = v
			}
			if !st.sequence(rest, stop, end, next, yield) {
				return false
			}
		}
	}
	return true
}

// typed collects every context of a type matching name[start:end].
// A range already being matched against the same type on the current path is
// not entered again.
func (st *matchState) typed(ref int, m *Matcher, start, end int) []Context {
	key := rangeKey{ref, start, end}
	if st.active[key] {
		return nil
	}
	st.active[key] = true
	defer delete(st.active, key)

	var ret []Context
	st.matcher(m, start, end, Context{}, func(ctx Context) bool {
		ret = append(ret, ctx)
		return true
	})
	return ret
}

func (st *matchState) options(opts []Option, value enc.Name, ctx Context) bool {
	if len(opts) == 0 {
		return true
	}
	for _, o := range opts {
		if v, ok := o.Value.Get(); ok {
			if len(value) == 1 && value[0].Equal(v) {
				return true
			}
		} else if bound, ok := ctx[o.Var]; ok && bound.Equal(value) {
			return true
		}
	}
	return false
}
