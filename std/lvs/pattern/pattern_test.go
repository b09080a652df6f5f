package pattern_test

import (
	"reflect"
	"testing"

	enc "github.com/named-data/lvsc/std/encoding"
	"github.com/named-data/lvsc/std/lvs/ast"
	"github.com/named-data/lvsc/std/lvs/parser"
	"github.com/named-data/lvsc/std/lvs/pattern"
	"github.com/named-data/lvsc/std/lvs/resolver"
	tu "github.com/named-data/lvsc/std/utils/testutils"
	"github.com/stretchr/testify/require"
)

// compileTypes compiles every type of a schema, returning the type table.
func compileTypes(src string) (pattern.TypeList, map[string]int, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, nil, err
	}
	s, err := resolver.Resolve(tree)
	if err != nil {
		return nil, nil, err
	}
	types := make(pattern.TypeList, len(s.Types))
	for i, t := range s.Types {
		if types[i], err = pattern.Compile(t.Pattern, nil); err != nil {
			return nil, nil, err
		}
	}
	return types, s.TypeIndex, nil
}

func compile(src string) (*pattern.Matcher, error) {
	types, idx, err := compileTypes(src)
	if err != nil {
		return nil, err
	}
	return types[idx["P"]], nil
}

func name(s string) enc.Name {
	return tu.NoErr(enc.NameFromStr(s))
}

func TestBackreference(t *testing.T) {
	tu.SetT(t)

	m := tu.NoErr(compile(`type P = "a"/$x/$x/"b";`))
	seq := m.Alts[0]
	require.Equal(t, []pattern.Capture{{Var: "x", Positions: []int{1, 2}}}, seq.Captures)
	require.False(t, seq.Components[1].Backref)
	require.True(t, seq.Components[2].Backref)

	ctx, ok := m.Match(name("/a/v/v/b"), nil, nil)
	require.True(t, ok)
	require.Equal(t, name("/v"), ctx["x"])

	_, ok = m.Match(name("/a/v/w/b"), nil, nil)
	require.False(t, ok)
}

func TestLiteralsAndWildcards(t *testing.T) {
	tu.SetT(t)

	m := tu.NoErr(compile(`type P = "a"/*/"v=1";`))
	require.Equal(t, pattern.KindLiteral, m.Alts[0].Components[0].Kind)
	require.Equal(t, pattern.KindWildcard, m.Alts[0].Components[1].Kind)
	require.Nil(t, m.Alts[0].Captures)

	_, ok := m.Match(name("/a/anything/v=1"), nil, nil)
	require.True(t, ok)
	_, ok = m.Match(name("/a/anything/v=2"), nil, nil)
	require.False(t, ok)
	_, ok = m.Match(name("/a/anything"), nil, nil)
	require.False(t, ok)
	_, ok = m.Match(name("/a/anything/v=1/extra"), nil, nil)
	require.False(t, ok)
	// the version convention is a different type than the generic text
	_, ok = m.Match(name("/a/anything/v%3D1"), nil, nil)
	require.False(t, ok)
}

func TestAlternatives(t *testing.T) {
	tu.SetT(t)

	m := tu.NoErr(compile(`type P = "a"/$x | "b"/$y/$y;`))
	require.Len(t, m.Alts, 2)
	require.Equal(t, []string{"x", "y"}, m.Vars())

	ctx, ok := m.Match(name("/b/q/q"), nil, nil)
	require.True(t, ok)
	require.Equal(t, pattern.Context{"y": name("/q")}, ctx)

	_, ok = m.Match(name("/b/q"), nil, nil)
	require.False(t, ok)
}

func TestConstraints(t *testing.T) {
	tu.SetT(t)

	m := tu.NoErr(compile(`type P = $a/$b: {"x" | "y" | $a};`))
	for _, n := range []string{"/k/x", "/k/y", "/k/k"} {
		_, ok := m.Match(name(n), nil, nil)
		require.True(t, ok, n)
	}
	_, ok := m.Match(name("/k/z"), nil, nil)
	require.False(t, ok)
}

func TestConstraintUnboundCapture(t *testing.T) {
	tu.SetT(t)

	err := tu.Err(compile(`type P = $b: {"x" | $a}/$a;`))
	undef := tu.ErrAs[resolver.UndefinedReferenceError](err)
	require.Equal(t, resolver.KindCapture, undef.Kind)
	require.Equal(t, "a", undef.Name)

	// outer captures are visible
	tree := tu.NoErr(parser.ParsePattern(`$b: {$a}`))
	s := tu.NoErr(resolver.Resolve(&ast.Schema{Types: []*ast.TypeDef{{Name: "P", Pattern: tree}}}))
	tu.NoErr(pattern.Compile(s.Types[0].Pattern, []string{"a"}))
}

func TestCaptureRedefinition(t *testing.T) {
	tu.SetT(t)

	err := tu.Err(compile(`type T = "t"; type P = $x/$x: T;`))
	redef := tu.ErrAs[pattern.CaptureRedefinitionError](err)
	require.Equal(t, "x", redef.Var)
	require.Equal(t, 1, redef.Pos.Line)
	require.Equal(t, 27, redef.Pos.Column)

	tu.Err(compile(`type P = $x: {"a"}/$x: {"a"};`))
	// a plain repeat after an annotated capture is a back-reference
	tu.NoErr(compile(`type T = "t"; type P = $x: T/$x;`))
}

func TestTypedCaptures(t *testing.T) {
	tu.SetT(t)

	types, idx, err := compileTypes(`
type Site = "org"/$site;
type P = $prefix: Site/"KEY"/$id;
`)
	require.NoError(t, err)
	m := types[idx["P"]]

	ctx, ok := m.Match(name("/org/ucla/KEY/42"), types, nil)
	require.True(t, ok)
	require.Equal(t, pattern.Context{
		"prefix":      name("/org/ucla"),
		"prefix.site": name("/ucla"),
		"id":          name("/42"),
	}, ctx)

	_, ok = m.Match(name("/com/ucla/KEY/42"), types, nil)
	require.False(t, ok)
}

func TestGuardedRecursionMatching(t *testing.T) {
	tu.SetT(t)

	types, idx, err := compileTypes(`type A = "root" | $x: A / "child";`)
	require.NoError(t, err)
	a := types[idx["A"]]

	for _, n := range []string{"/root", "/root/child", "/root/child/child/child"} {
		_, ok := a.Match(name(n), types, nil)
		require.True(t, ok, n)
	}
	for _, n := range []string{"/child", "/root/root", "/root/child/other"} {
		_, ok := a.Match(name(n), types, nil)
		require.False(t, ok, n)
	}
}

func TestSeededContext(t *testing.T) {
	tu.SetT(t)

	m := tu.NoErr(compile(`type P = "KEY"/$k;`))
	_, ok := m.Match(name("/KEY/1"), nil, pattern.Context{"k": name("/1")})
	require.True(t, ok)
	_, ok = m.Match(name("/KEY/2"), nil, pattern.Context{"k": name("/1")})
	require.False(t, ok)
}

func TestSeededValueMeetsConstraints(t *testing.T) {
	tu.SetT(t)

	types, idx, err := compileTypes(`
type T = "x"/*;
type O = "KEY"/$k: {"alice"};
type P = "KEY"/$k: T;
`)
	require.NoError(t, err)

	o := types[idx["O"]]
	_, ok := o.Match(name("/KEY/alice"), types, pattern.Context{"k": name("/alice")})
	require.True(t, ok)
	_, ok = o.Match(name("/KEY/bob"), types, pattern.Context{"k": name("/bob")})
	require.False(t, ok)

	p := types[idx["P"]]
	_, ok = p.Match(name("/KEY/x/1"), types, pattern.Context{"k": name("/x/1")})
	require.True(t, ok)
	_, ok = p.Match(name("/KEY/bob"), types, pattern.Context{"k": name("/bob")})
	require.False(t, ok)
}

func TestEachStops(t *testing.T) {
	tu.SetT(t)

	m := tu.NoErr(compile(`type P = $a/* | */$b | $a/$b;`))
	count := 0
	require.True(t, m.Each(name("/x/y"), nil, nil, func(pattern.Context) bool {
		count++
		return true
	}))
	require.Equal(t, 3, count)

	count = 0
	require.False(t, m.Each(name("/x/y"), nil, nil, func(pattern.Context) bool {
		count++
		return false
	}))
	require.Equal(t, 1, count)
}

func TestCompileDeterministic(t *testing.T) {
	tu.SetT(t)

	src := `type T = "t"; type P = "a"/$x: T/$y: {"b" | $x}/*/$x | $z;`
	m1 := tu.NoErr(compile(src))
	m2 := tu.NoErr(compile(src))
	require.True(t, reflect.DeepEqual(m1, m2))
	require.Equal(t, `"a"/$x: T/$y: {"b" | $x}/*/$x | $z`, m1.String())
}
