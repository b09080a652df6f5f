package cache_test

import (
	"testing"

	"github.com/named-data/lvsc/std/lvs"
	"github.com/named-data/lvsc/std/lvs/cache"
	tu "github.com/named-data/lvsc/std/utils/testutils"
	"github.com/stretchr/testify/require"
)

const schema = `
rule Data: "app"/$k/"data" <= "app"/$k & Key;
rule Key: "app"/$k <= "root";
`

func TestCompileCache(t *testing.T) {
	tu.SetT(t)

	c := tu.NoErr(cache.Open(""))
	defer c.Close()
	comp := lvs.NewCompiler(lvs.DefaultOptions())

	require.Nil(t, tu.NoErr(c.Get(schema)))

	first := tu.NoErr(c.Compile(comp, schema))
	require.Equal(t, tu.NoErr(lvs.Compile(schema)), first)
	require.Equal(t, first, tu.NoErr(c.Get(schema)))

	// a hit returns the stored bytes without compiling again
	require.NoError(t, c.Put(schema, []byte{0xAA}))
	require.Equal(t, []byte{0xAA}, tu.NoErr(c.Compile(comp, schema)))

	tu.Err(c.Compile(comp, `type A = $x: A;`))
	require.Nil(t, tu.NoErr(c.Get(`type A = $x: A;`)))
}

func TestPersistentCache(t *testing.T) {
	tu.SetT(t)

	dir := t.TempDir()
	c := tu.NoErr(cache.Open(dir))
	buf := tu.NoErr(c.Compile(lvs.NewCompiler(lvs.DefaultOptions()), schema))
	require.NoError(t, c.Close())

	c = tu.NoErr(cache.Open(dir))
	defer c.Close()
	require.Equal(t, buf, tu.NoErr(c.Get(schema)))
}

func TestCacheHitKeepsSourceLimit(t *testing.T) {
	tu.SetT(t)

	c := tu.NoErr(cache.Open(""))
	defer c.Close()
	tu.NoErr(c.Compile(lvs.NewCompiler(lvs.DefaultOptions()), schema))

	small := lvs.NewCompiler(lvs.Options{Tag: "small", MaxSourceSize: 16})
	err := tu.Err(c.Compile(small, schema))
	size := tu.ErrAs[lvs.SourceSizeError](err)
	require.Equal(t, len(schema), size.Size)
}

func TestKey(t *testing.T) {
	require.Equal(t, cache.Key("a"), cache.Key("a"))
	require.NotEqual(t, cache.Key("a"), cache.Key("b"))
	require.Len(t, cache.Key("a"), 4+32)
}
