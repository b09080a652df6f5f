package trust_schema_test

import (
	"testing"

	enc "github.com/named-data/lvsc/std/encoding"
	"github.com/named-data/lvsc/std/lvs"
	"github.com/named-data/lvsc/std/security/trust_schema"
	tu "github.com/named-data/lvsc/std/utils/testutils"
	"github.com/stretchr/testify/require"
)

const schema = `
type Site = "org"/$site;
rule Data: $p: Site/"data"/$id <= $p: Site/"author"/$id/"KEY"/* & Author;
rule Author: $p: Site/"author"/$id/"KEY"/* <= $p: Site/"KEY"/* & Site;
rule Site: $p: Site/"KEY"/* <= "root"/"KEY"/*;
rule Shared: "shared"/$any <= "root"/"KEY"/* | "org"/*/"KEY"/*;
`

func name(s string) enc.Name {
	return tu.NoErr(enc.NameFromStr(s))
}

func newSchema(t *testing.T) *trust_schema.LvsSchema {
	tu.SetT(t)
	return tu.NoErr(trust_schema.NewLvsSchema(tu.NoErr(lvs.Compile(schema))))
}

func TestMatch(t *testing.T) {
	s := newSchema(t)

	require.Equal(t, []string{"Data"}, s.Match(name("/org/ucla/data/1")))
	require.Equal(t, []string{"Site"}, s.Match(name("/org/ucla/KEY/k")))
	require.Nil(t, s.Match(name("/org/ucla/other")))
	require.Equal(t, []string{"Data", "Shared"}, s.Model().Checks)
}

func TestCheck(t *testing.T) {
	s := newSchema(t)

	require.True(t, s.Check(name("/org/ucla/data/1"), name("/org/ucla/author/1/KEY/k1")))
	// captures must agree between data and signer
	require.False(t, s.Check(name("/org/ucla/data/1"), name("/org/mit/author/1/KEY/k1")))
	require.False(t, s.Check(name("/org/ucla/data/1"), name("/org/ucla/author/2/KEY/k1")))

	require.True(t, s.Check(name("/org/ucla/KEY/k"), name("/root/KEY/r")))
	require.False(t, s.Check(name("/org/ucla/KEY/k"), name("/org/ucla/KEY/k")))

	require.True(t, s.Check(name("/shared/x"), name("/org/mit/KEY/k")))
	require.True(t, s.Check(name("/shared/x"), name("/root/KEY/r")))
	require.False(t, s.Check(name("/shared/x"), name("/other/KEY/r")))
}

func TestCheckChain(t *testing.T) {
	s := newSchema(t)

	data := name("/org/ucla/data/1")
	author := name("/org/ucla/author/1/KEY/k1")
	site := name("/org/ucla/KEY/s")
	root := name("/root/KEY/r")

	require.True(t, s.CheckChain([]enc.Name{data, author, site, root}))
	require.False(t, s.CheckChain([]enc.Name{data, author, site}))
	require.False(t, s.CheckChain([]enc.Name{data, author, site, root, root}))
	require.False(t, s.CheckChain([]enc.Name{data, author, name("/org/mit/KEY/s"), root}))
	require.False(t, s.CheckChain([]enc.Name{data}))

	// chains must start at a check rule
	require.False(t, s.CheckChain([]enc.Name{author, site, root}))
	require.True(t, s.CheckChain([]enc.Name{name("/shared/x"), root}))
}

func TestImplicitDigest(t *testing.T) {
	s := newSchema(t)

	digest := enc.Component{Typ: enc.TypeImplicitSha256DigestComponent, Val: make([]byte, 32)}
	data := name("/org/ucla/data/1").Append(digest)
	require.True(t, s.Check(data, name("/org/ucla/author/1/KEY/k1")))
	require.Equal(t, []string{"Data"}, s.Match(data))
}

func TestSignerConstrainsDataCaptures(t *testing.T) {
	tu.SetT(t)

	s := tu.NoErr(trust_schema.NewLvsSchema(tu.NoErr(lvs.Compile(`
type T = "x"/*;
type U = "x";
rule Opt: "d"/$u <= "k"/$u: {"alice"};
rule Typed: "t"/$u/* <= "k"/$u: T;
rule Single: "s"/$u/* <= "k"/$u: U;
`))))

	require.True(t, s.Check(name("/d/alice"), name("/k/alice")))
	require.False(t, s.Check(name("/d/bob"), name("/k/bob")))

	require.False(t, s.Check(name("/t/bob/1"), name("/k/bob")))
	require.True(t, s.Check(name("/s/x/1"), name("/k/x")))
	require.False(t, s.Check(name("/s/y/1"), name("/k/y")))
}

func TestInvalidModel(t *testing.T) {
	tu.SetT(t)

	_, err := trust_schema.NewLvsSchema([]byte{0x07})
	var verr lvs.VersionError
	require.ErrorAs(t, err, &verr)
}
