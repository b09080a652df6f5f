package binfmt_test

import (
	"encoding/binary"
	"fmt"
	"strings"
	"testing"

	enc "github.com/named-data/lvsc/std/encoding"
	"github.com/named-data/lvsc/std/lvs"
	"github.com/named-data/lvsc/std/lvs/binfmt"
	"github.com/named-data/lvsc/std/lvs/model"
	"github.com/named-data/lvsc/std/lvs/pattern"
	"github.com/named-data/lvsc/std/lvs/rules"
	tu "github.com/named-data/lvsc/std/utils/testutils"
	"github.com/stretchr/testify/require"
)

const schema = `
# site prefixes
type Site = "org"/$site | "edu"/$site/"cs";
type Tree = "root" | $t: Tree/"child";
rule Data: $p: Site/"data"/$id/$v: {"v=1" | "v=2" | $id} <= $p: Site/"KEY"/* & Author & Admin($p);
rule Author: $p: Site/"author"/$id/"KEY"/* <= $p: Site/"KEY"/*;
rule Admin: $p: Site/"KEY"/* <= "root"/"KEY"/$k | $t: Tree;
`

func TestRoundTrip(t *testing.T) {
	tu.SetT(t)

	m := tu.NoErr(lvs.CompileModel(schema))
	buf := tu.NoErr(binfmt.Encode(m))
	require.Equal(t, binfmt.Version, buf[0])

	dec := tu.NoErr(binfmt.Decode(buf))
	require.Equal(t, m, dec)
	require.Equal(t, buf, tu.NoErr(binfmt.Encode(dec)))
}

func TestRoundTripEmpty(t *testing.T) {
	tu.SetT(t)

	m := tu.NoErr(lvs.CompileModel("# nothing here\n"))
	buf := tu.NoErr(binfmt.Encode(m))
	require.Equal(t, []byte{binfmt.Version, 0, 0}, buf)
	require.Equal(t, m, tu.NoErr(binfmt.Decode(buf)))
}

func TestWireLayout(t *testing.T) {
	tu.SetT(t)

	buf := tu.NoErr(lvs.Compile(`type U = *; type T = "a"/$x: U; rule R: $x <= "k";`))
	lit := enc.NewGenericComponent("a").Bytes()
	k := enc.NewGenericComponent("k").Bytes()

	want := []byte{binfmt.Version, 2}
	want = append(want, 1, 0, 'U', 1, 1, binfmt.TagWildcard)
	want = append(want, 1, 0, 'T', 1, 2)
	want = append(want, binfmt.TagLiteral, byte(len(lit)), 0)
	want = append(want, lit...)
	want = append(want, binfmt.TagCapture, 1, 0, 'x', 1, 0, 0)
	want = append(want, 1)
	want = append(want, 1, 0, 'R')
	want = append(want, 1, 1, binfmt.TagCapture, 1, 0, 'x', 0, 0, 0)
	want = append(want, 1, binfmt.TagPattern, 1, 1, binfmt.TagLiteral, byte(len(k)), 0)
	want = append(want, k...)
	require.Equal(t, want, buf)
}

func TestChainEncoding(t *testing.T) {
	tu.SetT(t)

	m := tu.NoErr(lvs.CompileModel(`
rule R1: "a"/$k/"d" <= "a"/$k & R2;
rule R2: "a"/$k <= "root";
`))
	dec := tu.NoErr(binfmt.Decode(tu.NoErr(binfmt.Encode(m))))
	require.Equal(t, []string{"R1"}, dec.Checks)
	sc := dec.Rule("R1").Signers[1]
	require.Equal(t, "R2", sc.Chain)
	require.Equal(t, []string{"k"}, sc.Correspondence)
}

func TestTypeLimit(t *testing.T) {
	tu.SetT(t)

	m := &model.Model{}
	seq := pattern.NewSequence([]pattern.Component{{Kind: pattern.KindWildcard}})
	for i := 0; i <= binfmt.MaxTypes; i++ {
		m.Types = append(m.Types, &model.Type{
			Name:    fmt.Sprintf("T%d", i),
			Matcher: &pattern.Matcher{Alts: []*pattern.Sequence{seq}},
		})
	}
	buf, err := binfmt.Encode(m)
	require.Nil(t, buf)
	limit := tu.ErrAs[binfmt.EncodingLimitError](err)
	require.Equal(t, "type", limit.Field)
	require.Equal(t, binfmt.MaxTypes+1, limit.Count)
	require.Equal(t, binfmt.MaxTypes, limit.Limit)
}

func TestComponentLimit(t *testing.T) {
	tu.SetT(t)

	src := `type Long = ` + strings.TrimSuffix(strings.Repeat(`*/`, 256), "/") + `;`
	buf, err := lvs.Compile(src)
	require.Nil(t, buf)
	limit := tu.ErrAs[binfmt.EncodingLimitError](err)
	require.Equal(t, "component", limit.Field)
	require.Equal(t, 256, limit.Count)

	src = `type Long = ` + strings.TrimSuffix(strings.Repeat(`*/`, 255), "/") + `;`
	tu.NoErr(lvs.Compile(src))
}

func TestNameLimit(t *testing.T) {
	tu.SetT(t)

	m := &model.Model{
		Rules: []*rules.Rule{{
			Name: strings.Repeat("r", binfmt.MaxLength+1),
			Data: &pattern.Matcher{Alts: []*pattern.Sequence{
				pattern.NewSequence([]pattern.Component{{Kind: pattern.KindWildcard}}),
			}},
		}},
	}
	limit := tu.ErrAs[binfmt.EncodingLimitError](tu.Err(binfmt.Encode(m)))
	require.Equal(t, "rule name length", limit.Field)
}

func TestDecodeVersion(t *testing.T) {
	tu.SetT(t)

	buf := tu.NoErr(lvs.Compile(schema))
	buf[0] = 2
	verr := tu.ErrAs[binfmt.VersionError](tu.Err(binfmt.Decode(buf)))
	require.Equal(t, byte(2), verr.Version)

	tu.ErrAs[binfmt.FormatError](tu.Err(binfmt.Decode(nil)))
}

func TestDecodeTruncated(t *testing.T) {
	tu.SetT(t)

	buf := tu.NoErr(lvs.Compile(schema))
	for i := 1; i < len(buf); i++ {
		_, err := binfmt.Decode(buf[:i])
		require.Error(t, err, "prefix %d", i)
		var ferr binfmt.FormatError
		require.ErrorAs(t, err, &ferr, "prefix %d", i)
	}

	_, err := binfmt.Decode(append(buf, 0))
	ferr := tu.ErrAs[binfmt.FormatError](err)
	require.Equal(t, len(buf), ferr.Offset)
}

func TestDecodeRejectsBadReferences(t *testing.T) {
	tu.SetT(t)

	// one rule chaining to rule #5
	buf := []byte{binfmt.Version, 0, 1, 1, 0, 'R', 1, 1, binfmt.TagWildcard, 1, binfmt.TagChain, 5, 0, 0}
	tu.ErrAs[binfmt.FormatError](tu.Err(binfmt.Decode(buf)))

	// a rule chaining to itself
	buf[11] = 0
	tu.ErrAs[binfmt.FormatError](tu.Err(binfmt.Decode(buf)))

	// a capture of type #1 with no type table
	buf = []byte{binfmt.Version, 0, 1, 1, 0, 'R', 1, 1, binfmt.TagCapture, 1, 0, 'x', 2, 0, 0, 0}
	tu.ErrAs[binfmt.FormatError](tu.Err(binfmt.Decode(buf)))

	// an oversized table count
	buf = binary.AppendUvarint([]byte{binfmt.Version}, 1<<40)
	tu.ErrAs[binfmt.FormatError](tu.Err(binfmt.Decode(buf)))
}

func TestFingerprint(t *testing.T) {
	tu.SetT(t)

	a := tu.NoErr(lvs.Compile(schema))
	b := tu.NoErr(lvs.Compile(schema))
	require.Equal(t, binfmt.Fingerprint(a), binfmt.Fingerprint(b))
	b[len(b)-1] ^= 1
	require.NotEqual(t, binfmt.Fingerprint(a), binfmt.Fingerprint(b))
}
