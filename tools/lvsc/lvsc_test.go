package lvsc_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/named-data/lvsc/std/lvs"
	tu "github.com/named-data/lvsc/std/utils/testutils"
	"github.com/named-data/lvsc/tools/lvsc"
	"github.com/stretchr/testify/require"
)

const schema = `
type Site = "org"/$site;
rule Data: $p: Site/"data"/$id <= $p: Site/"KEY"/* & Key;
rule Key: $p: Site/"KEY"/* <= "root"/"KEY"/*;
`

// run executes the command line with stdin, returning stdout.
func run(stdin string, args ...string) (string, error) {
	cmd := lvsc.CmdLvsc()
	out := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompileStdio(t *testing.T) {
	tu.SetT(t)

	out := tu.NoErr(run(schema, "compile"))
	require.Equal(t, string(tu.NoErr(lvs.Compile(schema))), out)

	out, err := run(`type A = $x: A;`, "compile")
	require.Error(t, err)
	require.Empty(t, out)
	tu.ErrAs[lvs.CyclicDefinitionError](err)
}

func TestCompileFiles(t *testing.T) {
	tu.SetT(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "app.lvs")
	dst := filepath.Join(dir, "app.tlv")
	require.NoError(t, os.WriteFile(src, []byte(schema), 0o644))

	require.Empty(t, tu.NoErr(run("", "compile", src, "-o", dst, "--cache", filepath.Join(dir, "cache"))))
	require.Equal(t, tu.NoErr(lvs.Compile(schema)), tu.NoErr(os.ReadFile(dst)))

	// failed compilations leave no output file
	bad := filepath.Join(dir, "bad.lvs")
	require.NoError(t, os.WriteFile(bad, []byte(`rule R: "a" <= "b" & Nope;`), 0o644))
	_, err := run("", "compile", bad, "-o", filepath.Join(dir, "bad.tlv"))
	require.Error(t, err)
	require.NoFileExists(t, filepath.Join(dir, "bad.tlv"))
}

func TestCheck(t *testing.T) {
	tu.SetT(t)

	dir := t.TempDir()
	model := filepath.Join(dir, "app.tlv")
	require.NoError(t, os.WriteFile(model, tu.NoErr(lvs.Compile(schema)), 0o644))

	out := tu.NoErr(run("", "check", model, "/org/ucla/data/1", "/org/ucla/KEY/k"))
	require.Equal(t, "trusted\n", out)

	_, err := run("", "check", model, "/org/ucla/data/1", "/org/mit/KEY/k")
	require.ErrorIs(t, err, lvsc.ErrUntrusted)

	tu.NoErr(run("", "check", model, "/org/ucla/data/1", "/org/ucla/KEY/k", "/root/KEY/r"))
	_, err = run("", "check", model, "/org/ucla/data/1", "/org/ucla/KEY/k", "/org/KEY/r")
	require.ErrorIs(t, err, lvsc.ErrUntrusted)
}

func TestDump(t *testing.T) {
	tu.SetT(t)

	buf := string(tu.NoErr(lvs.Compile(schema)))

	out := tu.NoErr(run(buf, "dump", "--format", "json"))
	dump := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(out), &dump))
	require.Equal(t, []any{"Data"}, dump["checks"])
	require.Len(t, dump["rules"], 2)

	out = tu.NoErr(run(buf, "dump"))
	require.Contains(t, out, "name: Data")
	require.Contains(t, out, `$p: Site/"data"/$id`)
	require.Contains(t, out, "chain: Key")

	out = tu.NoErr(run(buf, "dump", "--format", "info"))
	require.Contains(t, out, "types=1\n")
	require.Contains(t, out, "rules=2\n")

	_, err := run(buf, "dump", "--format", "xml")
	require.Error(t, err)
	_, err = run("garbage", "dump")
	require.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	tu.SetT(t)

	dir := t.TempDir()
	cfg := filepath.Join(dir, "lvsc.yml")
	require.NoError(t, os.WriteFile(cfg, []byte("log_level: WARN\nformat: json\n"), 0o644))

	buf := string(tu.NoErr(lvs.Compile(schema)))
	out := tu.NoErr(run(buf, "dump", "--config", cfg))
	require.True(t, strings.HasPrefix(out, "{"))

	require.NoError(t, os.WriteFile(cfg, []byte("format: xml\n"), 0o644))
	_, err := run(buf, "dump", "--config", cfg)
	require.Error(t, err)

	_, err = run(buf, "dump", "--log-level", "LOUD")
	require.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	tu.SetT(t)

	cfg := tu.NoErr(lvsc.LoadConfig(""))
	require.Equal(t, lvsc.DefaultConfig(), cfg)
}
