package lvsc

import (
	"fmt"
	"os"

	"github.com/named-data/lvsc/std/log"
	"github.com/named-data/lvsc/std/lvs"
	"github.com/named-data/lvsc/std/lvs/cache"
	"github.com/spf13/cobra"
)

type ToolCompile struct {
	tool     *Tool
	output   string
	cacheDir string
}

func (t *ToolCompile) configure(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "compile [SCHEMA-FILE]",
		Short: "Compile a schema into a binary model",
		Long: `Compile an LVS schema into a binary model.

Reads the schema from the file or stdin and writes the model to
the output file or stdout. Nothing is written when compilation fails.`,
		Args: cobra.MaximumNArgs(1),
		Example: `  lvsc compile app.lvs -o app.tlv
  lvsc compile --cache ~/.cache/lvsc < app.lvs > app.tlv`,
		RunE: t.run,
	}
	cmd.Flags().StringVarP(&t.output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&t.cacheDir, "cache", "", "Compile cache directory")
	root.AddCommand(cmd)
}

func (t *ToolCompile) String() string {
	return "lvsc-compile"
}

func (t *ToolCompile) run(cmd *cobra.Command, args []string) error {
	file := ""
	if len(args) > 0 {
		file = args[0]
	}
	src, err := readInput(cmd, file)
	if err != nil {
		return err
	}

	buf, err := t.compile(string(src))
	if err != nil {
		return err
	}

	if t.output == "" || t.output == "-" {
		_, err = cmd.OutOrStdout().Write(buf)
		return err
	}
	if err = os.WriteFile(t.output, buf, 0o644); err != nil {
		return fmt.Errorf("unable to write model: %w", err)
	}
	log.Info(t, "Compiled schema", "output", t.output, "size", len(buf))
	return nil
}

func (t *ToolCompile) compile(src string) ([]byte, error) {
	comp := lvs.NewCompiler(lvs.DefaultOptions())

	dir := t.cacheDir
	if dir == "" {
		dir = t.tool.config.CacheDir
	}
	if dir == "" {
		return comp.Compile(src)
	}

	c, err := cache.Open(dir)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.Compile(comp, src)
}
