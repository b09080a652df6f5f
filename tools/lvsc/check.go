package lvsc

import (
	"errors"
	"fmt"

	enc "github.com/named-data/lvsc/std/encoding"
	"github.com/named-data/lvsc/std/security/trust_schema"
	"github.com/spf13/cobra"
)

// ErrUntrusted is returned by check when the names are not a trusted chain.
var ErrUntrusted = errors.New("signing chain is not trusted")

type ToolCheck struct {
	tool *Tool
}

func (t *ToolCheck) configure(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "check MODEL-FILE DATA-NAME KEY-NAME...",
		Short: "Check names against a compiled model",
		Long: `Check whether a key may sign a data name.

With a single key name, the key is checked against the data name
and the rules it chains to. With more key names, the names form a
signing chain that must be valid from a check rule to the last key.`,
		Args: cobra.MinimumNArgs(3),
		Example: `  lvsc check app.tlv /app/alice/data/1 /app/alice/KEY/k1
  lvsc check app.tlv /app/alice/data/1 /app/alice/KEY/k1 /app/KEY/root`,
		RunE: t.run,
	})
}

func (t *ToolCheck) run(cmd *cobra.Command, args []string) error {
	buf, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	schema, err := trust_schema.NewLvsSchema(buf)
	if err != nil {
		return err
	}

	names := make([]enc.Name, 0, len(args)-1)
	for _, arg := range args[1:] {
		name, err := enc.NameFromStr(arg)
		if err != nil {
			return fmt.Errorf("invalid name %s: %w", arg, err)
		}
		names = append(names, name)
	}

	var trusted bool
	if len(names) == 2 {
		trusted = schema.Check(names[0], names[1])
	} else {
		trusted = schema.CheckChain(names)
	}
	if !trusted {
		return ErrUntrusted
	}
	fmt.Fprintln(cmd.OutOrStdout(), "trusted")
	return nil
}
