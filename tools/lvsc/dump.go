package lvsc

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/named-data/lvsc/std/lvs/binfmt"
	"github.com/named-data/lvsc/std/lvs/model"
	"github.com/named-data/lvsc/std/lvs/pattern"
	"github.com/named-data/lvsc/std/utils/toolutils"
	"github.com/spf13/cobra"
)

const (
	formatYaml = "yaml"
	formatJson = "json"
	formatInfo = "info"
)

type ToolDump struct {
	tool   *Tool
	format string
}

func (t *ToolDump) configure(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "dump [MODEL-FILE]",
		Short: "Print a compiled model",
		Long: `Decode a binary model and print its tables.

The info format prints only a summary of the model.`,
		Args:    cobra.MaximumNArgs(1),
		Example: `  lvsc dump app.tlv --format json`,
		RunE:    t.run,
	}
	cmd.Flags().StringVar(&t.format, "format", "", "Output format (yaml, json, info)")
	root.AddCommand(cmd)
}

type dumpModel struct {
	Version     int        `json:"version" yaml:"version"`
	Fingerprint string     `json:"fingerprint" yaml:"fingerprint"`
	Types       []dumpType `json:"types" yaml:"types"`
	Rules       []dumpRule `json:"rules" yaml:"rules"`
	Checks      []string   `json:"checks" yaml:"checks"`
}

type dumpType struct {
	Name    string   `json:"name" yaml:"name"`
	Pattern []string `json:"pattern" yaml:"pattern"`
}

type dumpRule struct {
	Name    string       `json:"name" yaml:"name"`
	Data    []string     `json:"data" yaml:"data"`
	Signers []dumpSigner `json:"signers" yaml:"signers"`
}

type dumpSigner struct {
	Pattern        []string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Chain          string   `json:"chain,omitempty" yaml:"chain,omitempty"`
	Correspondence []string `json:"correspondence,omitempty" yaml:"correspondence,omitempty"`
}

func (t *ToolDump) run(cmd *cobra.Command, args []string) error {
	file := ""
	if len(args) > 0 {
		file = args[0]
	}
	buf, err := readInput(cmd, file)
	if err != nil {
		return err
	}
	m, err := binfmt.Decode(buf)
	if err != nil {
		return err
	}

	format := t.format
	if format == "" {
		format = t.tool.config.Format
	}
	out := cmd.OutOrStdout()
	dump := newDump(m, buf)

	switch format {
	case formatInfo:
		p := toolutils.StatusPrinter{File: out, Padding: 12}
		p.Print("version", dump.Version)
		p.Print("fingerprint", dump.Fingerprint)
		p.Print("size", len(buf))
		p.Print("types", len(m.Types))
		p.Print("rules", len(m.Rules))
		p.Print("checks", len(m.Checks))
		return nil
	case formatJson:
		text, err := json.MarshalIndent(dump, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(text))
		return err
	case formatYaml:
		text, err := yaml.Marshal(dump)
		if err != nil {
			return err
		}
		_, err = out.Write(text)
		return err
	default:
		return fmt.Errorf("invalid dump format: %q", format)
	}
}

func newDump(m *model.Model, buf []byte) dumpModel {
	d := dumpModel{
		Version:     int(binfmt.Version),
		Fingerprint: fmt.Sprintf("%016x", binfmt.Fingerprint(buf)),
		Types:       make([]dumpType, 0, len(m.Types)),
		Rules:       make([]dumpRule, 0, len(m.Rules)),
		Checks:      m.Checks,
	}
	for _, ty := range m.Types {
		d.Types = append(d.Types, dumpType{Name: ty.Name, Pattern: alts(ty.Matcher)})
	}
	for _, r := range m.Rules {
		rule := dumpRule{Name: r.Name, Data: alts(r.Data)}
		for _, sc := range r.Signers {
			if sc.IsChain() {
				rule.Signers = append(rule.Signers, dumpSigner{Chain: sc.Chain, Correspondence: sc.Correspondence})
			} else {
				rule.Signers = append(rule.Signers, dumpSigner{Pattern: alts(sc.Pattern)})
			}
		}
		d.Rules = append(d.Rules, rule)
	}
	return d
}

func alts(m *pattern.Matcher) []string {
	ret := make([]string, len(m.Alts))
	for i, a := range m.Alts {
		ret[i] = a.String()
	}
	return ret
}
