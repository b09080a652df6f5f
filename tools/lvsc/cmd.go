package lvsc

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Tool holds the configuration shared by the lvsc commands.
type Tool struct {
	configFile string
	logLevel   string
	config     Config
}

// CmdLvsc returns the command tree of the schema compiler.
func CmdLvsc() *cobra.Command {
	t := &Tool{config: DefaultConfig()}
	cmd := &cobra.Command{
		Use:   "lvsc",
		Short: "Light VerSec trust schema compiler",
		Long: `Light VerSec trust schema compiler

Compiles LVS trust schemas into binary models and checks
names against compiled models.`,
		PersistentPreRunE: t.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	cmd.PersistentFlags().StringVar(&t.configFile, "config", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&t.logLevel, "log-level", "", "Log level (TRACE, DEBUG, INFO, WARN, ERROR)")

	(&ToolCompile{tool: t}).configure(cmd)
	(&ToolCheck{tool: t}).configure(cmd)
	(&ToolDump{tool: t}).configure(cmd)
	return cmd
}

func (t *Tool) setup(cmd *cobra.Command, _ []string) (err error) {
	if t.config, err = LoadConfig(t.configFile); err != nil {
		return err
	}
	if t.logLevel != "" {
		t.config.LogLevel = t.logLevel
	}
	return t.config.apply()
}

// readInput reads a whole file, or stdin when file is empty or "-".
func readInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(file)
}
