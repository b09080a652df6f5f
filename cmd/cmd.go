package cmd

import (
	"github.com/named-data/lvsc/tools/lvsc"
	"github.com/spf13/cobra"
)

// Version from source control, set at link time.
var Version string = "unknown"

const banner = `
  _ __     __ ____
 | |\ \   / // ___|  ___
 | | \ \ / / \___ \ / __|
 | |__\ V /   ___) | (__
 |_____\_/   |____/ \___|

Light VerSec Trust Schema Compiler
`

// CmdLvsc is the root command of the compiler binary.
var CmdLvsc = lvsc.CmdLvsc()

func init() {
	cobra.EnableCommandSorting = false
	CmdLvsc.Long = banner[1:]
	CmdLvsc.Version = Version
	CmdLvsc.Root().CompletionOptions.HiddenDefaultCmd = true
	CmdLvsc.PersistentFlags().BoolP("help", "h", false, "Print usage")
	CmdLvsc.PersistentFlags().Lookup("help").Hidden = true
}
