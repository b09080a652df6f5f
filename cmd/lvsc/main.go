package main

import (
	"fmt"
	"os"

	"github.com/named-data/lvsc/cmd"
)

func main() {
	if err := cmd.CmdLvsc.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
