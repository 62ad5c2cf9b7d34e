package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oversip/oversip/internal/master"
	"github.com/oversip/oversip/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "oversip",
	Short:         "OverSIP -- SIP server master process",
	Long:          "OverSIP bootstraps and supervises a long-running SIP server daemon.",
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMaster,
}

func main() {
	// Phase one of signal handling: the deferred set must be trapped
	// before any option is consumed.
	master.PreTrapSignals()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
