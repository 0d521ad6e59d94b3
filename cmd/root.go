package cmd

import (
	"os"

	"github.com/heirloom-labs/heirloom/logx"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "heirloom",
	Short: "Heirloom inheritance vault CLI",
	Long:  "Command line interface for creating and consuming time-locked inheritance notes on a note ledger.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
