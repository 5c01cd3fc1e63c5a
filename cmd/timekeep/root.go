package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "timekeep",
	Short: "Sync backend for the time tracker client",
	Long: `Timekeep persists task records pushed by the time tracker client
and serves the current state back over HTTP.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
