package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "faucon",
	Short: "x86-64 pipeline simulator and instruction-database cleanup tool",
	Long:  `faucon estimates the steady-state throughput of a basic block on a generic out-of-order x86-64 core, and cleans up a raw x86 instruction database into one with parsed, consistent encoding specifications.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(cleanupCmd)
}
