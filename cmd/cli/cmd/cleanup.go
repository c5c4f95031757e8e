package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/keurnel/faucon/internal/transform"
	"github.com/keurnel/faucon/internal/x86db"
	"github.com/keurnel/faucon/internal/xstatus"
)

var cleanupFlags struct {
	outputPath string
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup <input-yaml-path>",
	Short: "Parse and normalize a raw x86 instruction database",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCleanup(cmd, args[0]); err != nil {
			cmd.PrintErrln("Error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	cleanupCmd.Flags().StringVar(&cleanupFlags.outputPath, "output", "", "path to write the cleaned-up YAML database to (required)")
}

func runCleanup(cmd *cobra.Command, inputPath string) error {
	if cleanupFlags.outputPath == "" {
		return xstatus.InvalidArgumentf("--output is required")
	}

	db, err := x86db.LoadYAML(inputPath)
	if err != nil {
		return err
	}

	if err := transform.DefaultRegistry().Run(db, func(name string, err error) {
		cmd.PrintErrf("transform %s: %v\n", name, err)
	}); err != nil {
		return err
	}

	return x86db.DumpYAML(cleanupFlags.outputPath, db)
}
