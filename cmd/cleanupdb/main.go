// Command cleanupdb parses and normalizes a raw x86 instruction database,
// mirroring the offline instruction-database cleanup tool the upstream
// project ships alongside faucon. Unlike cmd/faucon it has no sub-commands
// of its own, so it parses flags directly rather than pulling in the shared
// cmd/cli/cmd Cobra tree.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/keurnel/faucon/internal/transform"
	"github.com/keurnel/faucon/internal/x86db"
	"github.com/keurnel/faucon/internal/xstatus"
)

var outputPath = pflag.String("output", "", "path to write the cleaned-up YAML database to (required)")

func main() {
	pflag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	if pflag.NArg() != 1 {
		return xstatus.InvalidArgumentf("usage: cleanupdb [--output path] <input-yaml-path>")
	}
	if *outputPath == "" {
		return xstatus.InvalidArgumentf("--output is required")
	}

	db, err := x86db.LoadYAML(pflag.Arg(0))
	if err != nil {
		return err
	}

	if err := transform.DefaultRegistry().Run(db, func(name string, err error) {
		fmt.Fprintf(os.Stderr, "transform %s: %v\n", name, err)
	}); err != nil {
		return err
	}

	return x86db.DumpYAML(*outputPath, db)
}
