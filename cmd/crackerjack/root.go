package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	flagRoot    string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:     "crackerjack",
	Short:   "Quality-gate orchestration engine",
	Version: version,
	Long: `crackerjack orchestrates formatters, linters, security scanners,
and test runners across a project, caches their results, drives an
autofix convergence loop, and enforces a ratcheted quality gate.

Common tasks:
  crackerjack check             # run the configured strategy once
  crackerjack autofix           # run the fixed-point repair loop
  crackerjack gate              # evaluate externally-measured metrics`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", ".", "project root directory")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "show per-issue detail in the console report")
	rootCmd.SetOut(os.Stderr)
}

// fatal prints a named error kind plus the underlying error and exits
// with the infrastructure-error code (spec.md §6, exit code 3).
func fatal(kind string, err error) {
	fmt.Fprintf(os.Stderr, "crackerjack: %s: %v\n", kind, err)
	os.Exit(3)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(3)
	}
}
