package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crackerjack-ci/crackerjack/pkg/config"
	"github.com/crackerjack-ci/crackerjack/pkg/gate"
	"github.com/crackerjack-ci/crackerjack/pkg/issue"
	"github.com/spf13/cobra"
)

var flagMetricsFile string

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Evaluate externally-measured metrics against the quality gate",
	Long: `gate evaluates a standalone Metrics JSON file (coverage,
complexity, duplication, doc/type-hint coverage) against the
configured tier and ratchet, without running any hooks itself.

This lets a CI pipeline run its own coverage/complexity tooling and
feed the numbers to crackerjack for the pass/fail decision, since
this engine does not analyze source code itself.`,
	RunE: runGate,
}

func init() {
	gateCmd.Flags().StringVar(&flagMetricsFile, "metrics", "", "path to a JSON file containing gate.Metrics (required)")
	rootCmd.AddCommand(gateCmd)
}

func runGate(cmd *cobra.Command, args []string) error {
	if flagMetricsFile == "" {
		return fmt.Errorf("gate: --metrics is required")
	}

	root, err := filepath.Abs(flagRoot)
	if err != nil {
		fatal("InvalidRoot", err)
	}

	data, err := os.ReadFile(flagMetricsFile)
	if err != nil {
		fatal("MetricsFileUnreadable", err)
	}
	var metrics gate.Metrics
	if err := json.Unmarshal(data, &metrics); err != nil {
		fatal("MetricsFileInvalid", err)
	}

	settings, err := config.Load(root)
	if err != nil {
		fatal("ConfigInvalid", err)
	}

	exemptions, err := gate.LoadExemptions(filepath.Join(root, settings.QualityGateExemptionsFile))
	if err != nil {
		fatal("ConfigInvalid", err)
	}
	g := gate.New(gate.Tier(settings.QualityGateTier), settings.QualityGateRatchetEnabled,
		filepath.Join(root, ".quality_baseline.json"), exemptions)

	result, err := g.Evaluate(metrics, []issue.Issue{}, hasPublishedPackageMarker(root), hasExecutableEntryPoint(root))
	if err != nil {
		fatal("GateEvaluationFailure", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fatal("ReportEncodingFailure", err)
		}
	} else {
		fmt.Printf("gate: tier=%s passed=%v\n", result.Tier, result.Passed)
		for _, v := range result.Violations {
			fmt.Printf("  violation: %s\n", v)
		}
		for _, w := range result.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
	}

	if !result.Passed {
		os.Exit(2)
	}
	return nil
}
