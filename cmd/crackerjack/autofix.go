package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crackerjack-ci/crackerjack/pkg/autofix"
	"github.com/crackerjack-ci/crackerjack/pkg/cache"
	"github.com/crackerjack-ci/crackerjack/pkg/config"
	"github.com/crackerjack-ci/crackerjack/pkg/executor"
	"github.com/crackerjack-ci/crackerjack/pkg/filefilter"
	"github.com/crackerjack-ci/crackerjack/pkg/hook"
	"github.com/crackerjack-ci/crackerjack/pkg/lock"
	"github.com/crackerjack-ci/crackerjack/pkg/parser"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"
)

var flagFixerCommand string

var autofixCmd = &cobra.Command{
	Use:   "autofix",
	Short: "Run the fixed-point fast+comprehensive repair loop",
	Long: `autofix drives fast and comprehensive strategies to convergence,
handing each iteration's deduplicated issues to an external fixer.

This engine never generates fixes itself (that's the fixer's job).
--fixer-command names a program speaking the analyze/apply JSON
protocol over stdin/stdout (see pkg/autofix.ShellFixer); without it,
autofix has nothing to call and refuses to run.`,
	RunE: runAutofix,
}

func init() {
	autofixCmd.Flags().StringVar(&flagFixerCommand, "fixer-command", "", "external fixer program (space-separated argv)")
	rootCmd.AddCommand(autofixCmd)
}

func runAutofix(cmd *cobra.Command, args []string) error {
	if flagFixerCommand == "" {
		return fmt.Errorf("autofix: --fixer-command is required (this engine does not generate fixes itself)")
	}

	root, err := filepath.Abs(flagRoot)
	if err != nil {
		fatal("InvalidRoot", err)
	}

	settings, err := config.Load(root)
	if err != nil {
		fatal("ConfigInvalid", err)
	}
	if !settings.AutofixEnabled {
		return fmt.Errorf("autofix: autofix.enabled is false in configuration")
	}

	filter := filefilter.New(root, defaultIgnorePatterns, settings.BaseBranch)
	scope := filefilter.ScopeAuto
	if !settings.Incremental {
		scope = filefilter.ScopeFull
	}
	files, err := filter.FilesForScan(scope, settings.FullScanThreshold, settings.BaseBranch)
	if err != nil {
		fatal("FileFilterFailure", err)
	}

	var resultCache *cache.ResultCache
	if settings.CacheEnabled {
		resultCache = cache.New(filepath.Join(root, ".crackerjack_cache"), settings.CacheSizeBudgetBytes)
	}
	locks := lock.New(filepath.Join(root, ".locks"), 30*time.Second)
	registry := parser.NewRegistry()
	exec := executor.New(root, resultCache, locks, registry)

	global := semaphore.NewWeighted(int64(settings.ParallelMaxWorkers))
	fast := executor.NewParallel(exec, settings.ParallelMaxWorkers).WithGlobalSemaphore(global)
	comprehensive := executor.NewParallel(exec, settings.ParallelMaxWorkers).WithGlobalSemaphore(global)

	fixer := autofix.ShellFixer{Command: strings.Fields(flagFixerCommand), Timeout: 60 * time.Second}

	coordinator := autofix.New(root, fast, comprehensive, hook.FastHooks, hook.ComprehensiveHooks, fixer)
	coordinator.NoProgressThreshold = settings.AutofixNoProgressThreshold

	result := coordinator.Run(context.Background(), files, "autofix")

	fmt.Printf("autofix: %s after %d iteration(s), %d issue(s) remaining\n", result.Outcome, result.Iterations, len(result.RemainingIssues))
	for _, it := range result.RemainingIssues {
		fmt.Printf("  %s:%d %s\n", it.FilePath, it.LineNumber, it.Message)
	}

	if result.Outcome == autofix.OutcomeStagnated {
		os.Exit(1)
	}
	return nil
}
