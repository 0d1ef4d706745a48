package autofix

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/crackerjack-ci/crackerjack/pkg/executor"
	"github.com/crackerjack-ci/crackerjack/pkg/filefilter"
	"github.com/crackerjack-ci/crackerjack/pkg/hook"
	"github.com/crackerjack-ci/crackerjack/pkg/issue"
	"github.com/crackerjack-ci/crackerjack/pkg/logger"
)

var log = logger.New("autofix")

// DefaultNoProgressThreshold is the number of consecutive
// non-improving iterations the coordinator tolerates before declaring
// the loop stagnated (spec.md §4.8, "no_progress_threshold").
const DefaultNoProgressThreshold = 3

// Coordinator runs the fixed-point "run -> collect -> fix -> re-run"
// loop of spec.md §4.8, driving a fast and a comprehensive strategy
// on each iteration and handing their unioned, deduplicated issues to
// an external Fixer.
type Coordinator struct {
	Root string

	Fast          *executor.ParallelHookExecutor
	Comprehensive *executor.ParallelHookExecutor

	FastDefs          []hook.Definition
	ComprehensiveDefs []hook.Definition

	Fixer Fixer

	// NoProgressThreshold overrides DefaultNoProgressThreshold when
	// positive.
	NoProgressThreshold int
}

// New constructs a Coordinator. fast and comprehensive are expected
// to share a global semaphore (executor.ParallelHookExecutor.Global)
// so the two strategies contend for one process-wide concurrency
// budget when run side by side.
func New(root string, fast, comprehensive *executor.ParallelHookExecutor, fastDefs, comprehensiveDefs []hook.Definition, fixer Fixer) *Coordinator {
	return &Coordinator{
		Root:              root,
		Fast:              fast,
		Comprehensive:     comprehensive,
		FastDefs:          fastDefs,
		ComprehensiveDefs: comprehensiveDefs,
		Fixer:             fixer,
	}
}

func (c *Coordinator) threshold() int {
	if c.NoProgressThreshold > 0 {
		return c.NoProgressThreshold
	}
	return DefaultNoProgressThreshold
}

// Run drives the fixed-point loop to completion: either every issue
// is resolved (OutcomeSuccess) or no_progress_threshold consecutive
// iterations fail to reduce the issue count (OutcomeStagnated). There
// is no hard iteration cap, matching spec.md §4.8's algorithm.
func (c *Coordinator) Run(ctx context.Context, files filefilter.FileSet, taskID string) RunResult {
	previousCount := -1 // -1 sentinel: "no prior iteration", never counts as non-improving
	noProgress := 0
	iteration := 0

	for {
		results := c.runStrategies(ctx, files, taskID)
		issues := issue.Dedupe(c.collectIssues(results))

		if len(issues) == 0 {
			return RunResult{Outcome: OutcomeSuccess, Iterations: iteration}
		}

		if previousCount >= 0 && len(issues) >= previousCount {
			noProgress++
			if noProgress >= c.threshold() {
				return RunResult{Outcome: OutcomeStagnated, Iterations: iteration, RemainingIssues: issues}
			}
		} else {
			noProgress = 0
		}
		previousCount = len(issues)

		c.applyFixes(ctx, issues, results, taskID)
		iteration++
	}
}

// runStrategies runs the fast and comprehensive hook batches
// concurrently against the same file set, returning both result
// slices.
func (c *Coordinator) runStrategies(ctx context.Context, files filefilter.FileSet, taskID string) []hook.Result {
	var fastResults, compResults []hook.Result
	var wg sync.WaitGroup

	if c.Fast != nil && len(c.FastDefs) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fastResults = c.Fast.Run(ctx, c.FastDefs, files, taskID)
		}()
	}
	if c.Comprehensive != nil && len(c.ComprehensiveDefs) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			compResults = c.Comprehensive.Run(ctx, c.ComprehensiveDefs, files, taskID)
		}()
	}
	wg.Wait()

	all := make([]hook.Result, 0, len(fastResults)+len(compResults))
	all = append(all, fastResults...)
	all = append(all, compResults...)
	return all
}

// collectIssues gathers every parsed issue across results. A hook
// that passed with zero issues contributes nothing; Reconcile already
// guarantees IssuesCount == len(ParsedIssues) for every result.
func (c *Coordinator) collectIssues(results []hook.Result) []issue.Issue {
	var all []issue.Issue
	for _, r := range results {
		all = append(all, r.ParsedIssues...)
	}
	return all
}

// applyFixes analyzes and applies a fix plan for each issue in turn,
// validating every change before committing to it (spec.md §4.8.2).
// A FixResult is never trusted at face value: after a plan is applied
// and passes syntax validation, the hooks that originally flagged
// issues in the touched file are re-run against it, and the fix is
// rolled back unless that re-run shows genuine improvement. A
// rejected or failed fix does not block the remaining issues from
// being attempted.
func (c *Coordinator) applyFixes(ctx context.Context, issues []issue.Issue, results []hook.Result, taskID string) {
	defsByName := c.allDefsByName()

	for _, it := range issues {
		it.Type = RouteType(it)

		plan, err := c.Fixer.Analyze(it)
		if err != nil {
			log.Printf("analyze failed for %s:%d: %v", it.FilePath, it.LineNumber, err)
			continue
		}
		if len(plan.Changes) == 0 {
			continue
		}
		if err := validatePlanSize(plan); err != nil {
			log.Printf("rejected plan: %v", err)
			continue
		}

		fullPath := filepath.Join(c.Root, plan.FilePath)
		saved, err := backup(fullPath)
		if err != nil {
			log.Printf("skipping fix for %s: %v", plan.FilePath, err)
			continue
		}

		fixResult, err := c.Fixer.Apply(plan)
		if err != nil {
			log.Printf("apply failed for %s: %v", plan.FilePath, err)
			continue
		}
		if !fixResult.Success {
			log.Printf("fixer reported failure applying to %s, rolling back", plan.FilePath)
			_ = restore(fullPath, saved)
			continue
		}

		if err := validateSyntax(fullPath); err != nil {
			log.Printf("%v, rolling back", err)
			_ = restore(fullPath, saved)
			continue
		}
		if err := validateNoDuplicateDefinitions(fullPath); err != nil {
			log.Printf("%v, rolling back", err)
			_ = restore(fullPath, saved)
			continue
		}

		before := countIssuesForFile(issues, plan.FilePath)
		after := c.rerunHooks(ctx, defsByName, hooksCoveringFile(results, plan.FilePath), plan.FilePath, taskID)
		if after >= before {
			log.Printf("fix for %s showed no improvement on re-run (before=%d, after=%d), rolling back", plan.FilePath, before, after)
			_ = restore(fullPath, saved)
			continue
		}
	}
}

// allDefsByName indexes every known hook.Definition by name, so a
// re-run can look up the exact definition that originally flagged an
// issue.
func (c *Coordinator) allDefsByName() map[string]hook.Definition {
	m := make(map[string]hook.Definition, len(c.FastDefs)+len(c.ComprehensiveDefs))
	for _, d := range c.FastDefs {
		m[d.Name] = d
	}
	for _, d := range c.ComprehensiveDefs {
		m[d.Name] = d
	}
	return m
}

// rerunExecutor returns the shared single-hook executor backing
// whichever strategy is configured, for scoped re-runs after a fix.
func (c *Coordinator) rerunExecutor() *executor.HookExecutor {
	if c.Fast != nil && c.Fast.Executor != nil {
		return c.Fast.Executor
	}
	if c.Comprehensive != nil && c.Comprehensive.Executor != nil {
		return c.Comprehensive.Executor
	}
	return nil
}

// rerunHooks re-runs names (the hooks that originally reported issues
// in filePath) scoped to just that file, and returns the total number
// of issues they report against it now (spec.md §4.8.2: "re-run
// showing regressions ... restore the backup").
func (c *Coordinator) rerunHooks(ctx context.Context, defsByName map[string]hook.Definition, names []string, filePath, taskID string) int {
	exec := c.rerunExecutor()
	if exec == nil || len(names) == 0 {
		return 0
	}

	scoped := filefilter.FileSet{filePath}
	total := 0
	for _, name := range names {
		def, ok := defsByName[name]
		if !ok {
			continue
		}
		result := exec.RunWithRetry(ctx, def, scoped, taskID)
		total += len(result.ParsedIssues)
	}
	return total
}

// hooksCoveringFile returns the (deduplicated) names of hooks whose
// results reported at least one issue against filePath.
func hooksCoveringFile(results []hook.Result, filePath string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range results {
		for _, it := range r.ParsedIssues {
			if it.FilePath != filePath {
				continue
			}
			if _, ok := seen[r.HookName]; !ok {
				seen[r.HookName] = struct{}{}
				names = append(names, r.HookName)
			}
			break
		}
	}
	return names
}

// countIssuesForFile tallies how many issues in the set reference
// filePath.
func countIssuesForFile(issues []issue.Issue, filePath string) int {
	n := 0
	for _, it := range issues {
		if it.FilePath == filePath {
			n++
		}
	}
	return n
}
