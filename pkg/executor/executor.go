// Package executor runs a single hook.Definition as a subprocess and
// turns its outcome into a canonical hook.Result (spec.md §4.4), and
// schedules a batch of hooks with the formatter-before-analyzer
// ordering constraint (spec.md §4.6).
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/crackerjack-ci/crackerjack/pkg/cache"
	"github.com/crackerjack-ci/crackerjack/pkg/filefilter"
	"github.com/crackerjack-ci/crackerjack/pkg/hook"
	"github.com/crackerjack-ci/crackerjack/pkg/lock"
	"github.com/crackerjack-ci/crackerjack/pkg/logger"
	"github.com/crackerjack-ci/crackerjack/pkg/parser"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/semaphore"
)

var log = logger.New("executor")

// HookExecutor runs one hook.Definition at a time against a file set.
type HookExecutor struct {
	Root    string
	Cache   *cache.ResultCache
	Locks   *lock.Manager
	Parsers *parser.Registry
}

// New constructs a HookExecutor rooted at root, sharing the given
// cache, lock manager, and parser registry with the rest of the run.
func New(root string, c *cache.ResultCache, locks *lock.Manager, parsers *parser.Registry) *HookExecutor {
	return &HookExecutor{Root: root, Cache: c, Locks: locks, Parsers: parsers}
}

// Run executes def against files once, implementing the algorithm in
// spec.md §4.4 steps 1-9. taskID scopes lock reentrancy (spec.md
// §4.5) to the caller's run/iteration.
func (e *HookExecutor) Run(ctx context.Context, def hook.Definition, files filefilter.FileSet, taskID string) hook.Result {
	scoped := filefilter.FilterByHook(files, def)

	fingerprint, fpErr := cache.Fingerprint(def, scoped, e.readFile)
	if fpErr == nil && e.Cache != nil {
		if result, ok := e.Cache.Lookup(fingerprint); ok {
			return result
		}
	}

	result := e.runOnce(ctx, def, scoped, taskID)

	if fpErr == nil && e.Cache != nil {
		e.Cache.Store(fingerprint, scoped, result)
	}
	return result
}

// RunWithRetry wraps Run with def.Retry's policy: a timeout or
// infrastructure error may be retried before being handed back to the
// coordinator (spec.md §4.4 "Failure semantics").
func (e *HookExecutor) RunWithRetry(ctx context.Context, def hook.Definition, files filefilter.FileSet, taskID string) hook.Result {
	var result hook.Result
	for attempt := 0; ; attempt++ {
		result = e.Run(ctx, def, files, taskID)
		if !def.Retry.ShouldRetry(result.Status, attempt) {
			return result
		}
		log.Printf("retrying hook %s (attempt %d) after status=%s", def.Name, attempt+1, result.Status)
	}
}

func (e *HookExecutor) runOnce(ctx context.Context, def hook.Definition, files filefilter.FileSet, taskID string) hook.Result {
	if def.RequiresLock && e.Locks != nil {
		guard, err := e.Locks.Acquire(ctx, def.Name, taskID)
		if err != nil {
			return hook.Result{HookName: def.Name, Status: hook.StatusError, ErrorDetail: err.Error()}
		}
		defer guard.Release()
	}

	args := buildCommand(def, files)
	if len(args) == 0 {
		return hook.Result{HookName: def.Name, Status: hook.StatusError, ErrorDetail: "empty command template"}
	}

	runCtx, cancel := context.WithTimeout(ctx, def.Timeout())
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	cmd.Dir = e.Root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	duration := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		return hook.Result{
			HookName:    def.Name,
			Status:      hook.StatusTimeout,
			Duration:    duration,
			Stdout:      stdout.String(),
			Stderr:      stderr.String(),
			ErrorDetail: fmt.Sprintf("hook %s exceeded %s timeout", def.Name, def.Timeout()),
		}
	}

	exitCode := 0
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return hook.Result{
				HookName:    def.Name,
				Status:      hook.StatusError,
				Duration:    duration,
				Stdout:      stdout.String(),
				Stderr:      stderr.String(),
				ErrorDetail: runErr.Error(),
			}
		}
	}

	status := hook.StatusPassed
	if exitCode != 0 {
		status = hook.StatusFailed
	}

	result := hook.Result{
		HookName:     def.Name,
		Status:       status,
		ExitCode:     exitCode,
		Duration:     duration,
		Stdout:       stdout.String(),
		Stderr:       stderr.String(),
		FilesScanned: files,
	}

	if e.Parsers != nil && def.ParserID != "" {
		preferJSON := def.JSONFlag != "" || def.OutputFormatHint == hook.OutputJSON
		issues, err := e.Parsers.Dispatch(def.ParserID, preferJSON, def.CountValidation.Skip, result.Stdout, result.Stderr)
		if err != nil {
			result.Status = hook.StatusError
			result.ErrorDetail = err.Error()
			return result
		}
		result.ParsedIssues = issues

		if def.Classification == hook.ClassReporter && len(issues) > 0 {
			result.Status = hook.StatusFailed
		}
	}

	result.Reconcile()
	return result
}

func (e *HookExecutor) readFile(relPath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(e.Root, relPath))
}

// buildCommand substitutes the "{files}" placeholder in def's command
// template with the scoped file set (only when def.AcceptsFilePaths),
// and appends def.JSONFlag when set, unless the template already
// carries that exact argument.
func buildCommand(def hook.Definition, files filefilter.FileSet) []string {
	var args []string
	hasJSONFlag := false
	for _, part := range def.CommandTemplate {
		if part == "{files}" {
			if def.AcceptsFilePaths {
				args = append(args, []string(files)...)
			}
			continue
		}
		if def.JSONFlag != "" && part == def.JSONFlag {
			hasJSONFlag = true
		}
		args = append(args, part)
	}
	if def.JSONFlag != "" && !hasJSONFlag {
		args = append(args, def.JSONFlag)
	}
	return args
}

// ParallelHookExecutor runs a batch of hook definitions with bounded
// concurrency, enforcing that every formatter completes before any
// analyzer starts (spec.md §4.6).
type ParallelHookExecutor struct {
	Executor   *HookExecutor
	MaxWorkers int

	// Global, if set, is a process-wide concurrency budget shared
	// across every ParallelHookExecutor in the run (e.g. the fast and
	// comprehensive strategies dispatched side by side by
	// AutofixCoordinator). MaxWorkers alone only bounds one strategy's
	// own pool; Global additionally caps total in-flight subprocesses
	// across strategies sharing the same CPU/IO budget.
	Global *semaphore.Weighted
}

// NewParallel constructs a ParallelHookExecutor sharing executor,
// bounding concurrency to maxWorkers in-flight hooks.
func NewParallel(executor *HookExecutor, maxWorkers int) *ParallelHookExecutor {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	return &ParallelHookExecutor{Executor: executor, MaxWorkers: maxWorkers}
}

// WithGlobalSemaphore attaches a shared, process-wide concurrency
// budget that every hook invocation acquires one unit from in
// addition to this executor's own MaxWorkers bound.
func (p *ParallelHookExecutor) WithGlobalSemaphore(global *semaphore.Weighted) *ParallelHookExecutor {
	p.Global = global
	return p
}

// Run executes defs against files, returning one hook.Result per
// definition in definition order regardless of completion order.
func (p *ParallelHookExecutor) Run(ctx context.Context, defs []hook.Definition, files filefilter.FileSet, taskID string) []hook.Result {
	var formatters, rest []hook.Definition
	for _, d := range defs {
		if d.Classification == hook.ClassFormatter {
			formatters = append(formatters, d)
		} else {
			rest = append(rest, d)
		}
	}

	results := make(map[string]hook.Result, len(defs))

	p.runPhase(ctx, formatters, files, taskID, results)
	p.runPhase(ctx, rest, files, taskID, results)

	ordered := make([]hook.Result, 0, len(defs))
	for _, d := range defs {
		ordered = append(ordered, results[d.Name])
	}
	return ordered
}

func (p *ParallelHookExecutor) runPhase(ctx context.Context, defs []hook.Definition, files filefilter.FileSet, taskID string, results map[string]hook.Result) {
	if len(defs) == 0 {
		return
	}

	type outcome struct {
		name   string
		result hook.Result
	}

	wp := pool.NewWithResults[outcome]().WithMaxGoroutines(p.MaxWorkers)
	for _, d := range defs {
		d := d
		wp.Go(func() outcome {
			if p.Global != nil {
				if err := p.Global.Acquire(ctx, 1); err != nil {
					return outcome{name: d.Name, result: hook.Result{HookName: d.Name, Status: hook.StatusError, ErrorDetail: err.Error()}}
				}
				defer p.Global.Release(1)
			}
			return outcome{name: d.Name, result: p.Executor.RunWithRetry(ctx, d, files, taskID)}
		})
	}

	for _, o := range wp.Wait() {
		results[o.name] = o.result
	}
}
