package autofix

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/crackerjack-ci/crackerjack/pkg/cache"
	"github.com/crackerjack-ci/crackerjack/pkg/executor"
	"github.com/crackerjack-ci/crackerjack/pkg/filefilter"
	"github.com/crackerjack-ci/crackerjack/pkg/hook"
	"github.com/crackerjack-ci/crackerjack/pkg/issue"
	"github.com/crackerjack-ci/crackerjack/pkg/lock"
	"github.com/crackerjack-ci/crackerjack/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFixer reports every Apply as one successful fix without writing
// any file itself; it counts Apply calls and runs the optional onApply
// hook, through which tests change files or observe plans without a
// real external agent.
type fakeFixer struct {
	applyCalls int
	onApply    func(plan FixPlan)
}

func (f *fakeFixer) Analyze(it issue.Issue) (FixPlan, error) {
	return FixPlan{
		FilePath: it.FilePath,
		Changes:  []Change{{LineStart: 1, LineEnd: 1, NewCode: "package a\n"}},
		Risk:     RiskLow,
	}, nil
}

func (f *fakeFixer) Apply(plan FixPlan) (FixResult, error) {
	f.applyCalls++
	if f.onApply != nil {
		f.onApply(plan)
	}
	return FixResult{Success: true, FixesApplied: 1, ModifiedFiles: []string{plan.FilePath}}, nil
}

func newTestCoordinator(t *testing.T, root string, fastCmd, compCmd []string, fixer Fixer) *Coordinator {
	t.Helper()
	c := cache.New("", 0)
	locks := lock.New(t.TempDir(), time.Second)
	registry := parser.NewRegistry()
	exec := executor.New(root, c, locks, registry)

	fastDefs := []hook.Definition{{
		Name:             "fast-reporter",
		CommandTemplate:  fastCmd,
		TimeoutSeconds:   5,
		Classification:   hook.ClassReporter,
		ParserID:         "deadcode-json",
		OutputFormatHint: hook.OutputJSON,
		AcceptsFilePaths: false,
	}}
	compDefs := []hook.Definition{{
		Name:             "comp-reporter",
		CommandTemplate:  compCmd,
		TimeoutSeconds:   5,
		Classification:   hook.ClassReporter,
		ParserID:         "deadcode-json",
		OutputFormatHint: hook.OutputJSON,
		AcceptsFilePaths: false,
	}}

	return New(root, executor.NewParallel(exec, 2), executor.NewParallel(exec, 2), fastDefs, compDefs, fixer)
}

func TestCoordinatorSucceedsWhenNoIssuesFound(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n"), 0o644))

	empty := []string{"echo", "[]"}
	coord := newTestCoordinator(t, root, empty, empty, &fakeFixer{})

	result := coord.Run(context.Background(), filefilter.FileSet{"a.go"}, "task-1")
	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, 0, result.Iterations)
}

func TestCoordinatorStagnatesWhenIssuesNeverClear(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n"), 0o644))

	payload := `[{"name":"helper","kind":"function","position":{"file":"a.go","line":1,"column":1}}]`
	cmd := []string{"echo", payload}

	fixer := &fakeFixer{}
	coord := newTestCoordinator(t, root, cmd, cmd, fixer)
	coord.NoProgressThreshold = 2

	result := coord.Run(context.Background(), filefilter.FileSet{"a.go"}, "task-1")
	assert.Equal(t, OutcomeStagnated, result.Outcome)
	assert.NotEmpty(t, result.RemainingIssues)
	assert.True(t, fixer.applyCalls > 0, "fixer should have been asked to apply at least one fix before giving up")
}

func TestCoordinatorDedupesIssuesAcrossStrategies(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n"), 0o644))

	payload := `[{"name":"helper","kind":"function","position":{"file":"a.go","line":1,"column":1}}]`
	cmd := []string{"echo", payload}

	var seenIssueCounts []int
	fixer := &fakeFixer{onApply: func(plan FixPlan) {}}
	coord := newTestCoordinator(t, root, cmd, cmd, fixer)
	coord.NoProgressThreshold = 1

	results := coord.runStrategies(context.Background(), filefilter.FileSet{"a.go"}, "task-1")
	issues := issue.Dedupe(coord.collectIssues(results))
	seenIssueCounts = append(seenIssueCounts, len(issues))

	// Both strategies report the identical finding; dedupe must collapse
	// the two down to one.
	assert.Equal(t, []int{1}, seenIssueCounts)
}
