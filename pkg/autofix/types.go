// Package autofix drives the fixed-point "run -> collect issues ->
// fix -> re-run" loop described in spec.md §4.8, delegating the
// actual code changes to an external Fixer (an LLM agent in
// production, a stub in tests).
package autofix

import "github.com/crackerjack-ci/crackerjack/pkg/issue"

// Risk classifies how invasive a FixPlan's changes are.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Change is one edit within a FixPlan: replace the code spanning
// [LineStart, LineEnd] (1-indexed, inclusive) with NewCode.
type Change struct {
	LineStart int    `json:"line_start"`
	LineEnd   int    `json:"line_end"`
	OldCode   string `json:"old_code,omitempty"`
	NewCode   string `json:"new_code,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// LineSpan reports how many source lines this change touches, for
// the diff-size guard (spec.md §4.8.2).
func (c Change) LineSpan() int {
	if c.LineEnd < c.LineStart {
		return 1
	}
	return c.LineEnd - c.LineStart + 1
}

// FixPlan is the external fixer's proposed remedy for one Issue
// (spec.md §3).
type FixPlan struct {
	FilePath  string   `json:"file_path"`
	Changes   []Change `json:"changes"`
	Rationale string   `json:"rationale,omitempty"`
	Risk      Risk     `json:"risk,omitempty"`
}

// FixResult reports what applying a FixPlan actually did (spec.md
// §3). The coordinator never trusts Success at face value — every
// FixResult is corroborated by re-running the relevant hooks.
type FixResult struct {
	Success         bool          `json:"success"`
	Confidence      float64       `json:"confidence,omitempty"`
	ModifiedFiles   []string      `json:"modified_files,omitempty"`
	FixesApplied    int           `json:"fixes_applied"`
	RemainingIssues []issue.Issue `json:"remaining_issues,omitempty"`
}

// Fixer is the external collaborator (an LLM agent in production)
// that proposes and applies fixes. The coordinator treats every
// FixResult as a claim to be verified, never as ground truth.
type Fixer interface {
	Analyze(issue issue.Issue) (FixPlan, error)
	Apply(plan FixPlan) (FixResult, error)
}

// Outcome is the terminal state of one Coordinator.Run call.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeStagnated Outcome = "stagnated"
)

// RunResult summarizes a full fixed-point loop.
type RunResult struct {
	Outcome         Outcome
	Iterations      int
	RemainingIssues []issue.Issue
}
