package console

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crackerjack-ci/crackerjack/pkg/hook"
	"github.com/crackerjack-ci/crackerjack/pkg/issue"
)

// severityOrder defines the display order for severity levels, most
// urgent first.
var severityOrder = []issue.Severity{
	issue.SeverityCritical,
	issue.SeverityHigh,
	issue.SeverityMedium,
	issue.SeverityLow,
}

// GateOutcome is the subset of a quality-gate verdict the console
// report needs to render. It mirrors spec.md §4.9's GateResult shape
// without importing pkg/gate, keeping this package's only domain
// dependencies the two it actually renders: hook and issue.
type GateOutcome struct {
	Passed     bool
	Tier       string
	Violations []string
	Warnings   []string
}

// RunSummary aggregates one end-to-end run (hook execution, the
// issues it surfaced, and the resulting gate verdict) for
// FormatRunSummary to render.
type RunSummary struct {
	Results []hook.Result
	Gate    *GateOutcome // nil when the gate was not evaluated
	Verbose bool
}

// FormatRunSummary formats a full run into the report cmd/crackerjack
// prints after all hooks and the quality gate have finished: per-hook
// status lines, an issue count broken down by severity, and the gate
// verdict.
func FormatRunSummary(summary RunSummary) string {
	var out strings.Builder

	allIssues := collectIssues(summary.Results)

	out.WriteString(applyStyle(styleHeader, "Hook Results"))
	out.WriteString("\n")
	out.WriteString(formatHookLines(summary.Results))
	out.WriteString("\n")

	if len(allIssues) > 0 {
		out.WriteString(applyStyle(styleHeader, "Issues by Severity"))
		out.WriteString("\n")
		out.WriteString(formatSeverityCounts(allIssues))
		out.WriteString("\n")
	}

	if summary.Verbose && len(allIssues) > 0 {
		out.WriteString(applyStyle(styleHeader, "Details"))
		out.WriteString("\n")
		out.WriteString(formatIssueDetails(allIssues))
		out.WriteString("\n")
	}

	if summary.Gate != nil {
		out.WriteString(FormatGateOutcome(*summary.Gate))
	}

	return out.String()
}

func collectIssues(results []hook.Result) []issue.Issue {
	var all []issue.Issue
	for _, r := range results {
		all = append(all, r.ParsedIssues...)
	}
	return all
}

func formatHookLines(results []hook.Result) string {
	var out strings.Builder
	for _, r := range results {
		var statusText string
		style := styleMuted
		switch r.Status {
		case hook.StatusPassed:
			statusText = "PASS"
			style = styleSuccess
		case hook.StatusFailed:
			statusText = "FAIL"
			style = styleFailure
		case hook.StatusSkipped:
			statusText = "SKIP"
		case hook.StatusTimeout:
			statusText = "TIMEOUT"
			style = styleFailure
		case hook.StatusError:
			statusText = "ERROR"
			style = styleFailure
		}

		line := fmt.Sprintf("  %-8s %-24s %s", applyStyle(style, statusText), r.HookName, FormatDuration(r.Duration))
		if r.IssuesCount > 0 {
			line += fmt.Sprintf("  (%d issue(s))", r.IssuesCount)
		}
		if r.CacheHit {
			line += "  [cached]"
		}
		out.WriteString(line)
		out.WriteString("\n")
	}
	return out.String()
}

func formatSeverityCounts(issues []issue.Issue) string {
	counts := issue.CountBySeverity(issues)

	var out strings.Builder
	for _, sev := range severityOrder {
		if n := counts[sev]; n > 0 {
			label := strings.ToUpper(string(sev))
			out.WriteString(fmt.Sprintf("  %s: %d\n", applyStyle(severityStyle(string(sev)), label), n))
		}
	}
	return out.String()
}

func formatIssueDetails(issues []issue.Issue) string {
	sorted := make([]issue.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() < sorted[j].Severity.Rank()
	})

	width := reportWidth()

	var out strings.Builder
	for _, iss := range sorted {
		location := iss.FilePath
		if iss.LineNumber > 0 {
			location = fmt.Sprintf("%s:%d", location, iss.LineNumber)
		}
		prefix := fmt.Sprintf("  [%s] %s: ", strings.ToUpper(string(iss.Severity)), location)
		maxMsg := width - len(prefix)
		if maxMsg < 10 {
			maxMsg = 10
		}
		out.WriteString(prefix)
		out.WriteString(TruncateString(iss.Message, maxMsg))
		out.WriteString("\n")
	}
	return out.String()
}

// FormatGateOutcome formats the final quality-gate verdict: pass/fail
// banner, tier, and any violation/warning lines.
func FormatGateOutcome(outcome GateOutcome) string {
	var out strings.Builder

	out.WriteString(applyStyle(styleHeader, "Quality Gate"))
	out.WriteString("\n")

	if outcome.Passed {
		out.WriteString(applyStyle(styleSuccess, fmt.Sprintf("  PASSED (tier: %s)\n", outcome.Tier)))
	} else {
		out.WriteString(applyStyle(styleFailure, fmt.Sprintf("  FAILED (tier: %s)\n", outcome.Tier)))
	}

	for _, v := range outcome.Violations {
		out.WriteString(applyStyle(styleFailure, "  - "+v))
		out.WriteString("\n")
	}
	for _, w := range outcome.Warnings {
		out.WriteString(applyStyle(severityStyle("medium"), "  ! "+w))
		out.WriteString("\n")
	}

	return out.String()
}
