package parser

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/crackerjack-ci/crackerjack/pkg/issue"
)

// ComplexityTableParser handles the complexity-analyzer table output
// (spec.md §4.2), a text format with one finding per line:
//
//	<complexity> <package> <function> <file>:<line>:<column>
//
// e.g. "15 handlers processRequest handlers.go:42:1"
type ComplexityTableParser struct{}

var complexityLinePattern = regexp.MustCompile(`^(\d+)\s+(\S+)\s+(\S+)\s+(.+):(\d+):(\d+)\s*$`)

func (ComplexityTableParser) ParseJSON(data []byte) ([]issue.Issue, error) {
	return nil, fmt.Errorf("complexity-table parser has no JSON form")
}

func (ComplexityTableParser) ParseText(text string) ([]issue.Issue, error) {
	var out []issue.Issue
	for _, line := range splitLines(text) {
		m := complexityLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		complexity, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		lineNo, _ := strconv.Atoi(m[5])
		col, _ := strconv.Atoi(m[6])

		out = append(out, issue.Issue{
			Tool:       "complexity",
			Type:       issue.TypeComplexity,
			Severity:   complexitySeverity(complexity),
			FilePath:   m[4],
			LineNumber: lineNo,
			Column:     col,
			Message:    fmt.Sprintf("%s has cyclomatic complexity %d (package %s)", m[3], complexity, m[2]),
		})
	}
	return out, nil
}

func complexitySeverity(complexity int) issue.Severity {
	switch {
	case complexity >= 30:
		return issue.SeverityHigh
	case complexity >= 20:
		return issue.SeverityMedium
	default:
		return issue.SeverityLow
	}
}
