package parser

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/crackerjack-ci/crackerjack/pkg/issue"
)

// RegexFallbackParser handles tools with no structured output at all,
// and is reused as the ParseText fallback for every JSON-capable
// parser in this package when a hook's JSON flag was not used.
//
// It supports both "concise" single-line diagnostics
//
//	file.py:10:5: E501 line too long
//
// and "diagnostic" multi-line diagnostics with context/arrow lines:
//
//	file.py:10:5: E501 line too long
//	   |
//	10 | some code that is too long........................
//	   |                                           ^
//
// Only lines matching the concise head pattern produce an Issue;
// context lines (even ones containing ":") are ignored, which is
// what keeps a diagnostic-format tool's count correct (spec.md §8,
// Scenario 5).
type RegexFallbackParser struct{}

func (RegexFallbackParser) ParseJSON(data []byte) ([]issue.Issue, error) {
	return nil, fmt.Errorf("regex-fallback parser has no JSON form")
}

func (RegexFallbackParser) ParseText(text string) ([]issue.Issue, error) {
	return regexFallbackParse(text)
}

// concise diagnostic head: "path:line:col: CODE message" or
// "path:line:col: message" (code is optional — a bare word token
// immediately followed by more text, distinguished from a plain
// sentence by being all-uppercase/digit/punctuation, e.g. "E501",
// "SC2086", "B101").
var (
	conciseWithCode    = regexp.MustCompile(`^([^\s:][^:]*):(\d+):(\d+):\s+([A-Z][A-Z0-9]{1,9})\s+(.+)$`)
	conciseWithoutCode = regexp.MustCompile(`^([^\s:][^:]*):(\d+):(\d+):\s+(.+)$`)
)

func regexFallbackParse(text string) ([]issue.Issue, error) {
	var out []issue.Issue
	for _, line := range splitLines(text) {
		if m := conciseWithCode.FindStringSubmatch(line); m != nil {
			lineNo, _ := strconv.Atoi(m[2])
			col, _ := strconv.Atoi(m[3])
			out = append(out, issue.Issue{
				Tool:       "generic",
				Type:       issue.TypeOther,
				Severity:   issue.SeverityMedium,
				FilePath:   m[1],
				LineNumber: lineNo,
				Column:     col,
				Code:       m[4],
				Message:    m[5],
			})
			continue
		}
		if m := conciseWithoutCode.FindStringSubmatch(line); m != nil {
			lineNo, _ := strconv.Atoi(m[2])
			col, _ := strconv.Atoi(m[3])
			out = append(out, issue.Issue{
				Tool:       "generic",
				Type:       issue.TypeOther,
				Severity:   issue.SeverityMedium,
				FilePath:   m[1],
				LineNumber: lineNo,
				Column:     col,
				Message:    m[4],
			})
		}
	}
	return out, nil
}
