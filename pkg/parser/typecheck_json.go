package parser

import (
	"strings"

	"github.com/crackerjack-ci/crackerjack/pkg/issue"
)

// TypecheckJSONParser handles the type-checker JSON shape (spec.md
// §6): a top-level array of
//
//	{file, line, column, message, severity, code}
type TypecheckJSONParser struct{}

type typecheckJSONEntry struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Code     string `json:"code"`
}

func (TypecheckJSONParser) ParseJSON(data []byte) ([]issue.Issue, error) {
	var entries []typecheckJSONEntry
	if err := decodeFirstJSONValue(data, &entries); err != nil {
		return nil, err
	}

	out := make([]issue.Issue, 0, len(entries))
	for _, e := range entries {
		out = append(out, issue.Issue{
			Tool:       "typecheck",
			Type:       issue.TypeTypeError,
			Severity:   severityFromString(e.Severity),
			FilePath:   e.File,
			LineNumber: e.Line,
			Column:     e.Column,
			Code:       e.Code,
			Message:    e.Message,
		})
	}
	return out, nil
}

func (TypecheckJSONParser) ParseText(text string) ([]issue.Issue, error) {
	return regexFallbackParse(text)
}

func severityFromString(s string) issue.Severity {
	switch strings.ToLower(s) {
	case "critical":
		return issue.SeverityCritical
	case "high", "error":
		return issue.SeverityHigh
	case "medium", "warning", "warn":
		return issue.SeverityMedium
	case "low", "info", "note":
		return issue.SeverityLow
	default:
		return issue.SeverityMedium
	}
}
