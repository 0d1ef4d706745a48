package parser

import (
	"github.com/crackerjack-ci/crackerjack/pkg/issue"
)

// SecurityJSONParser handles the security-scanner JSON shape
// (spec.md §6): a top-level object with
//
//	results: [{filename, line_number, issue_text, issue_severity, test_id}]
type SecurityJSONParser struct{}

type securityJSONReport struct {
	Results []securityJSONFinding `json:"results"`
}

type securityJSONFinding struct {
	Filename      string `json:"filename"`
	LineNumber    int    `json:"line_number"`
	IssueText     string `json:"issue_text"`
	IssueSeverity string `json:"issue_severity"`
	TestID        string `json:"test_id"`
}

func (SecurityJSONParser) ParseJSON(data []byte) ([]issue.Issue, error) {
	var report securityJSONReport
	if err := decodeFirstJSONValue(data, &report); err != nil {
		return nil, err
	}

	out := make([]issue.Issue, 0, len(report.Results))
	for _, f := range report.Results {
		out = append(out, issue.Issue{
			Tool:       "security",
			Type:       issue.TypeSecurity,
			Severity:   severityFromString(f.IssueSeverity),
			FilePath:   f.Filename,
			LineNumber: f.LineNumber,
			Code:       f.TestID,
			Message:    f.IssueText,
		})
	}
	return out, nil
}

func (SecurityJSONParser) ParseText(text string) ([]issue.Issue, error) {
	return regexFallbackParse(text)
}
