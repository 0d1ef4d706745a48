package parser

import (
	"github.com/crackerjack-ci/crackerjack/pkg/issue"
)

// SecretJSONParser handles the secret-scanner JSON shape: a top-level
// array of {File, StartLine, RuleID, Description}, matching the
// gitleaks report format this hook is grounded on.
type SecretJSONParser struct{}

type secretJSONFinding struct {
	File        string `json:"File"`
	StartLine   int    `json:"StartLine"`
	RuleID      string `json:"RuleID"`
	Description string `json:"Description"`
}

func (SecretJSONParser) ParseJSON(data []byte) ([]issue.Issue, error) {
	var entries []secretJSONFinding
	if err := decodeFirstJSONValue(data, &entries); err != nil {
		return nil, err
	}

	out := make([]issue.Issue, 0, len(entries))
	for _, e := range entries {
		out = append(out, issue.Issue{
			Tool:       "secret-scan",
			Type:       issue.TypeSecurity,
			Severity:   issue.SeverityCritical,
			FilePath:   e.File,
			LineNumber: e.StartLine,
			Code:       e.RuleID,
			Message:    e.Description,
		})
	}
	return out, nil
}

func (SecretJSONParser) ParseText(text string) ([]issue.Issue, error) {
	return regexFallbackParse(text)
}
