package parser

import (
	"github.com/crackerjack-ci/crackerjack/pkg/issue"
)

// LintJSONParser handles the generic linter/formatter JSON shape
// (spec.md §6): a top-level array of
//
//	{filename, location:{row,column}, code, message, fix?}
type LintJSONParser struct{}

type lintJSONLocation struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

type lintJSONEntry struct {
	Filename string           `json:"filename"`
	Location lintJSONLocation `json:"location"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Fix      *struct{}        `json:"fix"`
}

func (LintJSONParser) ParseJSON(data []byte) ([]issue.Issue, error) {
	var entries []lintJSONEntry
	if err := decodeFirstJSONValue(data, &entries); err != nil {
		return nil, err
	}

	out := make([]issue.Issue, 0, len(entries))
	for _, e := range entries {
		out = append(out, issue.Issue{
			Tool:       "lint",
			Type:       issue.TypeFormatting,
			Severity:   issue.SeverityMedium,
			FilePath:   e.Filename,
			LineNumber: e.Location.Row,
			Column:     e.Location.Column,
			Code:       e.Code,
			Message:    e.Message,
			Fixable:    e.Fix != nil,
		})
	}
	return out, nil
}

func (LintJSONParser) ParseText(text string) ([]issue.Issue, error) {
	return regexFallbackParse(text)
}
