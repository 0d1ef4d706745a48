package parser

import (
	"github.com/crackerjack-ci/crackerjack/pkg/issue"
)

// DeadCodeJSONParser handles the dead-code detector JSON shape: a
// top-level array of {name, kind, position:{file,line,column}}.
type DeadCodeJSONParser struct{}

type deadCodePosition struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type deadCodeEntry struct {
	Name     string           `json:"name"`
	Kind     string           `json:"kind"`
	Position deadCodePosition `json:"position"`
}

func (DeadCodeJSONParser) ParseJSON(data []byte) ([]issue.Issue, error) {
	var entries []deadCodeEntry
	if err := decodeFirstJSONValue(data, &entries); err != nil {
		return nil, err
	}

	out := make([]issue.Issue, 0, len(entries))
	for _, e := range entries {
		kind := e.Kind
		if kind == "" {
			kind = "declaration"
		}
		out = append(out, issue.Issue{
			Tool:       "dead-code",
			Type:       issue.TypeDeadCode,
			Severity:   issue.SeverityLow,
			FilePath:   e.Position.File,
			LineNumber: e.Position.Line,
			Column:     e.Position.Column,
			Message:    "unreachable " + kind + ": " + e.Name,
		})
	}
	return out, nil
}

func (DeadCodeJSONParser) ParseText(text string) ([]issue.Issue, error) {
	return regexFallbackParse(text)
}
