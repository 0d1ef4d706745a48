package parser

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/crackerjack-ci/crackerjack/pkg/issue"
)

var testFailureLocationPattern = regexp.MustCompile(`([\w./-]+\.go):(\d+)`)

// TestJSONParser handles the test-runner's newline-delimited JSON
// event stream (the shape `go test -json` emits: one JSON object per
// line, not a single top-level array or object). This is why it
// decodes line-by-line rather than going through decodeFirstJSONValue.
type TestJSONParser struct{}

type testJSONEvent struct {
	Action  string `json:"Action"`
	Package string `json:"Package"`
	Test    string `json:"Test"`
	Output  string `json:"Output"`
}

func (TestJSONParser) ParseJSON(data []byte) ([]issue.Issue, error) {
	var out []issue.Issue
	for _, line := range splitLines(string(data)) {
		if line == "" {
			continue
		}
		var ev testJSONEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return nil, fmt.Errorf("test-json: malformed event line: %w", err)
		}
		if ev.Action != "fail" || ev.Test == "" {
			continue
		}

		filePath := ev.Package
		lineNumber := 0
		if m := testFailureLocationPattern.FindStringSubmatch(ev.Output); m != nil {
			filePath = m[1]
			fmt.Sscanf(m[2], "%d", &lineNumber)
		}

		out = append(out, issue.Issue{
			Tool:       "test-runner",
			Type:       issue.TypeTestFailure,
			Severity:   issue.SeverityHigh,
			FilePath:   filePath,
			LineNumber: lineNumber,
			Message:    fmt.Sprintf("%s failed: %s", ev.Test, ev.Output),
		})
	}
	return out, nil
}

func (TestJSONParser) ParseText(text string) ([]issue.Issue, error) {
	return regexFallbackParse(text)
}
