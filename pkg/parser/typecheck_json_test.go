package parser

import (
	"testing"

	"github.com/crackerjack-ci/crackerjack/pkg/issue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypecheckJSONParser(t *testing.T) {
	raw := `[{"file":"main.go","line":10,"column":2,"message":"undefined: foo","severity":"error","code":"E001"},
{"file":"main.go","line":20,"column":1,"message":"unused import","severity":"warning","code":"E002"}]`

	issues, err := TypecheckJSONParser{}.ParseJSON([]byte(raw))
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, issue.SeverityHigh, issues[0].Severity)
	assert.Equal(t, issue.SeverityMedium, issues[1].Severity)
	assert.Equal(t, "main.go", issues[0].FilePath)
	assert.Equal(t, "E001", issues[0].Code)
}

func TestSeverityFromString(t *testing.T) {
	assert.Equal(t, issue.SeverityCritical, severityFromString("critical"))
	assert.Equal(t, issue.SeverityHigh, severityFromString("error"))
	assert.Equal(t, issue.SeverityMedium, severityFromString("warning"))
	assert.Equal(t, issue.SeverityLow, severityFromString("info"))
	assert.Equal(t, issue.SeverityMedium, severityFromString("unknown-thing"))
}

func TestTypecheckJSONParserMalformed(t *testing.T) {
	_, err := TypecheckJSONParser{}.ParseJSON([]byte(`{not json`))
	assert.Error(t, err)
}
