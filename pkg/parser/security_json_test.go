package parser

import (
	"testing"

	"github.com/crackerjack-ci/crackerjack/pkg/issue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityJSONParser(t *testing.T) {
	raw := `{"results":[{"filename":"app.go","line_number":42,"issue_text":"hardcoded credentials","issue_severity":"HIGH","test_id":"G101"}]}`

	issues, err := SecurityJSONParser{}.ParseJSON([]byte(raw))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "app.go", issues[0].FilePath)
	assert.Equal(t, 42, issues[0].LineNumber)
	assert.Equal(t, issue.SeverityHigh, issues[0].Severity)
	assert.Equal(t, "G101", issues[0].Code)
}

func TestSecurityJSONParserEmptyResults(t *testing.T) {
	issues, err := SecurityJSONParser{}.ParseJSON([]byte(`{"results":[]}`))
	require.NoError(t, err)
	assert.Empty(t, issues)
}
