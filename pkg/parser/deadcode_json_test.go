package parser

import (
	"testing"

	"github.com/crackerjack-ci/crackerjack/pkg/issue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadCodeJSONParser(t *testing.T) {
	raw := `[{"name":"helper","kind":"function","position":{"file":"util.go","line":5,"column":1}}]`

	issues, err := DeadCodeJSONParser{}.ParseJSON([]byte(raw))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, issue.SeverityLow, issues[0].Severity)
	assert.Equal(t, issue.TypeDeadCode, issues[0].Type)
	assert.Equal(t, "util.go", issues[0].FilePath)
	assert.Contains(t, issues[0].Message, "helper")
}

func TestDeadCodeJSONParserMissingKind(t *testing.T) {
	raw := `[{"name":"x","position":{"file":"a.go","line":1,"column":1}}]`
	issues, err := DeadCodeJSONParser{}.ParseJSON([]byte(raw))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "declaration")
}

func TestDeadCodeJSONParserEmpty(t *testing.T) {
	issues, err := DeadCodeJSONParser{}.ParseJSON([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, issues)
}
