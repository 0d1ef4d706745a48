package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexFallbackConciseWithCode(t *testing.T) {
	issues, err := RegexFallbackParser{}.ParseText("a.py:10:5: E501 line too long\n")
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "a.py", issues[0].FilePath)
	assert.Equal(t, 10, issues[0].LineNumber)
	assert.Equal(t, 5, issues[0].Column)
	assert.Equal(t, "E501", issues[0].Code)
	assert.Equal(t, "line too long", issues[0].Message)
}

func TestRegexFallbackConciseWithoutCode(t *testing.T) {
	issues, err := RegexFallbackParser{}.ParseText("b.py:3:1: something went wrong\n")
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "", issues[0].Code)
	assert.Equal(t, "something went wrong", issues[0].Message)
}

func TestRegexFallbackIgnoresContextLines(t *testing.T) {
	// Scenario 5 (spec.md §8): indented context/arrow lines must never
	// be mistaken for additional findings, even though they contain ":".
	raw := `a.py:10:5: E501 line too long
   |
10 | some code that keeps: going: past: the: margin: for: this: line: here
   |                                                                   ^
`
	issues, err := RegexFallbackParser{}.ParseText(raw)
	require.NoError(t, err)
	require.Len(t, issues, 1)
}

func TestRegexFallbackNoMatches(t *testing.T) {
	issues, err := RegexFallbackParser{}.ParseText("nothing to see here\n")
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestRegexFallbackParseJSONUnsupported(t *testing.T) {
	_, err := RegexFallbackParser{}.ParseJSON([]byte(`[]`))
	assert.Error(t, err)
}
