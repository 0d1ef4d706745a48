package issue

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssueValid(t *testing.T) {
	tests := []struct {
		name    string
		issue   Issue
		wantErr bool
	}{
		{"valid issue", Issue{FilePath: "a.go", Message: "m"}, false},
		{"missing file path", Issue{Message: "m"}, true},
		{"missing message", Issue{FilePath: "a.go"}, true},
		{"negative line", Issue{FilePath: "a.go", Message: "m", LineNumber: -1}, true},
		{"negative column", Issue{FilePath: "a.go", Message: "m", Column: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.issue.Valid()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSeverityRank(t *testing.T) {
	assert.Less(t, SeverityCritical.Rank(), SeverityHigh.Rank())
	assert.Less(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	assert.Less(t, SeverityMedium.Rank(), SeverityLow.Rank())
	assert.Greater(t, Severity("bogus").Rank(), SeverityLow.Rank())
}

func TestDedupePreservesFullMessage(t *testing.T) {
	// Scenario 6 from spec.md §8: two long messages at the same
	// location that differ in a single word must not collapse.
	long := "unused variable: %s which is declared here but never referenced in the enclosing scope"
	a := Issue{FilePath: "a.py", LineNumber: 10, Message: fmt.Sprintf(long, "foo")}
	b := Issue{FilePath: "a.py", LineNumber: 10, Message: fmt.Sprintf(long, "bar")}
	dup := Issue{FilePath: "a.py", LineNumber: 10, Message: fmt.Sprintf(long, "foo")}

	out := Dedupe([]Issue{a, b, dup})
	assert.Len(t, out, 2)
}

func TestDedupeIdempotent(t *testing.T) {
	issues := []Issue{
		{FilePath: "a.go", LineNumber: 1, Message: "m1"},
		{FilePath: "a.go", LineNumber: 1, Message: "m1"},
		{FilePath: "b.go", LineNumber: 2, Message: "m2"},
	}
	once := Dedupe(issues)
	twice := Dedupe(once)
	assert.Equal(t, once, twice)
	assert.Len(t, once, 2)
}

func TestCountBySeverity(t *testing.T) {
	issues := []Issue{
		{Severity: SeverityHigh},
		{Severity: SeverityHigh},
		{Severity: SeverityLow},
	}
	counts := CountBySeverity(issues)
	assert.Equal(t, 2, counts[SeverityHigh])
	assert.Equal(t, 1, counts[SeverityLow])
	assert.Equal(t, 0, counts[SeverityCritical])
}
