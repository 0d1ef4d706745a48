package autofix

import (
	"testing"

	"github.com/crackerjack-ci/crackerjack/pkg/issue"
	"github.com/stretchr/testify/assert"
)

func TestRouteTypePrefersExistingType(t *testing.T) {
	it := issue.Issue{Tool: "gofmt", Type: issue.TypeSecurity, Message: "unused import"}
	assert.Equal(t, issue.TypeSecurity, RouteType(it))
}

func TestRouteTypeFromToolTable(t *testing.T) {
	it := issue.Issue{Tool: "gocyclo", Message: "function too complex"}
	assert.Equal(t, issue.TypeComplexity, RouteType(it))
}

func TestRouteTypeFromMessageKeywordFallback(t *testing.T) {
	it := issue.Issue{Tool: "custom-tool", Message: "variable x declared and not used"}
	assert.Equal(t, issue.TypeDeadCode, RouteType(it))
}

func TestRouteTypeDefaultsToOther(t *testing.T) {
	it := issue.Issue{Tool: "mystery-tool", Message: "something happened"}
	assert.Equal(t, issue.TypeOther, RouteType(it))
}
