package autofix

import (
	"strings"

	"github.com/crackerjack-ci/crackerjack/pkg/issue"
)

// toolType maps a hook/tool name to its advisory issue.Type (spec.md
// §4.8.3). This is advisory only: the coordinator never branches on
// the result, it's passed to the external fixer as a hint.
var toolType = map[string]issue.Type{
	"gofmt":        issue.TypeFormatting,
	"goimports":    issue.TypeFormatting,
	"prettier":     issue.TypeFormatting,
	"gocyclo":      issue.TypeComplexity,
	"gosec":        issue.TypeSecurity,
	"gitleaks":     issue.TypeSecurity,
	"golangci-lint": issue.TypeOther,
	"go-vet":       issue.TypeTypeError,
	"typecheck":    issue.TypeTypeError,
	"deadcode":     issue.TypeDeadCode,
	"go-test":      issue.TypeTestFailure,
	"govulncheck":  issue.TypeDependency,
	"go-licenses":  issue.TypeDependency,
}

// keywordType is the message-keyword fallback RouteType uses when the
// issue carries no Type and its tool name isn't in toolType.
var keywordType = []struct {
	keyword string
	typ     issue.Type
}{
	{"unused", issue.TypeDeadCode},
	{"declared and not used", issue.TypeDeadCode},
	{"import", issue.TypeImportError},
	{"cyclomatic complexity", issue.TypeComplexity},
	{"vulnerability", issue.TypeDependency},
	{"vulnerable", issue.TypeDependency},
	{"hardcoded", issue.TypeSecurity},
	{"credential", issue.TypeSecurity},
	{"secret", issue.TypeSecurity},
	{"type mismatch", issue.TypeTypeError},
	{"cannot use", issue.TypeTypeError},
	{"undefined", issue.TypeTypeError},
	{"test failed", issue.TypeTestFailure},
	{"gofmt", issue.TypeFormatting},
}

// RouteType assigns an advisory issue.Type to it, preferring an
// existing non-empty Type, then the tool-name table, then a
// message-keyword fallback, defaulting to TypeOther.
func RouteType(it issue.Issue) issue.Type {
	if it.Type != "" {
		return it.Type
	}
	if t, ok := toolType[it.Tool]; ok {
		return t
	}
	lower := strings.ToLower(it.Message)
	for _, kw := range keywordType {
		if strings.Contains(lower, kw.keyword) {
			return kw.typ
		}
	}
	return issue.TypeOther
}
