package parser

import (
	"github.com/crackerjack-ci/crackerjack/pkg/issue"
)

// DependencyJSONParser handles the dependency-auditor JSON shape: a
// top-level object with vulnerabilities:
// [{id, package, details, severity, file?}], modeled on govulncheck's
// finding stream collapsed to one record per vulnerable call path.
type DependencyJSONParser struct{}

type dependencyJSONReport struct {
	Vulnerabilities []dependencyJSONFinding `json:"vulnerabilities"`
}

type dependencyJSONFinding struct {
	ID       string `json:"id"`
	Package  string `json:"package"`
	Details  string `json:"details"`
	Severity string `json:"severity"`
	File     string `json:"file"`
}

func (DependencyJSONParser) ParseJSON(data []byte) ([]issue.Issue, error) {
	var report dependencyJSONReport
	if err := decodeFirstJSONValue(data, &report); err != nil {
		return nil, err
	}

	out := make([]issue.Issue, 0, len(report.Vulnerabilities))
	for _, v := range report.Vulnerabilities {
		filePath := v.File
		if filePath == "" {
			// Dependency findings are module-scoped, not file-scoped;
			// attribute them to the manifest so the required
			// non-empty file_path invariant still holds.
			filePath = "go.mod"
		}
		out = append(out, issue.Issue{
			Tool:     "dependency-audit",
			Type:     issue.TypeDependency,
			Severity: severityFromString(v.Severity),
			FilePath: filePath,
			Code:     v.ID,
			Message:  v.Package + ": " + v.Details,
		})
	}
	return out, nil
}

func (DependencyJSONParser) ParseText(text string) ([]issue.Issue, error) {
	return regexFallbackParse(text)
}
