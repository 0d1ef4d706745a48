package hook

// Catalog entries are grouped into two strategies (spec.md §4.3):
// Fast runs on every autofix iteration; Comprehensive runs less often
// and carries the heavier analyzers. Both lists are immutable package
// vars, populated once at init.

// FastHooks is the cheap batch: formatters and syntax/style checks.
var FastHooks = []Definition{
	{
		Name:             "fmt-go",
		CommandTemplate:  []string{"gofmt", "-l", "{files}"},
		AcceptsFilePaths: true,
		FileExtensions:   []string{".go"},
		TimeoutSeconds:   30,
		Classification:   ClassFormatter,
		ParserID:         "regex-fallback",
		RequiresLock:     true,
		OutputFormatHint: OutputText,
		Retry:            DefaultRetryPolicy,
	},
	{
		Name:             "lint-fast",
		CommandTemplate:  []string{"golangci-lint", "run", "--fast-only", "{files}"},
		AcceptsFilePaths: true,
		FileExtensions:   []string{".go"},
		TimeoutSeconds:   60,
		Classification:   ClassAnalyzer,
		ParserID:         "lint-json",
		JSONFlag:         "--out-format=json",
		OutputFormatHint: OutputJSON,
		Retry:            DefaultRetryPolicy,
	},
	{
		Name:             "md-format",
		CommandTemplate:  []string{"mdformat", "{files}"},
		AcceptsFilePaths: true,
		FileExtensions:   []string{".md"},
		TimeoutSeconds:   20,
		Classification:   ClassFormatter,
		ParserID:         "regex-fallback",
		RequiresLock:     true,
		OutputFormatHint: OutputText,
		Retry:            DefaultRetryPolicy,
	},
	{
		Name:             "json-syntax",
		CommandTemplate:  []string{"check-json", "{files}"},
		AcceptsFilePaths: true,
		FileExtensions:   []string{".json"},
		TimeoutSeconds:   15,
		Classification:   ClassValidator,
		ParserID:         "regex-fallback",
		OutputFormatHint: OutputText,
	},
	{
		Name:             "yaml-syntax",
		CommandTemplate:  []string{"check-yaml", "{files}"},
		AcceptsFilePaths: true,
		FileExtensions:   []string{".yml", ".yaml"},
		TimeoutSeconds:   15,
		Classification:   ClassValidator,
		ParserID:         "regex-fallback",
		OutputFormatHint: OutputText,
	},
	{
		Name:             "toml-syntax",
		CommandTemplate:  []string{"check-toml", "{files}"},
		AcceptsFilePaths: true,
		FileExtensions:   []string{".toml"},
		TimeoutSeconds:   15,
		Classification:   ClassValidator,
		ParserID:         "regex-fallback",
		OutputFormatHint: OutputText,
	},
	{
		Name:             "trailing-whitespace",
		CommandTemplate:  []string{"trailing-whitespace-fixer", "{files}"},
		AcceptsFilePaths: true,
		TimeoutSeconds:   20,
		Classification:   ClassFormatter,
		ParserID:         "regex-fallback",
		RequiresLock:     true,
		OutputFormatHint: OutputText,
		Retry:            DefaultRetryPolicy,
	},
	{
		Name:             "end-of-file-fixer",
		CommandTemplate:  []string{"end-of-file-fixer", "{files}"},
		AcceptsFilePaths: true,
		TimeoutSeconds:   20,
		Classification:   ClassFormatter,
		ParserID:         "regex-fallback",
		RequiresLock:     true,
		OutputFormatHint: OutputText,
		Retry:            DefaultRetryPolicy,
	},
	{
		Name:             "typo-check",
		CommandTemplate:  []string{"typos", "{files}"},
		AcceptsFilePaths: true,
		TimeoutSeconds:   30,
		Classification:   ClassAnalyzer,
		ParserID:         "regex-fallback",
		OutputFormatHint: OutputText,
	},
	{
		Name:             "large-file-guard",
		CommandTemplate:  []string{"check-added-large-files", "{files}"},
		AcceptsFilePaths: true,
		TimeoutSeconds:   20,
		Classification:   ClassValidator,
		ParserID:         "regex-fallback",
		OutputFormatHint: OutputText,
	},
	{
		Name:             "ast-syntax",
		CommandTemplate:  []string{"crackerjack-ast-check", "{files}"},
		AcceptsFilePaths: true,
		FileExtensions:   []string{".go"},
		TimeoutSeconds:   20,
		Classification:   ClassValidator,
		ParserID:         "regex-fallback",
		OutputFormatHint: OutputText,
	},
	{
		Name:             "workflow-lint",
		CommandTemplate:  []string{"actionlint", "-format", "{{json .}}", "{files}"},
		AcceptsFilePaths: true,
		FileExtensions:   []string{".yml", ".yaml"},
		TimeoutSeconds:   30,
		Classification:   ClassAnalyzer,
		ParserID:         "regex-fallback",
		OutputFormatHint: OutputText,
	},
	{
		Name:             "case-conflict-check",
		CommandTemplate:  []string{"check-case-conflict", "{files}"},
		AcceptsFilePaths: true,
		TimeoutSeconds:   15,
		Classification:   ClassValidator,
		ParserID:         "regex-fallback",
		OutputFormatHint: OutputText,
	},
	{
		Name:             "merge-conflict-marker-check",
		CommandTemplate:  []string{"check-merge-conflict", "{files}"},
		AcceptsFilePaths: true,
		TimeoutSeconds:   15,
		Classification:   ClassValidator,
		ParserID:         "regex-fallback",
		OutputFormatHint: OutputText,
	},
	{
		Name:             "mixed-line-ending",
		CommandTemplate:  []string{"mixed-line-ending", "--fix=lf", "{files}"},
		AcceptsFilePaths: true,
		TimeoutSeconds:   15,
		Classification:   ClassFormatter,
		ParserID:         "regex-fallback",
		RequiresLock:     true,
		OutputFormatHint: OutputText,
		Retry:            DefaultRetryPolicy,
	},
	{
		Name:             "shebang-check",
		CommandTemplate:  []string{"check-shebang-scripts-are-executable", "{files}"},
		AcceptsFilePaths: true,
		TimeoutSeconds:   15,
		Classification:   ClassValidator,
		ParserID:         "regex-fallback",
		OutputFormatHint: OutputText,
	},
}

// ComprehensiveHooks is the expensive batch: deep analyzers, all
// 180s per invocation (lowered from the legacy 600s — spec.md §4.3).
var ComprehensiveHooks = []Definition{
	{
		Name:             "typecheck",
		CommandTemplate:  []string{"go", "vet", "-json", "./..."},
		AcceptsFilePaths: false,
		FileExtensions:   []string{".go"},
		TimeoutSeconds:   180,
		Classification:   ClassAnalyzer,
		ParserID:         "typecheck-json",
		JSONFlag:         "-json",
		OutputFormatHint: OutputJSON,
		Retry:            DefaultRetryPolicy,
	},
	{
		Name:             "lint-deep",
		CommandTemplate:  []string{"golangci-lint", "run", "./..."},
		AcceptsFilePaths: false,
		FileExtensions:   []string{".go"},
		TimeoutSeconds:   180,
		Classification:   ClassAnalyzer,
		ParserID:         "lint-json",
		JSONFlag:         "--out-format=json",
		OutputFormatHint: OutputJSON,
		Retry:            DefaultRetryPolicy,
	},
	{
		Name:             "complexity",
		CommandTemplate:  []string{"gocyclo", "-over", "10", "."},
		AcceptsFilePaths: false,
		FileExtensions:   []string{".go"},
		TimeoutSeconds:   180,
		Classification:   ClassReporter,
		ParserID:         "complexity-table",
		OutputFormatHint: OutputText,
	},
	{
		Name:             "dead-code",
		CommandTemplate:  []string{"deadcode", "-json", "./..."},
		AcceptsFilePaths: false,
		FileExtensions:   []string{".go"},
		TimeoutSeconds:   180,
		Classification:   ClassReporter,
		ParserID:         "deadcode-json",
		JSONFlag:         "-json",
		OutputFormatHint: OutputJSON,
	},
	{
		Name:             "security",
		CommandTemplate:  []string{"gosec", "-fmt=json", "./..."},
		AcceptsFilePaths: false,
		FileExtensions:   []string{".go"},
		TimeoutSeconds:   180,
		Classification:   ClassReporter,
		ParserID:         "security-json",
		JSONFlag:         "-fmt=json",
		OutputFormatHint: OutputJSON,
	},
	{
		Name:             "dependency-audit",
		CommandTemplate:  []string{"govulncheck", "-json", "./..."},
		AcceptsFilePaths: false,
		TimeoutSeconds:   180,
		Classification:   ClassReporter,
		ParserID:         "dependency-json",
		JSONFlag:         "-json",
		OutputFormatHint: OutputJSON,
		CountValidation:  CountValidation{Skip: true, Reason: "govulncheck emits one finding per call path, not a single summary count"},
	},
	{
		Name:             "secret-scan",
		CommandTemplate:  []string{"gitleaks", "detect", "--report-format=json", "--report-path=-"},
		AcceptsFilePaths: false,
		TimeoutSeconds:   180,
		Classification:   ClassReporter,
		ParserID:         "secret-json",
		JSONFlag:         "--report-format=json",
		OutputFormatHint: OutputJSON,
	},
	{
		Name:             "license-check",
		CommandTemplate:  []string{"go-licenses", "check", "--disallowed_types=forbidden", "./..."},
		AcceptsFilePaths: false,
		TimeoutSeconds:   180,
		Classification:   ClassReporter,
		ParserID:         "regex-fallback",
		OutputFormatHint: OutputText,
		CountValidation:  CountValidation{Skip: true, Reason: "go-licenses does not emit a summary count"},
	},
	{
		Name:             "test-runner",
		CommandTemplate:  []string{"go", "test", "-json", "./..."},
		AcceptsFilePaths: false,
		FileExtensions:   []string{".go"},
		TimeoutSeconds:   180,
		Classification:   ClassReporter,
		ParserID:         "test-json",
		JSONFlag:         "-json",
		OutputFormatHint: OutputJSON,
		CountValidation:  CountValidation{Skip: true, Reason: "go test -json emits one event per test, not a single summary count"},
	},
}

// ByName indexes both catalogs by hook name, used by tests that need a
// single definition without threading the whole catalog through.
func ByName(name string) (Definition, bool) {
	for _, d := range FastHooks {
		if d.Name == name {
			return d, true
		}
	}
	for _, d := range ComprehensiveHooks {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}
