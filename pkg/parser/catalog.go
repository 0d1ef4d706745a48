package parser

// defaultRegistrations lists every parser this module ships. At
// minimum, 100% of the hooks in pkg/hook/catalog.go must resolve to
// one of these (spec.md §4.2).
func defaultRegistrations() []Registration {
	return []Registration{
		{ID: "lint-json", Parser: LintJSONParser{}},
		{ID: "typecheck-json", Parser: TypecheckJSONParser{}},
		{ID: "security-json", Parser: SecurityJSONParser{}},
		{ID: "complexity-table", Parser: ComplexityTableParser{}},
		{ID: "deadcode-json", Parser: DeadCodeJSONParser{}},
		{ID: "secret-json", Parser: SecretJSONParser{}},
		{ID: "dependency-json", Parser: DependencyJSONParser{}},
		{ID: "test-json", Parser: TestJSONParser{}},
		{ID: "regex-fallback", Parser: RegexFallbackParser{}},
	}
}
