// Package parser converts raw external-tool output (stdout, stderr,
// exit code) into the canonical issue.Issue stream. Each tool family
// gets one registration keyed by a stable parser_id; the set of
// parsers is closed and built at package-init time — no reflection,
// no runtime string-keyed type dispatch beyond the registry lookup
// itself (spec.md §9, Design Notes).
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/crackerjack-ci/crackerjack/pkg/issue"
	"github.com/crackerjack-ci/crackerjack/pkg/logger"
)

var log = logger.New("parser")

// Parser is implemented once per tool family. A parser never sees the
// exit code or classification — that context is applied by the
// executor (spec.md §4.4, the "reporter" status-override rule lives
// there, not here).
type Parser interface {
	// ParseJSON parses a tool's structured JSON output.
	ParseJSON(data []byte) ([]issue.Issue, error)
	// ParseText parses a tool's unstructured/regex-matchable output.
	ParseText(text string) ([]issue.Issue, error)
}

// MismatchError reports that a tool's self-declared summary count
// disagrees with the number of issues the parser actually extracted
// (spec.md §4.2, "Count validation").
type MismatchError struct {
	ParserID     string
	ParsedCount  int
	SummaryCount int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("parser %s: parsed %d issue(s) but tool reported a summary count of %d",
		e.ParserID, e.ParsedCount, e.SummaryCount)
}

// Registration binds a Parser to its catalog id. Count-validation
// skip decisions are per-hook, not per-parser (several hooks share
// the "regex-fallback" parser with different skip behavior), so that
// policy lives on hook.Definition.CountValidation instead — data on
// the catalog entry, not logic baked into any parser body (spec.md
// §9, Open Question).
type Registration struct {
	ID     string
	Parser Parser
}

// Registry is the compile-time-populated map described in the Design
// Notes (spec.md §9): a closed set of tools, looked up by stable key.
type Registry struct {
	entries map[string]Registration
}

// NewRegistry builds the registry with every parser this module ships
// (pkg/parser/catalog.go). Constructing more than one Registry is
// supported (useful in tests) but all share the same registrations.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]Registration)}
	for _, reg := range defaultRegistrations() {
		r.Register(reg)
	}
	return r
}

// Register adds or replaces a registration. Exported so tests and
// callers that need a custom or stubbed parser for an unreleased tool
// can extend the registry without forking it.
func (r *Registry) Register(reg Registration) {
	r.entries = cloneWith(r.entries, reg)
}

func cloneWith(m map[string]Registration, reg Registration) map[string]Registration {
	out := make(map[string]Registration, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[reg.ID] = reg
	return out
}

// Lookup returns the registration for parserID.
func (r *Registry) Lookup(parserID string) (Registration, bool) {
	reg, ok := r.entries[parserID]
	return reg, ok
}

var successTokens = []string{"passed", "no issues", "✓", "success"}

// looksLikeSuccess implements the success-indicator rule (spec.md
// §4.2): generic/text parsers must recognize these tokens and return
// an empty issue list even when the tool produced output.
func looksLikeSuccess(text string) bool {
	lower := strings.ToLower(text)
	for _, tok := range successTokens {
		if strings.Contains(lower, strings.ToLower(tok)) {
			return true
		}
	}
	return false
}

// extractJSON implements the earliest-[-or-{ rule (spec.md §4.2,
// invariant): scanning for JSON in output that may carry a leading
// preamble, the earliest occurrence of either bracket wins — never
// search for "{" first, or array-valued tool output gets mis-parsed
// as object-valued (spec.md §8, Scenario 3).
func extractJSON(raw string) (string, bool) {
	arrayIdx := strings.IndexByte(raw, '[')
	objectIdx := strings.IndexByte(raw, '{')

	start := -1
	switch {
	case arrayIdx == -1 && objectIdx == -1:
		return "", false
	case arrayIdx == -1:
		start = objectIdx
	case objectIdx == -1:
		start = arrayIdx
	case arrayIdx < objectIdx:
		start = arrayIdx
	default:
		start = objectIdx
	}

	extracted := raw[start:]

	// Reporting tools may emit a literal "[*]" sentinel for "no
	// findings" instead of a proper empty array (spec.md §6).
	if strings.TrimSpace(extracted) == "[*]" {
		return "[]", true
	}

	return extracted, true
}

// decodeFirstJSONValue decodes exactly one JSON value from the head
// of data, ignoring any trailing non-JSON content (e.g. a tool that
// prints a JSON payload followed by a human-readable footer).
func decodeFirstJSONValue(data []byte, target any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	return dec.Decode(target)
}

var summaryCountPattern = regexp.MustCompile(`(?i)\b(\d+)\s+(?:error|errors|issue|issues|problem|problems|finding|findings)\b`)

// extractSummaryCount looks for a tool-reported "N errors"-style
// summary line anywhere in raw output. ok is false when no such line
// is present (most tools don't emit one).
func extractSummaryCount(raw string) (count int, ok bool) {
	m := summaryCountPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(m[1], "%d", &n); err != nil {
		return 0, false
	}
	return n, true
}

// Dispatch runs the full §4.2 algorithm for one hook invocation: JSON
// vs. text dispatch, success-token short-circuit, parsing, dropping
// issues without a file path, and count-validation. stdout and stderr
// are concatenated for parsing (spec.md §6, "Tool output contract").
// skipCountValidation comes from the invoking hook's catalog entry
// (hook.Definition.CountValidation), since the same parser_id (e.g.
// "regex-fallback") can back tools with different skip policies.
func (r *Registry) Dispatch(parserID string, preferJSON, skipCountValidation bool, stdout, stderr string) ([]issue.Issue, error) {
	reg, ok := r.Lookup(parserID)
	if !ok {
		return nil, fmt.Errorf("no parser registered for id %q", parserID)
	}

	raw := stdout
	if stderr != "" {
		raw = raw + "\n" + stderr
	}

	var (
		parsed []issue.Issue
		err    error
	)

	if preferJSON {
		if extracted, found := extractJSON(raw); found {
			parsed, err = reg.Parser.ParseJSON([]byte(extracted))
		} else {
			parsed, err = r.parseTextOrSuccess(reg, raw)
		}
	} else {
		parsed, err = r.parseTextOrSuccess(reg, raw)
	}
	if err != nil {
		return nil, err
	}

	parsed = dropMissingFilePath(parserID, parsed)

	if summary, found := extractSummaryCount(raw); found && !skipCountValidation {
		if summary != len(parsed) {
			return nil, &MismatchError{ParserID: parserID, ParsedCount: len(parsed), SummaryCount: summary}
		}
	}

	return parsed, nil
}

func (r *Registry) parseTextOrSuccess(reg Registration, raw string) ([]issue.Issue, error) {
	if looksLikeSuccess(raw) {
		return nil, nil
	}
	return reg.Parser.ParseText(raw)
}

// dropMissingFilePath enforces spec.md §3/§4.2: Issue records without
// a file path are dropped with a logged warning and do not count
// toward the expected total.
func dropMissingFilePath(parserID string, issues []issue.Issue) []issue.Issue {
	out := make([]issue.Issue, 0, len(issues))
	for _, it := range issues {
		if it.FilePath == "" {
			log.Printf("parser %s: dropping issue with empty file_path (message=%q)", parserID, it.Message)
			continue
		}
		out = append(out, it)
	}
	return out
}
