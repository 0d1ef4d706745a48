package gate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Baseline is the persisted quality snapshot the ratchet compares
// against (spec.md §4.9, §6 "<project>/.quality_baseline.json").
type Baseline struct {
	Metrics          Metrics `json:"metrics"`
	CriticalFindings int     `json:"critical_findings"`
	HighFindings     int     `json:"high_findings"`
	MediumFindings   int     `json:"medium_findings"`
}

// direction of a metric: +1 means "higher is better", -1 means
// "lower is better" (spec.md §4.9).
type metricField struct {
	name      string
	direction int
	current   float64
	baseline  float64
}

// Regressions reports every metric in cur that moved in the worse
// direction relative to baseline, formatted as spec.md §7's
// GateRegression messaging ("metric X regressed from Y to Z").
func (cur Baseline) Regressions(baseline Baseline) []string {
	fields := []metricField{
		{"coverage", +1, cur.Metrics.CoveragePercent, baseline.Metrics.CoveragePercent},
		{"avg complexity", -1, cur.Metrics.AvgComplexity, baseline.Metrics.AvgComplexity},
		{"doc coverage", +1, cur.Metrics.DocCoveragePercent, baseline.Metrics.DocCoveragePercent},
		{"duplication", -1, cur.Metrics.DuplicationPercent, baseline.Metrics.DuplicationPercent},
		{"type-hint-equivalent coverage", +1, cur.Metrics.TypeHintCoveragePercent, baseline.Metrics.TypeHintCoveragePercent},
		{"critical findings", -1, float64(cur.CriticalFindings), float64(baseline.CriticalFindings)},
		{"high findings", -1, float64(cur.HighFindings), float64(baseline.HighFindings)},
		{"medium findings", -1, float64(cur.MediumFindings), float64(baseline.MediumFindings)},
	}

	var regressions []string
	for _, f := range fields {
		regressed := (f.direction > 0 && f.current < f.baseline) || (f.direction < 0 && f.current > f.baseline)
		if regressed {
			regressions = append(regressions, fmt.Sprintf("metric %s regressed from %v to %v", f.name, f.baseline, f.current))
		}
	}
	return regressions
}

// LoadBaseline reads the persisted baseline at path. A missing file
// is not an error: it returns (nil, nil), meaning "no baseline yet,"
// so the first run always passes the ratchet and seeds one.
func LoadBaseline(path string) (*Baseline, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading baseline %s: %w", path, err)
	}
	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decoding baseline %s: %w", path, err)
	}
	return &b, nil
}

// SaveBaseline persists b to path via write-temp-then-rename plus an
// fsync of the containing directory, matching the durability
// requirement of spec.md §9's "Ratchet baseline write."
func SaveBaseline(path string, b Baseline) error {
	if path == "" {
		return fmt.Errorf("gate: no baseline path configured")
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding baseline: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".quality_baseline-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp baseline file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp baseline file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp baseline file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp baseline file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming temp baseline file into place: %w", err)
	}

	if dirHandle, err := os.Open(dir); err == nil {
		_ = dirHandle.Sync()
		_ = dirHandle.Close()
	}
	return nil
}
