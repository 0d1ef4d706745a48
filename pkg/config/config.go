// Package config loads and validates crackerjack's run configuration
// into an immutable Settings value, read from a project's
// pyproject.toml `[tool.crackerjack]` table (preferred) or a
// dedicated crackerjack.yaml (spec.md §6, SPEC_FULL.md §2).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// Settings is the frozen, validated configuration. It is built once by
// Load and never mutated afterward; cmd/crackerjack passes its fields
// to the engine's constructors (e.g. BaseBranch to filefilter.New) —
// there is no ambient package-level config state anywhere in this
// module.
type Settings struct {
	Strategy          string `json:"strategy"`
	Incremental       bool   `json:"incremental"`
	FullScanThreshold int    `json:"full_scan_threshold"`
	BaseBranch        string `json:"base_branch"`

	AutofixEnabled             bool `json:"autofix_enabled"`
	AutofixNoProgressThreshold int  `json:"autofix_no_progress_threshold"`
	AutofixMaxDiffLines        int  `json:"autofix_max_diff_lines"`

	ParallelMaxWorkers int `json:"parallel_max_workers"`

	CacheEnabled         bool  `json:"cache_enabled"`
	CacheSizeBudgetBytes int64 `json:"cache_size_budget_bytes"`

	QualityGateTier           string `json:"quality_gate_tier"`
	QualityGateRatchetEnabled bool   `json:"quality_gate_ratchet_enabled"`
	QualityGateExemptionsFile string `json:"quality_gate_exemptions_file"`

	AdapterTimeouts map[string]int `json:"adapter_timeouts"`
}

// Defaults returns the baseline Settings applied before any config
// file is merged in (spec.md §6's documented defaults).
func Defaults() Settings {
	return Settings{
		Strategy:                   "fast",
		Incremental:                true,
		FullScanThreshold:          50,
		BaseBranch:                 "main",
		AutofixEnabled:             false,
		AutofixNoProgressThreshold: 3,
		AutofixMaxDiffLines:        50,
		ParallelMaxWorkers:         6,
		CacheEnabled:               true,
		CacheSizeBudgetBytes:       8 << 20,
		QualityGateTier:            "auto",
		QualityGateRatchetEnabled:  true,
		QualityGateExemptionsFile:  ".quality_exemptions.yaml",
		AdapterTimeouts:            map[string]int{},
	}
}

// Load reads pyproject.toml's [tool.crackerjack] table if present,
// else crackerjack.yaml, else falls back to Defaults() alone; merges
// the result over Defaults(), validates it against the JSON schema,
// and returns the frozen Settings.
func Load(projectRoot string) (Settings, error) {
	raw, source, err := readRawConfig(projectRoot)
	if err != nil {
		return Settings{}, err
	}

	settings := Defaults()
	raw.applyTo(&settings)

	if err := validate(settings); err != nil {
		return Settings{}, fmt.Errorf("config: invalid settings loaded from %s: %w", source, err)
	}
	return settings, nil
}

func readRawConfig(projectRoot string) (rawSettings, string, error) {
	pyprojectPath := filepath.Join(projectRoot, "pyproject.toml")
	if _, err := os.Stat(pyprojectPath); err == nil {
		var file pyprojectFile
		if _, err := toml.DecodeFile(pyprojectPath, &file); err != nil {
			return rawSettings{}, pyprojectPath, fmt.Errorf("config: decoding %s: %w", pyprojectPath, err)
		}
		return file.Tool.Crackerjack, pyprojectPath, nil
	}

	yamlPath := filepath.Join(projectRoot, "crackerjack.yaml")
	if data, err := os.ReadFile(yamlPath); err == nil {
		var raw rawSettings
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return rawSettings{}, yamlPath, fmt.Errorf("config: decoding %s: %w", yamlPath, err)
		}
		return raw, yamlPath, nil
	}

	return rawSettings{}, "(defaults only, no config file found)", nil
}
