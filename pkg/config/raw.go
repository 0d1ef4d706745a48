package config

// rawSettings mirrors the on-disk shape of either config source
// (spec.md §6's "Configuration surface"). Every field is a pointer or
// nil map so "absent" is distinguishable from "explicitly zero" —
// only present fields override Defaults().
type rawSettings struct {
	Strategy          *string `toml:"strategy" yaml:"strategy"`
	Incremental       *bool   `toml:"incremental" yaml:"incremental"`
	FullScanThreshold *int    `toml:"full_scan_threshold" yaml:"full_scan_threshold"`
	BaseBranch        *string `toml:"base_branch" yaml:"base_branch"`

	Autofix struct {
		Enabled             *bool `toml:"enabled" yaml:"enabled"`
		NoProgressThreshold *int  `toml:"no_progress_threshold" yaml:"no_progress_threshold"`
		MaxDiffLines        *int  `toml:"max_diff_lines" yaml:"max_diff_lines"`
	} `toml:"autofix" yaml:"autofix"`

	Parallel struct {
		MaxWorkers *int `toml:"max_workers" yaml:"max_workers"`
	} `toml:"parallel" yaml:"parallel"`

	Cache struct {
		Enabled         *bool  `toml:"enabled" yaml:"enabled"`
		SizeBudgetBytes *int64 `toml:"size_budget_bytes" yaml:"size_budget_bytes"`
	} `toml:"cache" yaml:"cache"`

	QualityGate struct {
		Tier    *string `toml:"tier" yaml:"tier"`
		Ratchet struct {
			Enabled *bool `toml:"enabled" yaml:"enabled"`
		} `toml:"ratchet" yaml:"ratchet"`
		ExemptionsFile *string `toml:"exemptions_file" yaml:"exemptions_file"`
	} `toml:"quality_gate" yaml:"quality_gate"`

	AdapterTimeouts map[string]int `toml:"adapter_timeouts" yaml:"adapter_timeouts"`
}

// pyprojectFile matches the `[tool.crackerjack]` nesting pyproject.toml
// requires; crackerjack.yaml carries rawSettings unnested at the
// document root.
type pyprojectFile struct {
	Tool struct {
		Crackerjack rawSettings `toml:"crackerjack"`
	} `toml:"tool"`
}

// applyTo overlays every present field of r onto settings, leaving
// Defaults() untouched wherever r left a field unset.
func (r rawSettings) applyTo(settings *Settings) {
	if r.Strategy != nil {
		settings.Strategy = *r.Strategy
	}
	if r.Incremental != nil {
		settings.Incremental = *r.Incremental
	}
	if r.FullScanThreshold != nil {
		settings.FullScanThreshold = *r.FullScanThreshold
	}
	if r.BaseBranch != nil {
		settings.BaseBranch = *r.BaseBranch
	}
	if r.Autofix.Enabled != nil {
		settings.AutofixEnabled = *r.Autofix.Enabled
	}
	if r.Autofix.NoProgressThreshold != nil {
		settings.AutofixNoProgressThreshold = *r.Autofix.NoProgressThreshold
	}
	if r.Autofix.MaxDiffLines != nil {
		settings.AutofixMaxDiffLines = *r.Autofix.MaxDiffLines
	}
	if r.Parallel.MaxWorkers != nil {
		settings.ParallelMaxWorkers = *r.Parallel.MaxWorkers
	}
	if r.Cache.Enabled != nil {
		settings.CacheEnabled = *r.Cache.Enabled
	}
	if r.Cache.SizeBudgetBytes != nil {
		settings.CacheSizeBudgetBytes = *r.Cache.SizeBudgetBytes
	}
	if r.QualityGate.Tier != nil {
		settings.QualityGateTier = *r.QualityGate.Tier
	}
	if r.QualityGate.Ratchet.Enabled != nil {
		settings.QualityGateRatchetEnabled = *r.QualityGate.Ratchet.Enabled
	}
	if r.QualityGate.ExemptionsFile != nil {
		settings.QualityGateExemptionsFile = *r.QualityGate.ExemptionsFile
	}
	if len(r.AdapterTimeouts) > 0 {
		merged := make(map[string]int, len(settings.AdapterTimeouts)+len(r.AdapterTimeouts))
		for k, v := range settings.AdapterTimeouts {
			merged[k] = v
		}
		for k, v := range r.AdapterTimeouts {
			merged[k] = v
		}
		settings.AdapterTimeouts = merged
	}
}
