// Package gate implements the tiered, ratcheted quality gate that
// accepts or rejects a run's overall outcome (spec.md §4.9).
package gate

import (
	"fmt"
	"time"

	"github.com/crackerjack-ci/crackerjack/pkg/issue"
	"github.com/crackerjack-ci/crackerjack/pkg/logger"
)

var log = logger.New("gate")

// Tier is one of the fixed strictness levels, or Auto to let
// SelectTier infer one from the project's shape.
type Tier string

const (
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
	TierAuto   Tier = "auto"
)

// Thresholds are the per-tier numeric limits checked against a run's
// Metrics and finding counts. No field gets looser moving bronze ->
// silver -> gold: MaxCriticalFindings is 0 in every tier and every
// other field is strictly stricter (spec.md §4.9).
type Thresholds struct {
	MinCoveragePercent        float64
	MaxAvgComplexity          float64
	MaxCriticalFindings       int
	MaxHighFindings           int
	MaxMediumFindings         int
	MinDocCoveragePercent     float64
	MaxDuplicationPercent     float64
	MinTypeHintCoveragePercent float64
}

// tierThresholds holds the concrete numbers for each non-auto tier
// (spec.md §4.9a). Each field is monotonically stricter bronze -> gold.
var tierThresholds = map[Tier]Thresholds{
	TierBronze: {
		MinCoveragePercent:         50,
		MaxAvgComplexity:           15,
		MaxCriticalFindings:        0,
		MaxHighFindings:            10,
		MaxMediumFindings:          50,
		MinDocCoveragePercent:      20,
		MaxDuplicationPercent:      20,
		MinTypeHintCoveragePercent: 40,
	},
	TierSilver: {
		MinCoveragePercent:         75,
		MaxAvgComplexity:           10,
		MaxCriticalFindings:        0,
		MaxHighFindings:            3,
		MaxMediumFindings:          20,
		MinDocCoveragePercent:      60,
		MaxDuplicationPercent:      10,
		MinTypeHintCoveragePercent: 75,
	},
	TierGold: {
		MinCoveragePercent:         90,
		MaxAvgComplexity:           7,
		MaxCriticalFindings:        0,
		MaxHighFindings:            0,
		MaxMediumFindings:          5,
		MinDocCoveragePercent:      90,
		MaxDuplicationPercent:      3,
		MinTypeHintCoveragePercent: 95,
	},
}

// ThresholdsFor returns the concrete Thresholds for a non-auto tier.
func ThresholdsFor(tier Tier) (Thresholds, bool) {
	t, ok := tierThresholds[tier]
	return t, ok
}

// SelectTier infers a tier from project shape when config sets
// quality_gate.tier = auto (spec.md §4.9): a published-package marker
// (cmd/crackerjack reports one for a go.mod with no cmd/*/main.go) selects
// gold, an executable entry point (cmd/*/main.go) selects silver,
// otherwise bronze.
func SelectTier(hasPublishedPackageMarker, hasExecutableEntryPoint bool) Tier {
	switch {
	case hasPublishedPackageMarker:
		return TierGold
	case hasExecutableEntryPoint:
		return TierSilver
	default:
		return TierBronze
	}
}

// Metrics are the continuous, project-wide measurements a gate
// evaluates; everything that isn't a simple finding count (spec.md
// §4.9). Producing these is out of this package's scope — callers
// (cmd/crackerjack) wire in a coverage tool, a complexity aggregator,
// etc.
type Metrics struct {
	CoveragePercent        float64
	AvgComplexity          float64
	DocCoveragePercent     float64
	DuplicationPercent     float64
	TypeHintCoveragePercent float64
}

// GateResult is the gate's verdict (spec.md §4.9). JSON tags support
// the supplemented `--json` CI export (spec.md §9).
type GateResult struct {
	Passed     bool     `json:"passed"`
	Tier       Tier     `json:"tier"`
	Violations []string `json:"violations"`
	Warnings   []string `json:"warnings"`
}

// Gate evaluates runs against a tier's thresholds plus an optional
// ratchet against a persisted Baseline.
type Gate struct {
	Tier           Tier
	RatchetEnabled bool
	BaselinePath   string
	Exemptions     []Exemption
}

// New constructs a Gate. baselinePath may be empty when
// ratchetEnabled is false.
func New(tier Tier, ratchetEnabled bool, baselinePath string, exemptions []Exemption) *Gate {
	return &Gate{Tier: tier, RatchetEnabled: ratchetEnabled, BaselinePath: baselinePath, Exemptions: exemptions}
}

// Evaluate runs the full spec.md §4.9 algorithm: tier-threshold
// checks against the unfiltered finding counts, then (if enabled) a
// ratchet comparison against the persisted baseline, with active
// exemptions suppressing specific (file, check_type) pairs from
// counting toward a regression. A passing, ratchet-enabled run
// updates the baseline.
func (g *Gate) Evaluate(metrics Metrics, issues []issue.Issue, hasPublishedPackageMarker, hasExecutableEntryPoint bool) (GateResult, error) {
	tier := g.Tier
	if tier == TierAuto || tier == "" {
		tier = SelectTier(hasPublishedPackageMarker, hasExecutableEntryPoint)
	}
	thresholds, ok := ThresholdsFor(tier)
	if !ok {
		return GateResult{}, fmt.Errorf("gate: unknown tier %q", tier)
	}

	var violations, warnings []string

	counts := issue.CountBySeverity(issues)
	critical, high, medium := counts[issue.SeverityCritical], counts[issue.SeverityHigh], counts[issue.SeverityMedium]

	if metrics.CoveragePercent < thresholds.MinCoveragePercent {
		violations = append(violations, fmt.Sprintf("coverage %.1f%% below %s threshold %.1f%%", metrics.CoveragePercent, tier, thresholds.MinCoveragePercent))
	}
	if metrics.AvgComplexity > thresholds.MaxAvgComplexity {
		violations = append(violations, fmt.Sprintf("avg complexity %.1f above %s threshold %.1f", metrics.AvgComplexity, tier, thresholds.MaxAvgComplexity))
	}
	if critical > thresholds.MaxCriticalFindings {
		violations = append(violations, fmt.Sprintf("%d critical findings exceed %s threshold %d", critical, tier, thresholds.MaxCriticalFindings))
	}
	if high > thresholds.MaxHighFindings {
		violations = append(violations, fmt.Sprintf("%d high findings exceed %s threshold %d", high, tier, thresholds.MaxHighFindings))
	}
	if medium > thresholds.MaxMediumFindings {
		violations = append(violations, fmt.Sprintf("%d medium findings exceed %s threshold %d", medium, tier, thresholds.MaxMediumFindings))
	}
	if metrics.DocCoveragePercent < thresholds.MinDocCoveragePercent {
		violations = append(violations, fmt.Sprintf("doc coverage %.1f%% below %s threshold %.1f%%", metrics.DocCoveragePercent, tier, thresholds.MinDocCoveragePercent))
	}
	if metrics.DuplicationPercent > thresholds.MaxDuplicationPercent {
		violations = append(violations, fmt.Sprintf("duplication %.1f%% above %s threshold %.1f%%", metrics.DuplicationPercent, tier, thresholds.MaxDuplicationPercent))
	}
	if metrics.TypeHintCoveragePercent < thresholds.MinTypeHintCoveragePercent {
		violations = append(violations, fmt.Sprintf("type-hint-equivalent coverage %.1f%% below %s threshold %.1f%%", metrics.TypeHintCoveragePercent, tier, thresholds.MinTypeHintCoveragePercent))
	}

	if g.RatchetEnabled {
		baseline, err := LoadBaseline(g.BaselinePath)
		if err != nil {
			return GateResult{}, fmt.Errorf("gate: loading baseline: %w", err)
		}

		now := time.Now()
		nonExempt := filterExempt(issues, g.Exemptions, now)
		nonExemptCounts := issue.CountBySeverity(nonExempt)

		current := Baseline{
			Metrics:         metrics,
			CriticalFindings: nonExemptCounts[issue.SeverityCritical],
			HighFindings:     nonExemptCounts[issue.SeverityHigh],
			MediumFindings:   nonExemptCounts[issue.SeverityMedium],
		}

		if baseline != nil {
			regressions := current.Regressions(*baseline)
			violations = append(violations, regressions...)
		}

		if len(violations) == 0 {
			if err := SaveBaseline(g.BaselinePath, current); err != nil {
				log.Printf("failed to persist quality baseline: %v", err)
				warnings = append(warnings, fmt.Sprintf("baseline not persisted: %v", err))
			}
		}
	}

	return GateResult{
		Passed:     len(violations) == 0,
		Tier:       tier,
		Violations: violations,
		Warnings:   warnings,
	}, nil
}

// filterExempt drops issues covered by an active exemption, so they
// don't count toward a ratchet regression (spec.md §3, §4.9).
func filterExempt(issues []issue.Issue, exemptions []Exemption, now time.Time) []issue.Issue {
	if len(exemptions) == 0 {
		return issues
	}
	out := make([]issue.Issue, 0, len(issues))
	for _, it := range issues {
		exempted := false
		for _, ex := range exemptions {
			if ex.Active(now) && ex.Matches(it.FilePath, string(it.Type)) {
				exempted = true
				break
			}
		}
		if !exempted {
			out = append(out, it)
		}
	}
	return out
}
