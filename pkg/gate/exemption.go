package gate

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Exemption suppresses ratchet regression checks for one
// (file_path, check_type) pair until it expires (spec.md §3).
type Exemption struct {
	FilePath  string    `yaml:"file_path"`
	CheckType string    `yaml:"check_type"`
	Reason    string    `yaml:"reason"`
	IssuedAt  time.Time `yaml:"issued_at"`
	ExpiresAt time.Time `yaml:"expires_at"`
}

// Active reports whether the exemption is still in force at now. An
// expired exemption is inert (spec.md §3).
func (e Exemption) Active(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// Matches reports whether the exemption covers filePath/checkType.
// "*" in either field matches anything, for blanket per-file or
// per-check exemptions.
func (e Exemption) Matches(filePath, checkType string) bool {
	return (e.FilePath == "*" || e.FilePath == filePath) &&
		(e.CheckType == "*" || e.CheckType == checkType)
}

type exemptionFile struct {
	Exemptions []Exemption `yaml:"exemptions"`
}

// LoadExemptions reads `<project>/.quality_exemptions.yaml` (spec.md
// §6). A missing file is not an error: it means no exemptions are
// configured.
func LoadExemptions(path string) ([]Exemption, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading exemptions file %s: %w", path, err)
	}
	var f exemptionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding exemptions file %s: %w", path, err)
	}
	return f.Exemptions, nil
}
