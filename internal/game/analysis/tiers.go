package analysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tier is one recommendation band. A score set matches the first tier, in
// declaration order, whose Threshold its average success chance meets.
type Tier struct {
	// ID is the tier identifier, also used as a style tag by presentation layers.
	ID string `yaml:"id"`
	// Threshold is the minimum average success percentage for this tier.
	Threshold float64 `yaml:"threshold"`
	// Message is the recommendation text shown to the user.
	Message string `yaml:"message"`
}

// DefaultTiers returns the built-in tier table used when no content file is
// configured.
func DefaultTiers() []Tier {
	return []Tier{
		{
			ID:        "heroic",
			Threshold: 60,
			Message:   "Heroic scores! This character is exceptionally powerful. Ideal for tough campaigns!",
		},
		{
			ID:        "strong",
			Threshold: 55,
			Message:   "A very solid, above-average set of scores. A great starting point!",
		},
		{
			ID:        "standard",
			Threshold: 50,
			Message:   "Perfectly balanced! This character lines up with the classic standard, ready for any adventure.",
		},
		{
			ID:        "challenging",
			Threshold: 45,
			Message:   "A character facing some challenges. Makes for an interesting game with room to overcome.",
		},
		{
			ID:        "low",
			Threshold: 0,
			Message:   "These scores are quite low. Expect a considerable challenge. You might consider rerolling.",
		},
	}
}

// tierFile is the YAML document shape for a tier content file.
type tierFile struct {
	Tiers []Tier `yaml:"tiers"`
}

// LoadTiers reads a tier table from a YAML file.
//
// Precondition: path must be a readable YAML file.
// Postcondition: returns a validated tier table or a non-nil error.
func LoadTiers(path string) ([]Tier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tier file %s: %w", path, err)
	}
	var f tierFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing tier file %s: %w", path, err)
	}
	if err := ValidateTiers(f.Tiers); err != nil {
		return nil, fmt.Errorf("tier file %s: %w", path, err)
	}
	return f.Tiers, nil
}

// ValidateTiers checks the structural requirements of a tier table: at least
// one tier, unique non-empty IDs, non-empty messages, and strictly descending
// thresholds so the first-match rule is well defined.
func ValidateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("tier table must not be empty")
	}
	seen := make(map[string]bool, len(tiers))
	for i, t := range tiers {
		if t.ID == "" {
			return fmt.Errorf("tier %d has an empty id", i)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate tier id %q", t.ID)
		}
		seen[t.ID] = true
		if t.Message == "" {
			return fmt.Errorf("tier %q has an empty message", t.ID)
		}
		if i > 0 && t.Threshold >= tiers[i-1].Threshold {
			return fmt.Errorf("tier thresholds must be strictly descending: %q (%v) >= %q (%v)",
				t.ID, t.Threshold, tiers[i-1].ID, tiers[i-1].Threshold)
		}
	}
	return nil
}
