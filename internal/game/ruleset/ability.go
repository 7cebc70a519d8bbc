// Package ruleset defines the content-driven parts of the generator: the six
// ability definitions shown to players, loaded from YAML files.
package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/statforge/internal/game/pool"
)

// Ability describes one ability slot for display purposes. The ID must match
// one of the six fixed pool slots; everything else is presentation content.
//
// Precondition: ID, Name, and Abbrev must be non-empty after loading.
type Ability struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Abbrev      string `yaml:"abbrev"`
	Description string `yaml:"description"`
	// Order controls display position; lower comes first.
	Order int `yaml:"order"`
}

// LoadAbilities reads all .yaml files in dir and parses each as an Ability,
// returned sorted by Order.
//
// Precondition: dir must be a readable directory path.
// Postcondition: returns a set validated by ValidateAbilities, or a non-nil error.
func LoadAbilities(dir string) ([]*Ability, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	abilities := make([]*Ability, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var a Ability
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("parsing ability file %s: %w", path, err)
		}
		abilities = append(abilities, &a)
	}
	sortAbilities(abilities)
	if err := ValidateAbilities(abilities); err != nil {
		return nil, fmt.Errorf("ability content in %s: %w", dir, err)
	}
	return abilities, nil
}

// DefaultAbilities returns the built-in six abilities, used when no content
// directory is configured.
func DefaultAbilities() []*Ability {
	return []*Ability{
		{ID: "strength", Name: "Strength", Abbrev: "STR", Description: "Raw physical power.", Order: 1},
		{ID: "dexterity", Name: "Dexterity", Abbrev: "DEX", Description: "Agility, reflexes, and balance.", Order: 2},
		{ID: "constitution", Name: "Constitution", Abbrev: "CON", Description: "Endurance and vitality.", Order: 3},
		{ID: "intelligence", Name: "Intelligence", Abbrev: "INT", Description: "Reasoning and memory.", Order: 4},
		{ID: "wisdom", Name: "Wisdom", Abbrev: "WIS", Description: "Perception and insight.", Order: 5},
		{ID: "charisma", Name: "Charisma", Abbrev: "CHA", Description: "Force of personality.", Order: 6},
	}
}

// ValidateAbilities checks that the set covers exactly the six fixed slots,
// once each, with display fields present.
func ValidateAbilities(abilities []*Ability) error {
	if len(abilities) != pool.Capacity {
		return fmt.Errorf("expected %d abilities, got %d", pool.Capacity, len(abilities))
	}
	seen := make(map[string]bool, len(abilities))
	for _, a := range abilities {
		if a.Name == "" || a.Abbrev == "" {
			return fmt.Errorf("ability %q must have a name and abbrev", a.ID)
		}
		if _, ok := pool.ParseSlot(a.ID); !ok {
			return fmt.Errorf("ability id %q is not a known slot", a.ID)
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate ability id %q", a.ID)
		}
		seen[a.ID] = true
	}
	return nil
}

// Slot returns the pool slot this ability describes.
//
// Precondition: the ability passed ValidateAbilities.
func (a *Ability) Slot() pool.Slot {
	s, _ := pool.ParseSlot(a.ID)
	return s
}

func sortAbilities(abilities []*Ability) {
	for i := 1; i < len(abilities); i++ {
		for j := i; j > 0 && abilities[j].Order < abilities[j-1].Order; j-- {
			abilities[j], abilities[j-1] = abilities[j-1], abilities[j]
		}
	}
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
