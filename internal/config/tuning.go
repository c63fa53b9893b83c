package config

import (
	"fmt"
	"os"

	"apibench/internal/core"

	"gopkg.in/yaml.v3"
)

// Tuning carries optional per-action overrides loaded from a YAML
// file. Fields left out of the file keep the catalog's built-in
// values; an explicit zero is honored.
type Tuning struct {
	Actions []ActionTuning `yaml:"actions"`
}

// ActionTuning overrides the counts of one named catalog action.
type ActionTuning struct {
	Name        string `yaml:"name"`
	Warmups     *int   `yaml:"warmups"`
	Repetitions *int   `yaml:"repetitions"`
	Operations  *int   `yaml:"operations"`
}

// LoadTuning reads and parses a YAML tuning file.
func LoadTuning(path string) (*Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tuning file: %w", err)
	}

	var t Tuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing tuning file: %w", err)
	}
	return &t, nil
}

// Apply rewrites the counts of matching catalog entries in place.
// Naming an unknown action or a negative count is an error.
func (t *Tuning) Apply(catalog []core.Action) error {
	for _, at := range t.Actions {
		idx := -1
		for i := range catalog {
			if catalog[i].Name == at.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("tuning file names unknown action %q", at.Name)
		}

		if at.Warmups != nil {
			if *at.Warmups < 0 {
				return fmt.Errorf("action %q: warmups must be non-negative", at.Name)
			}
			catalog[idx].Warmups = *at.Warmups
		}
		if at.Repetitions != nil {
			if *at.Repetitions < 0 {
				return fmt.Errorf("action %q: repetitions must be non-negative", at.Name)
			}
			catalog[idx].Repetitions = *at.Repetitions
		}
		if at.Operations != nil {
			if *at.Operations < 0 {
				return fmt.Errorf("action %q: operations must be non-negative", at.Name)
			}
			catalog[idx].Operations = *at.Operations
		}
	}
	return nil
}
