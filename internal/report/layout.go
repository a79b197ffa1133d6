package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Layout is the report layout policy: section truncation caps carried as
// configuration rather than constants baked into the builder.
type Layout struct {
	MaxHypotheses           int `yaml:"max_hypotheses"`
	MaxInterventions        int `yaml:"max_interventions"`
	MaxProvidersPerCategory int `yaml:"max_providers_per_category"`
}

// DefaultLayout returns the upstream caps: 3 hypotheses, 3 interventions,
// 5 providers per category.
func DefaultLayout() Layout {
	return Layout{
		MaxHypotheses:           3,
		MaxInterventions:        3,
		MaxProvidersPerCategory: 5,
	}
}

// LoadLayout reads a YAML policy file over the defaults. Fields left unset
// in the file keep their default values.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout %s: %w", path, err)
	}
	l := DefaultLayout()
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("parse layout %s: %w", path, err)
	}
	if l.MaxHypotheses <= 0 || l.MaxInterventions <= 0 || l.MaxProvidersPerCategory <= 0 {
		return Layout{}, fmt.Errorf("layout %s: caps must be positive", path)
	}
	return l, nil
}
