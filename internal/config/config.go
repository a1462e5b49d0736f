// Package config loads the optional tinder.yaml project file (SPEC_FULL.md
// §4.12), the same way the teacher's own snapshot-testing dependency chain
// configures itself via a checked-in YAML file rather than flags alone.
package config

import (
	"os"

	"github.com/goccy/go-yaml"
)

// Rename is the per-emitter RenameSymbols policy (spec.md §4.9/§6): each
// target supplies its own reserved-word set and overload-mangling choice.
type Rename struct {
	ReservedWords   []string `yaml:"reservedWords"`
	MangleOverloads bool     `yaml:"mangleOverloads"`
}

// Config is tinder.yaml's shape.
type Config struct {
	WarningsAsErrors bool   `yaml:"warningsAsErrors"`
	Rename           Rename `yaml:"rename"`
	Color            *bool  `yaml:"color"`
}

// Built-in target profiles: dynamic targets (JS-like) can represent
// overloading so need no mangling; systems targets (C-like) can't.
var (
	DynamicTarget = Rename{MangleOverloads: false}
	SystemsTarget = Rename{
		ReservedWords:   []string{"int", "float", "char", "void", "struct", "static", "return", "if", "else", "while", "for"},
		MangleOverloads: true,
	}
)

// Default returns the zero-value configuration: warnings don't fail the
// build, no reserved words, color auto-detected.
func Default() *Config {
	return &Config{}
}

// Load reads and parses path. A missing file is not an error — it returns
// Default() so a bare `tinderc check file.td` works with no tinder.yaml
// present.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReservedSet builds the map[string]bool passes.NewRenameSymbols expects
// from the configured reserved-word list.
func (c *Config) ReservedSet() map[string]bool {
	set := make(map[string]bool, len(c.Rename.ReservedWords))
	for _, w := range c.Rename.ReservedWords {
		set[w] = true
	}
	return set
}
