// Package config owns the .parley.yml schema: strict parsing, defaults,
// and validation.
package config

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config is the root of .parley.yml.
type Config struct {
	Version      int                 `yaml:"version"`
	Backend      BackendConfig       `yaml:"backend"`
	Mode         string              `yaml:"mode"`
	Scout        *bool               `yaml:"scout"`
	Fragility    FragilityConfig     `yaml:"fragility"`
	Participants []ParticipantConfig `yaml:"participants"`
	Documents    []string            `yaml:"documents"`
	UI           string              `yaml:"ui"`
	Estimates    map[string]int      `yaml:"estimates"`
}

// BackendConfig locates the conference backend.
type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// FragilityConfig toggles robustness testing.
type FragilityConfig struct {
	Enabled *bool `yaml:"enabled"`
	Tests   int   `yaml:"tests"`
}

// ParticipantConfig describes one deliberation role entry.
type ParticipantConfig struct {
	Role    string `yaml:"role"`
	Model   string `yaml:"model"`
	Enabled *bool  `yaml:"enabled"`
}

// ScoutEnabled reports whether the scout stage is requested; unset means on.
func (c *Config) ScoutEnabled() bool {
	return c.Scout == nil || *c.Scout
}

// FragilityEnabled reports whether robustness testing is requested;
// unset means on.
func (c *Config) FragilityEnabled() bool {
	return c.Fragility.Enabled == nil || *c.Fragility.Enabled
}

// ParseConfig decodes a single-document YAML config, rejecting unknown
// fields.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
