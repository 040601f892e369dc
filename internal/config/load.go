package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"parley/internal/conference"
)

// Load reads, parses, normalizes, and validates a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, err
	}
	Normalize(&cfg)
	if err := Validate(&cfg, BaseDirFromConfigPath(path)); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BaseDirFromConfigPath anchors relative paths at the config's directory.
func BaseDirFromConfigPath(path string) string {
	dir := filepath.Dir(path)
	if dir == "" {
		return "."
	}
	return dir
}

// PhaseEstimates converts the estimates section into per-phase weights.
func (c *Config) PhaseEstimates() map[conference.PhaseKey]time.Duration {
	if len(c.Estimates) == 0 {
		return nil
	}
	out := make(map[conference.PhaseKey]time.Duration, len(c.Estimates))
	for key, seconds := range c.Estimates {
		out[conference.PhaseKey(key)] = time.Duration(seconds) * time.Second
	}
	return out
}

// Timeout returns the backend request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}
