package config

import "parley/internal/conference"

const (
	defaultBaseURL        = "http://localhost:8787"
	defaultTimeoutSeconds = 10
	defaultFragilityTests = 5
	defaultUIMode         = "auto"
)

// Normalize fills defaults so that downstream code never re-checks them.
func Normalize(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = defaultBaseURL
	}
	if cfg.Backend.TimeoutSeconds <= 0 {
		cfg.Backend.TimeoutSeconds = defaultTimeoutSeconds
	}
	if cfg.UI == "" {
		cfg.UI = defaultUIMode
	}
	if cfg.Fragility.Tests <= 0 {
		cfg.Fragility.Tests = defaultFragilityTests
	}
	if len(cfg.Participants) == 0 {
		for _, role := range conference.Roles() {
			cfg.Participants = append(cfg.Participants, ParticipantConfig{Role: string(role)})
		}
	}
}
