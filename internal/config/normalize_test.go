package config

import "testing"

// TestNormalizeDefaults verifies all defaults are filled on an empty config.
func TestNormalizeDefaults(t *testing.T) {
	cfg := Config{}
	Normalize(&cfg)

	if cfg.Version != 1 {
		t.Fatalf("expected version 1, got %d", cfg.Version)
	}
	if cfg.Backend.BaseURL != "http://localhost:8787" {
		t.Fatalf("unexpected base url %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutSeconds != 10 {
		t.Fatalf("unexpected timeout %d", cfg.Backend.TimeoutSeconds)
	}
	if cfg.UI != "auto" {
		t.Fatalf("unexpected ui mode %q", cfg.UI)
	}
	if cfg.Fragility.Tests != 5 {
		t.Fatalf("unexpected fragility tests %d", cfg.Fragility.Tests)
	}
	if len(cfg.Participants) != 5 {
		t.Fatalf("expected full default roster, got %d", len(cfg.Participants))
	}
}

// TestNormalizeKeepsExplicitValues verifies set fields are untouched.
func TestNormalizeKeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Version:      1,
		Backend:      BackendConfig{BaseURL: "https://conf.example.com", TimeoutSeconds: 30},
		UI:           "plain",
		Participants: []ParticipantConfig{{Role: "arbiter"}},
	}
	Normalize(&cfg)

	if cfg.Backend.BaseURL != "https://conf.example.com" || cfg.Backend.TimeoutSeconds != 30 {
		t.Fatalf("backend overridden: %+v", cfg.Backend)
	}
	if cfg.UI != "plain" {
		t.Fatalf("ui overridden: %q", cfg.UI)
	}
	if len(cfg.Participants) != 1 {
		t.Fatalf("roster overridden: %+v", cfg.Participants)
	}
}
