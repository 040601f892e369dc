package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"parley/internal/conference"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// issueCollector accumulates validation issues.
type issueCollector struct {
	issues []Issue
}

// add records a new validation issue.
func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

// result returns a ValidationError when issues are present.
func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

// Validate checks a normalized config and its referenced files. baseDir
// anchors relative document paths.
func Validate(cfg *Config, baseDir string) error {
	collector := &issueCollector{}
	if baseDir == "" {
		baseDir = "."
	}

	if cfg.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}
	validateBackend(cfg, collector)
	validateUI(cfg, collector)
	validateParticipants(cfg, collector)
	validateEstimates(cfg, collector)
	validateDocuments(cfg, baseDir, collector)
	if cfg.Fragility.Tests > 50 {
		collector.add("fragility.tests", fmt.Sprintf("%d exceeds the maximum of 50", cfg.Fragility.Tests))
	}

	return collector.result()
}

// validateBackend checks the backend endpoint.
func validateBackend(cfg *Config, collector *issueCollector) {
	raw := strings.TrimSpace(cfg.Backend.BaseURL)
	if raw == "" {
		collector.add("backend.base_url", "is required")
		return
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		collector.add("backend.base_url", fmt.Sprintf("%q is not an http(s) URL", raw))
	}
}

// validateUI checks the ui mode value.
func validateUI(cfg *Config, collector *issueCollector) {
	switch cfg.UI {
	case "auto", "live", "plain":
	default:
		collector.add("ui", fmt.Sprintf("invalid mode %q (expected auto|live|plain)", cfg.UI))
	}
}

// validateParticipants checks roles against the fixed vocabulary.
func validateParticipants(cfg *Config, collector *issueCollector) {
	seen := map[string]bool{}
	for i, participant := range cfg.Participants {
		field := fmt.Sprintf("participants[%d].role", i)
		role := strings.TrimSpace(participant.Role)
		if role == "" {
			collector.add(field, "is required")
			continue
		}
		if !conference.KnownRole(conference.AgentRole(role)) {
			collector.add(field, fmt.Sprintf("unknown role %q", role))
		}
		if seen[role] {
			collector.add(field, fmt.Sprintf("duplicate role %q", role))
		}
		seen[role] = true
	}
}

// validateEstimates checks phase-weight overrides.
func validateEstimates(cfg *Config, collector *issueCollector) {
	for key, seconds := range cfg.Estimates {
		field := fmt.Sprintf("estimates.%s", key)
		if !conference.KnownPhase(conference.PhaseKey(key)) {
			collector.add(field, fmt.Sprintf("unknown phase %q", key))
		}
		if seconds <= 0 {
			collector.add(field, fmt.Sprintf("%d is not a positive number of seconds", seconds))
		}
	}
}

// validateDocuments checks that supplementary documents exist.
func validateDocuments(cfg *Config, baseDir string, collector *issueCollector) {
	for i, doc := range cfg.Documents {
		field := fmt.Sprintf("documents[%d]", i)
		if strings.TrimSpace(doc) == "" {
			collector.add(field, "is empty")
			continue
		}
		path := doc
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			collector.add(field, fmt.Sprintf("file not found: %s", doc))
			continue
		}
		if info.IsDir() {
			collector.add(field, fmt.Sprintf("%s is a directory", doc))
		}
	}
}
