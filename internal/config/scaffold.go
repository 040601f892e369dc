package config

import (
	"fmt"
	"os"
)

const defaultConfig = `version: 1

backend:
  base_url: "http://localhost:8787"
  timeout_seconds: 10

# mode overrides the backend's routing decision; leave empty for auto.
mode: ""

# scout toggles the literature retrieval stage.
scout: true

fragility:
  enabled: true
  tests: 5

participants:
  - role: empiricist
    model: "gpt-4.1"
  - role: pragmatist
    model: "gpt-4.1"
  - role: theorist
    model: "claude-sonnet-4"
  - role: contrarian
    model: "claude-sonnet-4"
  - role: arbiter
    model: "gpt-4.1"

# documents lists supplementary context files sent with the job.
documents: []

# ui selects the output mode: auto, live, or plain.
ui: auto

# estimates overrides per-phase weights (seconds) used for progress math.
estimates:
  lane_a: 45
  lane_b: 45
`

// Scaffold writes a starter .parley.yml, refusing to overwrite.
func Scaffold(path string) error {
	if path == "" {
		return fmt.Errorf("config path is required")
	}
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", path)
		}
		return fmt.Errorf("config file already exists at %q", path)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
