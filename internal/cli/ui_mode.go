package cli

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// uiModeDecision captures whether to use the live dashboard.
type uiModeDecision struct {
	useLive bool
	warning string
}

// isTerminal reports whether a writer is a TTY.
var isTerminal = defaultIsTerminal

// parseUIMode normalizes a ui mode value against the vocabulary.
func parseUIMode(mode string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(mode))
	if normalized == "" {
		return "auto", nil
	}
	switch normalized {
	case "auto", "live", "plain":
		return normalized, nil
	}
	return "", fmt.Errorf("invalid ui mode %q (expected auto|live|plain)", mode)
}

// resolveUIMode determines whether to enable the live dashboard.
func resolveUIMode(mode string, stdout io.Writer) (uiModeDecision, error) {
	parsed, err := parseUIMode(mode)
	if err != nil {
		return uiModeDecision{}, err
	}
	if parsed == "plain" {
		return uiModeDecision{}, nil
	}
	tty := isTerminal(stdout)
	if parsed == "live" && !tty {
		return uiModeDecision{
			warning: "Live UI requested but stdout is not a TTY; falling back to plain output.",
		}, nil
	}
	return uiModeDecision{useLive: tty}, nil
}

// defaultIsTerminal inspects stdout for TTY support.
func defaultIsTerminal(stdout io.Writer) bool {
	fder, ok := stdout.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(fder.Fd()))
}
