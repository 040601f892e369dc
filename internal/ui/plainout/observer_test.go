package plainout

import (
	"errors"
	"strings"
	"testing"
	"time"

	"parley/internal/activity"
	"parley/internal/conference"
)

// TestObserverPrintsEntries verifies one line per entry.
func TestObserverPrintsEntries(t *testing.T) {
	var buf strings.Builder
	observer := NewObserver(&buf)
	at := time.Date(2026, 3, 1, 9, 30, 15, 0, time.UTC)
	observer.OnEntry(activity.Entry{Timestamp: at, Kind: "agent", Detail: "empiricist thinking"})
	observer.OnEntry(activity.Entry{Timestamp: at, Kind: "routing", Phase: "routing", Status: "complete"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "09:30:15 [agent] empiricist thinking" {
		t.Fatalf("unexpected line %q", lines[0])
	}
	if lines[1] != "09:30:15 [routing] routing complete" {
		t.Fatalf("unexpected line %q", lines[1])
	}
}

// TestObserverPrintsTerminal verifies outcome lines with and without error.
func TestObserverPrintsTerminal(t *testing.T) {
	var buf strings.Builder
	observer := NewObserver(&buf)
	observer.OnTerminal(conference.StatusComplete, nil)
	observer.OnTerminal(conference.StatusError, errors.New("budget exceeded"))

	out := buf.String()
	if !strings.Contains(out, "Conference ended: complete") {
		t.Fatalf("missing success line: %q", out)
	}
	if !strings.Contains(out, "Conference ended: error (budget exceeded)") {
		t.Fatalf("missing error line: %q", out)
	}
}

// TestObserverNilWriterIsSafe verifies a zero observer drops output.
func TestObserverNilWriterIsSafe(t *testing.T) {
	observer := NewObserver(nil)
	observer.OnEntry(activity.Entry{})
	observer.OnTerminal(conference.StatusComplete, nil)
}
