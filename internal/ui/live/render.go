package live

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"parley/internal/activity"
	"parley/internal/conference"
	"parley/internal/monitor"
)

// renderHeader renders the job status line.
func renderHeader(snap monitor.Snapshot, now time.Time, noColor bool) string {
	state := snap.State
	line := "Conference"
	if state.JobID != "" {
		line += " " + state.JobID
	}
	line += " | " + string(state.Status)
	if state.Routing.Mode != "" {
		line += " | " + state.Routing.Mode
	}
	line += " | " + fmtInt(state.Progress) + "%"
	if remaining := formatRemaining(snap.Remaining); remaining != "" {
		line += " | ETA " + remaining
	}
	if !state.StartedAt.IsZero() {
		line += " | Elapsed " + now.Sub(state.StartedAt).Round(time.Second).String()
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderPhases renders one glyph-and-label cell per pipeline stage.
func renderPhases(state conference.State, noColor bool) string {
	if len(state.Phases) == 0 {
		return ""
	}
	cells := make([]string, 0, len(state.Phases))
	for _, phase := range state.Phases {
		cell := phaseGlyph(phase.Status) + " " + phase.Label
		if phase.Status == conference.PhaseComplete && phase.Duration > 0 {
			cell += " (" + phase.Duration.Round(100*time.Millisecond).String() + ")"
		}
		cells = append(cells, stylize(cell, noColor, phaseColor(phase.Status)))
	}
	return strings.Join(cells, "  ")
}

// renderActivity renders the bounded activity window; following shows
// the tail, scrolling shows an older slice.
func renderActivity(entries []activity.Entry, height int, follow bool, scroll int, noColor bool) string {
	if len(entries) == 0 {
		return stylize("(no activity yet)", noColor, lipgloss.Color("240"))
	}
	end := len(entries)
	if !follow {
		end -= scroll
		if end < height {
			end = minInt(height, len(entries))
		}
	}
	start := maxInt(end-height, 0)
	lines := make([]string, 0, end-start)
	for _, entry := range entries[start:end] {
		lines = append(lines, stylize(formatEntry(entry), noColor, lipgloss.Color("244")))
	}
	return strings.Join(lines, "\n")
}

// renderFooter renders keys and stream diagnostics.
func renderFooter(snap monitor.Snapshot, follow bool, noColor bool) string {
	line := "f follow: " + onOff(follow) + " | q quit"
	if snap.Dropped > 0 {
		line += " | dropped events: " + fmtInt(snap.Dropped)
	}
	if snap.State.Err != "" {
		line += " | error: " + snap.State.Err
	}
	return stylize(line, noColor, lipgloss.Color("240"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

// phaseColor maps phase statuses to display colors.
func phaseColor(status conference.PhaseStatus) lipgloss.Color {
	switch status {
	case conference.PhaseRunning:
		return lipgloss.Color("33")
	case conference.PhaseComplete:
		return lipgloss.Color("35")
	case conference.PhaseError:
		return lipgloss.Color("160")
	default:
		return lipgloss.Color("240")
	}
}

// onOff renders a toggle state.
func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// minInt returns the smaller of two ints.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
