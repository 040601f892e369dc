package live

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"parley/internal/activity"
	"parley/internal/conference"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatTokens renders streaming token progress.
func formatTokens(generated, estimated int) string {
	if generated == 0 && estimated == 0 {
		return "-"
	}
	if estimated > 0 {
		return fmtInt(generated) + "/" + fmtInt(estimated)
	}
	return fmtInt(generated)
}

// formatConfidence renders a confidence only once an agent is complete.
func formatConfidence(agent conference.AgentState) string {
	if agent.Status != conference.AgentComplete {
		return "-"
	}
	return fmt.Sprintf("%.2f", agent.Confidence)
}

// formatLane names the generation lane of a role, if any.
func formatLane(role conference.AgentRole) string {
	lane, ok := conference.LaneOf(role)
	if !ok {
		return "-"
	}
	switch lane {
	case conference.PhaseLaneA:
		return "A"
	case conference.PhaseLaneB:
		return "B"
	default:
		return string(lane)
	}
}

// phaseGlyph maps a phase status to a one-character marker.
func phaseGlyph(status conference.PhaseStatus) string {
	switch status {
	case conference.PhaseRunning:
		return "▶"
	case conference.PhaseComplete:
		return "✓"
	case conference.PhaseError:
		return "✗"
	default:
		return "·"
	}
}

// formatRemaining renders an ETA, empty when nothing is outstanding.
func formatRemaining(remaining time.Duration) string {
	if remaining <= 0 {
		return ""
	}
	return remaining.Round(time.Second).String()
}

// formatEntry renders one activity entry as a single display line.
func formatEntry(entry activity.Entry) string {
	parts := []string{entry.Timestamp.Format("15:04:05")}
	if entry.Kind != "" {
		parts = append(parts, "["+entry.Kind+"]")
	}
	if entry.Detail != "" {
		parts = append(parts, entry.Detail)
	} else if entry.Status != "" {
		parts = append(parts, entry.Phase+" "+entry.Status)
	}
	return strings.Join(parts, " ")
}
