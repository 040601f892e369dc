package live

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"parley/internal/conference"
)

// agentColumns defines the per-agent table layout.
func agentColumns() []table.Column {
	return []table.Column{
		{Title: "Agent", Width: 12},
		{Title: "Lane", Width: 8},
		{Title: "Status", Width: 10},
		{Title: "Tokens", Width: 12},
		{Title: "Confidence", Width: 10},
	}
}

// tableStyles returns table styles for the dashboard.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// agentRows converts the aggregate's agents into table rows in the
// fixed vocabulary order, with off-roster roles appended.
func agentRows(state conference.State) []table.Row {
	rows := make([]table.Row, 0, len(state.Agents))
	seen := map[conference.AgentRole]bool{}
	for _, role := range conference.Roles() {
		if agent, ok := state.Agents[role]; ok {
			rows = append(rows, agentRow(agent))
			seen[role] = true
		}
	}
	for role, agent := range state.Agents {
		if !seen[role] {
			rows = append(rows, agentRow(agent))
		}
	}
	return rows
}

// agentRow renders one agent as a table row.
func agentRow(agent conference.AgentState) table.Row {
	return table.Row{
		string(agent.Role),
		formatLane(agent.Role),
		string(agent.Status),
		formatTokens(agent.TokensGenerated, agent.TokensEstimated),
		formatConfidence(agent),
	}
}
