// Package live renders a terminal dashboard for a running conference.
// It is a pull-based consumer: every update notification triggers a
// fresh snapshot read, so the view can never observe a partial state.
package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"parley/internal/activity"
	"parley/internal/monitor"
)

// defaultLogHeight bounds the activity tail when the terminal size is
// unknown.
const defaultLogHeight = 8

// SnapshotSource supplies the state the dashboard renders.
type SnapshotSource interface {
	Snapshot() monitor.Snapshot
	Activity() []activity.Entry
	Updates() <-chan struct{}
	Done() <-chan struct{}
}

// Options configures the live dashboard.
type Options struct {
	NoColor      bool
	TickInterval time.Duration
	LogHeight    int
}

// Model renders the conference dashboard using Bubble Tea.
type Model struct {
	source       SnapshotSource
	snap         monitor.Snapshot
	entries      []activity.Entry
	table        table.Model
	follow       bool
	scroll       int
	tickInterval time.Duration
	now          time.Time
	noColor      bool
	logHeight    int
	finished     bool
}

// NewModel constructs a dashboard model for a session.
func NewModel(source SnapshotSource, opts Options) Model {
	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = 200 * time.Millisecond
	}
	logHeight := opts.LogHeight
	if logHeight <= 0 {
		logHeight = defaultLogHeight
	}
	t := table.New(
		table.WithColumns(agentColumns()),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
	)
	t.SetStyles(tableStyles(opts.NoColor))
	return Model{
		source:       source,
		table:        t,
		follow:       true,
		tickInterval: tickInterval,
		now:          time.Now(),
		noColor:      opts.NoColor,
		logHeight:    logHeight,
	}
}

// Init pulls the first snapshot and starts ticking.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.source), tick(m.tickInterval))
}

// Update consumes refresh notifications, ticks, and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(typed.Width)
		m.table.SetHeight(maxInt(typed.Height-m.logHeight-6, 3))
		return m, nil
	case tea.KeyMsg:
		switch typed.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "f":
			m.follow = !m.follow
			if m.follow {
				m.scroll = 0
			}
			return m, nil
		case "up", "k":
			if !m.follow {
				m.scroll++
			}
			return m, nil
		case "down", "j":
			if !m.follow && m.scroll > 0 {
				m.scroll--
			}
			return m, nil
		}
		return m, nil
	case refreshMsg:
		m = m.refresh()
		return m, waitForUpdate(m.source)
	case finishedMsg:
		m = m.refresh()
		m.finished = true
		return m, tea.Quit
	case tickMsg:
		m.now = time.Time(typed)
		return m, tick(m.tickInterval)
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	header := renderHeader(m.snap, m.now, m.noColor)
	phases := renderPhases(m.snap.State, m.noColor)
	tableView := m.table.View()
	log := renderActivity(m.entries, m.logHeight, m.follow, m.scroll, m.noColor)
	footer := renderFooter(m.snap, m.follow, m.noColor)
	return lipgloss.JoinVertical(lipgloss.Left, header, phases, tableView, log, footer)
}

// refresh pulls a fresh snapshot and rebuilds derived rows.
func (m Model) refresh() Model {
	m.snap = m.source.Snapshot()
	m.entries = m.source.Activity()
	m.table.SetRows(agentRows(m.snap.State))
	return m
}

// refreshMsg signals that a new snapshot is available.
type refreshMsg struct{}

// finishedMsg signals that the job reached a terminal state.
type finishedMsg struct{}

// tickMsg carries a clock tick for elapsed-time updates.
type tickMsg time.Time

// waitForUpdate blocks until the session publishes a change or ends.
func waitForUpdate(source SnapshotSource) tea.Cmd {
	return func() tea.Msg {
		if source == nil {
			return nil
		}
		select {
		case <-source.Done():
			return finishedMsg{}
		case <-source.Updates():
			return refreshMsg{}
		}
	}
}

// tick emits a periodic tick message.
func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// maxInt returns the larger of two ints.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
