package live

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// Controller runs the live dashboard for one session.
type Controller struct {
	program *tea.Program
	done    chan struct{}
}

// Start launches the dashboard writing to stdout.
func Start(stdout io.Writer, source SnapshotSource, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	model := NewModel(source, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	controller := &Controller{
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// Quit asks the dashboard to stop.
func (c *Controller) Quit() {
	if c == nil {
		return
	}
	c.program.Quit()
}

// Wait blocks until the dashboard has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}
