// Package plainout prints conference activity as plain lines for
// non-TTY output.
package plainout

import (
	"fmt"
	"io"
	"sync"

	"parley/internal/activity"
	"parley/internal/conference"
)

// Observer writes one line per activity entry. It satisfies
// monitor.Observer.
type Observer struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewObserver constructs a plain observer for a writer.
func NewObserver(writer io.Writer) *Observer {
	return &Observer{writer: writer}
}

// OnEntry prints one activity entry.
func (o *Observer) OnEntry(entry activity.Entry) {
	if o == nil || o.writer == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.writer, "%s [%s] %s\n", entry.Timestamp.Format("15:04:05"), entry.Kind, detailOf(entry))
}

// OnTerminal prints the job outcome.
func (o *Observer) OnTerminal(status conference.Status, err error) {
	if o == nil || o.writer == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		fmt.Fprintf(o.writer, "Conference ended: %s (%v)\n", status, err)
		return
	}
	fmt.Fprintf(o.writer, "Conference ended: %s\n", status)
}

// detailOf picks the most informative field of an entry.
func detailOf(entry activity.Entry) string {
	if entry.Detail != "" {
		return entry.Detail
	}
	if entry.Phase != "" {
		return entry.Phase + " " + entry.Status
	}
	return entry.Status
}
