// Package monitor owns the live view of one conference job: it wires
// the stream client into the reducer, derives progress, and projects
// transitions into the activity log. The session is the aggregate's
// single writer; everything else reads snapshots.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"parley/internal/activity"
	"parley/internal/backend"
	"parley/internal/conference"
	"parley/internal/progress"
)

// Observer receives activity entries and the terminal outcome as they
// happen. Implementations must not block; they run on the stream's
// dispatch path.
type Observer interface {
	OnEntry(entry activity.Entry)
	OnTerminal(status conference.Status, err error)
}

// Options configures a session.
type Options struct {
	// Observer is optional; nil disables push notifications.
	Observer Observer
	// Estimates overrides the default per-phase weights.
	Estimates map[conference.PhaseKey]time.Duration
}

// Snapshot is an immutable view of the session at one reconciliation
// step. State is a deep copy; readers never observe partial updates.
type Snapshot struct {
	State     conference.State
	Remaining time.Duration
	Dropped   int
}

// Session tracks exactly one job at a time. Starting a new job closes
// any prior stream and resets the aggregate and activity log.
type Session struct {
	client *backend.Client
	opts   Options

	mu       sync.Mutex
	state    conference.State
	log      *activity.Log
	stream   *backend.Stream
	done     chan struct{}
	err      error
	finished bool
	// gen identifies the current job; events from a superseded stream
	// carry a stale gen and are dropped.
	gen int

	updates chan struct{}
}

// NewSession constructs an idle session for a backend client.
func NewSession(client *backend.Client, opts Options) *Session {
	return &Session{
		client:  client,
		opts:    opts,
		state:   conference.NewState(""),
		log:     activity.NewLog(nil),
		updates: make(chan struct{}, 1),
	}
}

// Start submits a new job and begins consuming its event stream. Any
// previously active stream is closed and all derived state is reset.
func (s *Session) Start(ctx context.Context, req backend.StartRequest) (string, error) {
	resp, err := s.client.StartConference(ctx, req)
	if err != nil {
		return "", err
	}
	if err := s.begin(ctx, resp.JobID, req.Scout, req.Fragility.Enabled); err != nil {
		return "", err
	}
	return resp.JobID, nil
}

// Attach begins consuming the event stream of an already-running job.
func (s *Session) Attach(ctx context.Context, jobID string, scout, fragility bool) error {
	return s.begin(ctx, jobID, scout, fragility)
}

// begin resets derived state and opens the stream for one job id.
func (s *Session) begin(ctx context.Context, jobID string, scout, fragility bool) error {
	s.mu.Lock()
	if s.stream != nil {
		s.stream.Close()
		s.stream = nil
	}
	s.log.Clear()
	s.state = conference.NewState(jobID)
	s.state.Status = conference.StatusStarting
	s.state.Phases = conference.BuildPipeline(conference.PipelineOptions{
		Scout:     scout,
		Fragility: fragility,
		Estimates: s.opts.Estimates,
	})
	s.done = make(chan struct{})
	s.err = nil
	s.finished = false
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	stream, err := s.client.StreamEvents(ctx, jobID, backend.StreamOptions{
		OnEvent:    func(event conference.Event) { s.handleEvent(gen, event) },
		OnComplete: func() { s.terminal(nil) },
		OnError:    func(err error) { s.terminal(err) },
		OnDrop:     func(name string, err error) { s.handleDrop(gen, name, err) },
	})
	if err != nil {
		s.terminal(err)
		return err
	}
	s.mu.Lock()
	s.stream = stream
	s.mu.Unlock()
	s.notify()
	return nil
}

// handleEvent merges one decoded event; runs on the stream goroutine.
// Events from a stream that has been superseded by a newer job are
// dropped so they can never leak into the fresh aggregate.
func (s *Session) handleEvent(gen int, event conference.Event) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	state, transitions := conference.Reduce(s.state, event)
	state.Progress = progress.Overall(state.Phases)
	s.state = state
	entries := make([]activity.Entry, 0, len(transitions))
	for _, tr := range transitions {
		entries = append(entries, s.log.AppendAt(tr.At, tr.Category, string(tr.Phase), tr.Status, tr.Detail))
	}
	s.mu.Unlock()

	if s.opts.Observer != nil {
		for _, entry := range entries {
			s.opts.Observer.OnEntry(entry)
		}
	}
	if len(entries) > 0 {
		s.notify()
	}
}

// handleDrop records a discarded malformed event without touching the
// aggregate.
func (s *Session) handleDrop(gen int, name string, err error) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	entry := s.log.Append("conference", "", "dropped", fmt.Sprintf("dropped malformed %s event: %v", name, err))
	s.mu.Unlock()
	if s.opts.Observer != nil {
		s.opts.Observer.OnEntry(entry)
	}
	s.notify()
}

// terminal finalizes the session exactly once per job.
func (s *Session) terminal(err error) {
	s.finish(err, false)
}

// finish records the end of a job. A user-initiated stop of a job that
// never reached a terminal state skips the terminal notification: the
// aggregate was not frozen by the backend, merely abandoned.
func (s *Session) finish(err error, userStop bool) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	s.err = err
	// A transport failure produces no terminal wire event; fold it into
	// the aggregate through the same reduce path.
	if err != nil && !s.state.Status.Terminal() {
		state, transitions := conference.Reduce(s.state, conference.Event{
			Kind:       conference.EventConferenceError,
			Err:        err.Error(),
			ReceivedAt: time.Now(),
		})
		state.Progress = progress.Overall(state.Phases)
		s.state = state
		for _, tr := range transitions {
			s.log.AppendAt(tr.At, tr.Category, string(tr.Phase), tr.Status, tr.Detail)
		}
	}
	status := s.state.Status
	done := s.done
	s.mu.Unlock()

	if s.opts.Observer != nil && (!userStop || status.Terminal()) {
		s.opts.Observer.OnTerminal(status, err)
	}
	if done != nil {
		close(done)
	}
	s.notify()
}

// Stop cancels the active stream without recording an error. Safe to
// call redundantly or after natural termination.
func (s *Session) Stop() {
	s.mu.Lock()
	stream := s.stream
	s.mu.Unlock()
	if stream != nil {
		stream.Close()
	}
	s.finish(nil, true)
}

// Snapshot returns a deep copy of the current aggregate plus derived
// estimates.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		State:     s.state.Clone(),
		Remaining: progress.TimeRemaining(s.state.Phases),
	}
	if s.stream != nil {
		snap.Dropped = s.stream.Dropped()
	}
	return snap
}

// Activity returns a copy of the job's activity entries in arrival order.
func (s *Session) Activity() []activity.Entry {
	return s.log.Entries()
}

// ActivityTail returns the most recent n activity entries.
func (s *Session) ActivityTail(n int) []activity.Entry {
	return s.log.Tail(n)
}

// Updates signals that a new snapshot is available; the channel carries
// at most one pending notification.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

// Done is closed when the current job terminates.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Err reports the terminal error of the current job, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// notify wakes any snapshot reader without blocking the dispatch path.
func (s *Session) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
