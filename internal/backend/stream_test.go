package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"parley/internal/conference"
	"parley/internal/testutil"
)

// collector gathers stream callbacks for assertions.
type collector struct {
	mu        sync.Mutex
	events    []conference.Event
	completes int
	errs      []error
	drops     []string
}

func (c *collector) options() StreamOptions {
	return StreamOptions{
		OnEvent: func(event conference.Event) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.events = append(c.events, event)
		},
		OnComplete: func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.completes++
		},
		OnError: func(err error) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.errs = append(c.errs, err)
		},
		OnDrop: func(name string, err error) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.drops = append(c.drops, name)
		},
	}
}

// collected is a lock-free copy of a collector's results.
type collected struct {
	events    []conference.Event
	completes int
	errs      []error
	drops     []string
}

func (c *collector) snapshot() collected {
	c.mu.Lock()
	defer c.mu.Unlock()
	return collected{
		events:    append([]conference.Event(nil), c.events...),
		completes: c.completes,
		errs:      append([]error(nil), c.errs...),
		drops:     append([]string(nil), c.drops...),
	}
}

// openStream connects to a fake backend and waits for termination.
func openStream(t *testing.T, events []testutil.WireEvent, opts StreamOptions) *Stream {
	t.Helper()
	fake := testutil.NewFakeBackend(t, events)
	client, err := NewClient(fake.URL, nil)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	ctx := testutil.Context(t, 5*time.Second)
	stream, err := client.StreamEvents(ctx, fake.JobID, opts)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	select {
	case <-stream.Done():
	case <-ctx.Done():
		t.Fatalf("stream did not terminate")
	}
	return stream
}

// TestStreamEventsDeliversInOrder verifies decoded events arrive in
// transport order and the success callback fires.
func TestStreamEventsDeliversInOrder(t *testing.T) {
	var got collector
	openStream(t, []testutil.WireEvent{
		{Name: "conference_start"},
		{Name: "routing_complete", Data: `{"mode":"full","agents":["empiricist"]}`},
		{Name: "agent_token", Data: `{"role":"empiricist","tokensGenerated":10,"tokensEstimated":100}`},
		{Name: "agent_complete", Data: `{"role":"empiricist","confidence":0.8}`},
		{Name: "conference_complete", Data: `{"result":"done","confidence":0.9}`},
	}, got.options())

	final := got.snapshot()
	if len(final.events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(final.events))
	}
	want := []conference.EventKind{
		conference.EventConferenceStart,
		conference.EventRoutingComplete,
		conference.EventAgentProgress,
		conference.EventAgentComplete,
		conference.EventConferenceComplete,
	}
	for i, kind := range want {
		if final.events[i].Kind != kind {
			t.Fatalf("event %d: expected kind %v, got %v", i, kind, final.events[i].Kind)
		}
	}
	if final.completes != 1 {
		t.Fatalf("expected one completion, got %d", final.completes)
	}
	if len(final.errs) != 0 {
		t.Fatalf("unexpected errors: %v", final.errs)
	}
}

// TestStreamEventsDropsMalformed verifies a bad payload discards that one
// event while the stream keeps going.
func TestStreamEventsDropsMalformed(t *testing.T) {
	var got collector
	stream := openStream(t, []testutil.WireEvent{
		{Name: "conference_start"},
		{Name: "agent_complete", Data: `{"role":`},
		{Name: "conference_complete", Data: `{"result":"ok"}`},
	}, got.options())

	final := got.snapshot()
	if len(final.events) != 2 {
		t.Fatalf("expected 2 delivered events, got %d", len(final.events))
	}
	if len(final.drops) != 1 || final.drops[0] != "agent_complete" {
		t.Fatalf("unexpected drops: %v", final.drops)
	}
	if stream.Dropped() != 1 {
		t.Fatalf("expected dropped counter 1, got %d", stream.Dropped())
	}
	if final.completes != 1 {
		t.Fatalf("expected the stream to reach completion, got %d", final.completes)
	}
}

// TestStreamEventsIgnoresUnknownNames verifies unrecognised event names
// pass through silently.
func TestStreamEventsIgnoresUnknownNames(t *testing.T) {
	var got collector
	stream := openStream(t, []testutil.WireEvent{
		{Name: "conference_heartbeat", Data: `{"n":1}`},
		{Name: "conference_complete", Data: `{"result":"ok"}`},
	}, got.options())

	final := got.snapshot()
	if len(final.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(final.events))
	}
	if stream.Dropped() != 0 || len(final.drops) != 0 {
		t.Fatalf("unknown name counted as drop")
	}
}

// TestStreamEventsTerminalError verifies a terminal error event fires the
// error callback with the backend message.
func TestStreamEventsTerminalError(t *testing.T) {
	var got collector
	openStream(t, []testutil.WireEvent{
		{Name: "conference_start"},
		{Name: "error", Data: `{"error":"budget exceeded"}`},
	}, got.options())

	final := got.snapshot()
	if final.completes != 0 {
		t.Fatalf("error stream reported completion")
	}
	if len(final.errs) != 1 || final.errs[0].Error() != "budget exceeded" {
		t.Fatalf("unexpected errors: %v", final.errs)
	}
}

// TestStreamEventsConnectionLost verifies EOF before a terminal event is
// reported as a lost connection.
func TestStreamEventsConnectionLost(t *testing.T) {
	var got collector
	openStream(t, []testutil.WireEvent{
		{Name: "conference_start"},
		{Name: "routing_start"},
	}, got.options())

	final := got.snapshot()
	if len(final.errs) != 1 || !errors.Is(final.errs[0], ErrConnectionLost) {
		t.Fatalf("expected connection lost, got %v", final.errs)
	}
	if final.completes != 0 {
		t.Fatalf("lost stream reported completion")
	}
}

// TestStreamCloseIsIdempotent verifies Close is safe repeatedly and after
// natural termination, and never invokes terminal callbacks itself.
func TestStreamCloseIsIdempotent(t *testing.T) {
	var got collector
	stream := openStream(t, []testutil.WireEvent{
		{Name: "conference_complete", Data: `{"result":"ok"}`},
	}, got.options())

	stream.Close()
	stream.Close()

	final := got.snapshot()
	if final.completes != 1 {
		t.Fatalf("expected exactly one completion, got %d", final.completes)
	}
	if len(final.errs) != 0 {
		t.Fatalf("close invoked error callback: %v", final.errs)
	}
}

// TestStreamDispatchStopsAfterClose verifies frames already buffered
// when Close is called are never delivered: a new job must not receive
// events left over from the previous one.
func TestStreamDispatchStopsAfterClose(t *testing.T) {
	var got collector
	opts := got.options()
	stream := &Stream{cancel: func() {}, done: make(chan struct{})}

	frame := &sseFrame{}
	stream.dispatchLine(frame, "event: conference_start", opts)
	if terminal := stream.dispatchLine(frame, "", opts); terminal {
		t.Fatalf("open stream reported terminal on a lifecycle event")
	}

	stream.Close()

	stream.dispatchLine(frame, "event: routing_start", opts)
	if terminal := stream.dispatchLine(frame, "", opts); !terminal {
		t.Fatalf("expected dispatch to stop after close")
	}

	final := got.snapshot()
	if len(final.events) != 1 {
		t.Fatalf("expected only the pre-close event, got %d", len(final.events))
	}
	if final.events[0].Kind != conference.EventConferenceStart {
		t.Fatalf("unexpected surviving event %v", final.events[0].Kind)
	}
}

// TestStreamEventsRejectsEmptyJobID verifies the job id is required.
func TestStreamEventsRejectsEmptyJobID(t *testing.T) {
	client, err := NewClient("http://localhost:1", nil)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if _, err := client.StreamEvents(context.Background(), "  ", StreamOptions{}); err == nil {
		t.Fatalf("expected error for empty job id")
	}
}

// TestStreamEventsNon2xx verifies an HTTP error status fails the open.
func TestStreamEventsNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such job", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, nil)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if _, err := client.StreamEvents(context.Background(), "job-404", StreamOptions{}); err == nil {
		t.Fatalf("expected error for 404 stream")
	}
}
