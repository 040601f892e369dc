package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// WireEvent is one scripted server-sent event.
type WireEvent struct {
	Name string
	Data string
}

// WriteSSE streams scripted events to a response writer, flushing after
// each frame.
func WriteSSE(w http.ResponseWriter, events []WireEvent) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	for _, event := range events {
		fmt.Fprintf(w, "event: %s\n", event.Name)
		if event.Data != "" {
			fmt.Fprintf(w, "data: %s\n", event.Data)
		}
		fmt.Fprint(w, "\n")
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// FakeBackend is an httptest server speaking the conference wire
// contract: start, health, and a scripted per-job event stream.
type FakeBackend struct {
	*httptest.Server
	JobID  string
	Events []WireEvent
	// Hold, when non-nil, keeps the stream open after the scripted
	// events until it is closed or the client disconnects. Set before
	// the stream request is made.
	Hold chan struct{}
}

// NewFakeBackend starts a backend fake that streams the given events
// for every job. The server is closed with the test.
func NewFakeBackend(t testing.TB, events []WireEvent) *FakeBackend {
	t.Helper()
	backend := &FakeBackend{JobID: "job-1", Events: events}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/conference", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jobId":%q,"streamPath":"/api/conference/%s/events"}`, backend.JobID, backend.JobID)
	})
	mux.HandleFunc("/api/conference/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/events") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		WriteSSE(w, backend.Events)
		if backend.Hold != nil {
			select {
			case <-backend.Hold:
			case <-r.Context().Done():
			}
		}
	})
	backend.Server = httptest.NewServer(mux)
	t.Cleanup(backend.Server.Close)
	return backend
}
