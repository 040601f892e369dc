package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"parley/internal/conference"
)

// ErrConnectionLost is reported when the transport fails before a
// terminal event arrives. There is no resume capability; the caller
// must restart the job.
var ErrConnectionLost = errors.New("connection lost")

// StreamOptions carries the single registered consumer of a stream.
type StreamOptions struct {
	// OnEvent receives every decoded event, terminal events included,
	// in transport delivery order.
	OnEvent func(conference.Event)
	// OnComplete fires exactly once when the terminal success event
	// arrives.
	OnComplete func()
	// OnError fires exactly once on a terminal error event or a
	// transport failure.
	OnError func(error)
	// OnDrop is notified when a malformed payload is discarded. The
	// connection stays open.
	OnDrop func(name string, err error)
}

// Stream is a live connection to one job's event stream.
type Stream struct {
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

// Done is closed once the stream has terminated for any reason.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Dropped reports how many malformed events were discarded.
func (s *Stream) Dropped() int {
	return int(s.dropped.Load())
}

// Close tears the connection down without invoking callbacks; events
// buffered but not yet dispatched are dropped. It is idempotent and
// safe after natural termination.
func (s *Stream) Close() {
	s.finish(nil)
}

// finish runs at most one terminal action and releases the connection.
func (s *Stream) finish(callback func()) {
	s.once.Do(func() {
		if callback != nil {
			callback()
		}
		s.cancel()
		close(s.done)
	})
}

// StreamEvents opens the event stream for one job id and dispatches
// decoded events to the registered consumer. The caller owns at most
// one live stream; starting a new job must Close any prior stream first.
func (c *Client) StreamEvents(ctx context.Context, jobID string, opts StreamOptions) (*Stream, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, fmt.Errorf("job id is required")
	}
	ctx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.streamURL(jobID), nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open stream: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("open stream: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	stream := &Stream{cancel: cancel, done: make(chan struct{})}
	go stream.read(resp.Body, opts)
	return stream, nil
}

// read consumes SSE frames until a terminal event or transport failure.
func (s *Stream) read(body io.ReadCloser, opts StreamOptions) {
	defer body.Close()

	var frame sseFrame
	buf := make([]byte, 0, 64*1024)
	tmp := make([]byte, 4096)
	for {
		n, err := body.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
			for {
				idx := bytes.IndexByte(buf, '\n')
				if idx == -1 {
					break
				}
				line := string(bytes.TrimRight(buf[:idx], "\r"))
				buf = buf[idx+1:]
				if terminal := s.dispatchLine(&frame, line, opts); terminal {
					return
				}
			}
		}
		if err != nil {
			// EOF without a terminal event is a dropped connection.
			s.finish(func() {
				if opts.OnError != nil {
					opts.OnError(ErrConnectionLost)
				}
			})
			return
		}
	}
}

// sseFrame accumulates one server-sent event across its field lines.
type sseFrame struct {
	name string
	data []byte
}

// dispatchLine feeds one line into the current frame, dispatching the
// frame on the blank separator line. It reports whether the stream
// reached a terminal event.
func (s *Stream) dispatchLine(frame *sseFrame, line string, opts StreamOptions) bool {
	if line == "" {
		terminal := s.dispatchFrame(*frame, opts)
		frame.name = ""
		frame.data = nil
		return terminal
	}
	if strings.HasPrefix(line, "event:") {
		frame.name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		return false
	}
	if strings.HasPrefix(line, "data:") {
		frame.data = append(frame.data, strings.TrimSpace(strings.TrimPrefix(line, "data:"))...)
	}
	return false
}

// dispatchFrame decodes and delivers one complete frame. A malformed
// payload drops that single event; unknown names are ignored. Frames
// still buffered when the stream is closed are discarded, so Close
// guarantees no further callbacks.
func (s *Stream) dispatchFrame(frame sseFrame, opts StreamOptions) bool {
	select {
	case <-s.done:
		return true
	default:
	}
	if frame.name == "" {
		return false
	}
	event, known, err := DecodeEvent(frame.name, frame.data, time.Now())
	if err != nil {
		s.dropped.Add(1)
		if opts.OnDrop != nil {
			opts.OnDrop(frame.name, err)
		}
		return false
	}
	if !known {
		return false
	}
	if opts.OnEvent != nil {
		opts.OnEvent(event)
	}
	switch event.Kind {
	case conference.EventConferenceComplete:
		s.finish(opts.OnComplete)
		return true
	case conference.EventConferenceError:
		s.finish(func() {
			if opts.OnError != nil {
				opts.OnError(terminalError(event.Err))
			}
		})
		return true
	}
	return false
}

// terminalError normalizes a backend error payload.
func terminalError(message string) error {
	if strings.TrimSpace(message) == "" {
		return errors.New("conference failed")
	}
	return errors.New(message)
}
