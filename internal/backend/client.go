// Package backend speaks the conference backend's wire contract: the
// start-job request, the health probe, and the per-job event stream.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// HTTPDoer abstracts the HTTP client used for backend calls.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls one conference backend.
type Client struct {
	baseURL string
	http    HTTPDoer
}

// NewClient constructs a backend client. A nil doer falls back to
// http.DefaultClient.
func NewClient(baseURL string, doer HTTPDoer) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: doer}, nil
}

// Participant describes one enabled deliberation role.
type Participant struct {
	Role    string `json:"role"`
	Model   string `json:"model,omitempty"`
	Enabled bool   `json:"enabled"`
}

// Document supplies supplementary context to the backend.
type Document struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// FragilityRequest toggles robustness testing.
type FragilityRequest struct {
	Enabled bool `json:"enabled"`
	Tests   int  `json:"tests,omitempty"`
}

// StartRequest describes one conference job to run.
type StartRequest struct {
	Question     string           `json:"question"`
	SessionID    string           `json:"sessionId"`
	Mode         string           `json:"mode,omitempty"`
	Participants []Participant    `json:"participants"`
	Documents    []Document       `json:"documents,omitempty"`
	Scout        bool             `json:"scout"`
	Fragility    FragilityRequest `json:"fragility"`
}

// StartResponse carries the backend's job handle.
type StartResponse struct {
	JobID      string `json:"jobId"`
	StreamPath string `json:"streamPath"`
}

// StartConference submits a job and returns its id. A missing session
// id is filled with a fresh UUID.
func (c *Client) StartConference(ctx context.Context, req StartRequest) (StartResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return StartResponse{}, fmt.Errorf("question is required")
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return StartResponse{}, fmt.Errorf("marshal start request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/conference", bytes.NewReader(payload))
	if err != nil {
		return StartResponse{}, fmt.Errorf("create start request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return StartResponse{}, fmt.Errorf("start conference: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return StartResponse{}, fmt.Errorf("start conference: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	var out StartResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return StartResponse{}, fmt.Errorf("decode start response: %w", err)
	}
	if out.JobID == "" {
		return StartResponse{}, fmt.Errorf("start conference: backend returned no job id")
	}
	return out, nil
}

// Health probes backend reachability, independent of any job.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("health probe: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("health probe: %s", resp.Status)
	}
	return nil
}

// streamURL builds the SSE endpoint for one job id.
func (c *Client) streamURL(jobID string) string {
	return c.baseURL + "/api/conference/" + url.PathEscape(jobID) + "/events"
}
