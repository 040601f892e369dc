package backend

import (
	"testing"
	"time"

	"parley/internal/conference"
)

// TestDecodeEventRoutingComplete verifies the routing decision is decoded.
func TestDecodeEventRoutingComplete(t *testing.T) {
	at := time.Now()
	data := []byte(`{"mode":"full","agents":["empiricist","theorist"],"scout":true}`)
	event, ok, err := DecodeEvent("routing_complete", data, at)
	if err != nil || !ok {
		t.Fatalf("unexpected decode result: ok=%v err=%v", ok, err)
	}
	if event.Kind != conference.EventRoutingComplete {
		t.Fatalf("unexpected kind %v", event.Kind)
	}
	if event.Mode != "full" || !event.Scout {
		t.Fatalf("routing fields lost: %+v", event)
	}
	if len(event.Roster) != 2 || event.Roster[0] != conference.RoleEmpiricist {
		t.Fatalf("unexpected roster %v", event.Roster)
	}
	if !event.ReceivedAt.Equal(at) {
		t.Fatalf("receipt time not carried")
	}
}

// TestDecodeEventAgentProgress verifies token counters are decoded.
func TestDecodeEventAgentProgress(t *testing.T) {
	data := []byte(`{"role":"theorist","tokensGenerated":42,"tokensEstimated":400,"content":"so"}`)
	event, ok, err := DecodeEvent("agent_token", data, time.Now())
	if err != nil || !ok {
		t.Fatalf("unexpected decode result: ok=%v err=%v", ok, err)
	}
	if event.Kind != conference.EventAgentProgress || event.Role != conference.RoleTheorist {
		t.Fatalf("unexpected event %+v", event)
	}
	if event.TokensGenerated != 42 || event.TokensEstimated != 400 || event.Content != "so" {
		t.Fatalf("payload fields lost: %+v", event)
	}
}

// TestDecodeEventNameSynonyms verifies wire-name variants map to the
// same event kinds.
func TestDecodeEventNameSynonyms(t *testing.T) {
	cases := map[string]conference.EventKind{
		"agent_start":    conference.EventAgentStart,
		"agent_thinking": conference.EventAgentStart,
		"agent_token":    conference.EventAgentProgress,
		"agent_progress": conference.EventAgentProgress,
		"error":          conference.EventConferenceError,
	}
	for name, want := range cases {
		event, ok, err := DecodeEvent(name, []byte(`{}`), time.Now())
		if err != nil || !ok {
			t.Fatalf("%s: unexpected decode result: ok=%v err=%v", name, ok, err)
		}
		if event.Kind != want {
			t.Fatalf("%s: expected kind %v, got %v", name, want, event.Kind)
		}
	}
}

// TestDecodeEventLaneScoped verifies lane-scoped addressing unwraps to
// plain agent events keyed by role.
func TestDecodeEventLaneScoped(t *testing.T) {
	data := []byte(`{"event":"complete","role":"pragmatist","confidence":0.6}`)
	event, ok, err := DecodeEvent("lane_a_agent", data, time.Now())
	if err != nil || !ok {
		t.Fatalf("unexpected decode result: ok=%v err=%v", ok, err)
	}
	if event.Kind != conference.EventAgentComplete || event.Role != conference.RolePragmatist {
		t.Fatalf("unexpected event %+v", event)
	}
	if event.Confidence != 0.6 {
		t.Fatalf("confidence lost: %v", event.Confidence)
	}

	if _, ok, _ := DecodeEvent("lane_b_agent", []byte(`{"event":"warble"}`), time.Now()); ok {
		t.Fatalf("unknown inner event accepted")
	}
}

// TestDecodeEventUnknownName verifies unrecognised names report ok=false.
func TestDecodeEventUnknownName(t *testing.T) {
	_, ok, err := DecodeEvent("conference_heartbeat", []byte(`{"x":1}`), time.Now())
	if ok {
		t.Fatalf("unknown name accepted")
	}
	if err != nil {
		t.Fatalf("unknown name reported error: %v", err)
	}
}

// TestDecodeEventMalformedPayload verifies bad JSON yields a drop error.
func TestDecodeEventMalformedPayload(t *testing.T) {
	_, ok, err := DecodeEvent("agent_complete", []byte(`{"role":`), time.Now())
	if !ok {
		t.Fatalf("malformed payload masked as unknown name")
	}
	if err == nil {
		t.Fatalf("expected decode error")
	}
}

// TestDecodeEventTerminal verifies the terminal success payload decodes.
func TestDecodeEventTerminal(t *testing.T) {
	data := []byte(`{"result":"Use a B-tree.","confidence":0.85}`)
	event, ok, err := DecodeEvent("conference_complete", data, time.Now())
	if err != nil || !ok {
		t.Fatalf("unexpected decode result: ok=%v err=%v", ok, err)
	}
	if event.Answer != "Use a B-tree." || event.Confidence != 0.85 {
		t.Fatalf("terminal payload lost: %+v", event)
	}

	event, _, _ = DecodeEvent("conference_error", []byte(`{"error":"budget exceeded"}`), time.Now())
	if event.Kind != conference.EventConferenceError || event.Err != "budget exceeded" {
		t.Fatalf("unexpected terminal error event %+v", event)
	}
}

// TestDecodeEventCritiqueDetail verifies critique formatting.
func TestDecodeEventCritiqueDetail(t *testing.T) {
	data := []byte(`{"from":"contrarian","to":"empiricist","summary":"sample too small"}`)
	event, _, _ := DecodeEvent("cross_exam_critique", data, time.Now())
	if event.Detail != "contrarian critiques empiricist: sample too small" {
		t.Fatalf("unexpected detail %q", event.Detail)
	}
}

// TestDecodeEventFragilityDetail verifies test outcome formatting.
func TestDecodeEventFragilityDetail(t *testing.T) {
	data := []byte(`{"index":2,"total":5,"verdict":"held"}`)
	event, _, _ := DecodeEvent("fragility_test", data, time.Now())
	if event.Detail != "test 2/5: held" {
		t.Fatalf("unexpected detail %q", event.Detail)
	}
}

// TestDecodeEventEmptyPayload verifies boundary events tolerate no data.
func TestDecodeEventEmptyPayload(t *testing.T) {
	event, ok, err := DecodeEvent("scout_start", nil, time.Now())
	if err != nil || !ok {
		t.Fatalf("unexpected decode result: ok=%v err=%v", ok, err)
	}
	if event.Kind != conference.EventScoutStart {
		t.Fatalf("unexpected kind %v", event.Kind)
	}
}
