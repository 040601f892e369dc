package backend

import (
	"encoding/json"
	"fmt"
	"time"

	"parley/internal/conference"
)

// wirePayload is the superset of JSON fields the backend sends across
// the event taxonomy; each event populates only its own fields.
type wirePayload struct {
	Role            string   `json:"role"`
	Mode            string   `json:"mode"`
	Agents          []string `json:"agents"`
	Scout           bool     `json:"scout"`
	TokensGenerated int      `json:"tokensGenerated"`
	TokensEstimated int      `json:"tokensEstimated"`
	Confidence      float64  `json:"confidence"`
	Content         string   `json:"content"`
	Result          string   `json:"result"`
	Error           string   `json:"error"`
	From            string   `json:"from"`
	To              string   `json:"to"`
	Summary         string   `json:"summary"`
	Index           int      `json:"index"`
	Total           int      `json:"total"`
	Verdict         string   `json:"verdict"`
	// Event carries the inner lifecycle name for lane-scoped agent events.
	Event string `json:"event"`
}

// DecodeEvent converts one named wire event into a typed conference
// event. Unknown names report ok=false; a malformed payload reports an
// error so the caller can drop that single event.
func DecodeEvent(name string, data []byte, at time.Time) (conference.Event, bool, error) {
	var payload wirePayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			return conference.Event{}, true, fmt.Errorf("decode %s payload: %w", name, err)
		}
	}

	switch name {
	case "conference_start":
		return conference.Event{Kind: conference.EventConferenceStart, ReceivedAt: at}, true, nil
	case "routing_start":
		return conference.Event{Kind: conference.EventRoutingStart, ReceivedAt: at}, true, nil
	case "routing_complete":
		return conference.Event{
			Kind:       conference.EventRoutingComplete,
			Mode:       payload.Mode,
			Roster:     rolesFromNames(payload.Agents),
			Scout:      payload.Scout,
			ReceivedAt: at,
		}, true, nil
	case "scout_start":
		return conference.Event{Kind: conference.EventScoutStart, ReceivedAt: at}, true, nil
	case "scout_complete":
		return conference.Event{Kind: conference.EventScoutComplete, ReceivedAt: at}, true, nil
	case "agent_start", "agent_thinking":
		return agentEvent(conference.EventAgentStart, payload, at), true, nil
	case "agent_token", "agent_progress":
		return agentEvent(conference.EventAgentProgress, payload, at), true, nil
	case "agent_complete":
		return agentEvent(conference.EventAgentComplete, payload, at), true, nil
	case "agent_error":
		return agentEvent(conference.EventAgentError, payload, at), true, nil
	case "lane_a_agent", "lane_b_agent":
		return laneAgentEvent(payload, at)
	case "cross_exam_start":
		return conference.Event{Kind: conference.EventCrossExamStart, ReceivedAt: at}, true, nil
	case "cross_exam_critique":
		return conference.Event{
			Kind:       conference.EventCrossExamCritique,
			Detail:     critiqueDetail(payload),
			ReceivedAt: at,
		}, true, nil
	case "cross_exam_complete":
		return conference.Event{Kind: conference.EventCrossExamComplete, ReceivedAt: at}, true, nil
	case "arbitration_start":
		return conference.Event{Kind: conference.EventSynthesisStart, ReceivedAt: at}, true, nil
	case "arbitration_token":
		return conference.Event{
			Kind:            conference.EventSynthesisToken,
			TokensGenerated: payload.TokensGenerated,
			Content:         payload.Content,
			ReceivedAt:      at,
		}, true, nil
	case "arbitration_complete":
		return conference.Event{Kind: conference.EventSynthesisComplete, ReceivedAt: at}, true, nil
	case "fragility_start":
		return conference.Event{Kind: conference.EventFragilityStart, ReceivedAt: at}, true, nil
	case "fragility_test":
		return conference.Event{
			Kind:       conference.EventFragilityTest,
			Detail:     fragilityDetail(payload),
			ReceivedAt: at,
		}, true, nil
	case "fragility_complete":
		return conference.Event{Kind: conference.EventFragilityComplete, ReceivedAt: at}, true, nil
	case "conference_complete":
		return conference.Event{
			Kind:       conference.EventConferenceComplete,
			Answer:     payload.Result,
			Confidence: payload.Confidence,
			ReceivedAt: at,
		}, true, nil
	case "error", "conference_error":
		return conference.Event{
			Kind:       conference.EventConferenceError,
			Err:        payload.Error,
			ReceivedAt: at,
		}, true, nil
	default:
		return conference.Event{}, false, nil
	}
}

// agentEvent builds a per-agent event from a payload.
func agentEvent(kind conference.EventKind, payload wirePayload, at time.Time) conference.Event {
	return conference.Event{
		Kind:            kind,
		Role:            conference.AgentRole(payload.Role),
		TokensGenerated: payload.TokensGenerated,
		TokensEstimated: payload.TokensEstimated,
		Confidence:      payload.Confidence,
		Content:         payload.Content,
		Err:             payload.Error,
		ReceivedAt:      at,
	}
}

// laneAgentEvent unwraps the lane-scoped addressing into a plain agent
// event; the reducer derives the lane from the role itself.
func laneAgentEvent(payload wirePayload, at time.Time) (conference.Event, bool, error) {
	switch payload.Event {
	case "start", "thinking":
		return agentEvent(conference.EventAgentStart, payload, at), true, nil
	case "token", "progress":
		return agentEvent(conference.EventAgentProgress, payload, at), true, nil
	case "complete":
		return agentEvent(conference.EventAgentComplete, payload, at), true, nil
	case "error":
		return agentEvent(conference.EventAgentError, payload, at), true, nil
	default:
		return conference.Event{}, false, nil
	}
}

// rolesFromNames converts a roster of role names, keeping unknown names
// as-is so the reducer stays tolerant of vocabulary drift.
func rolesFromNames(names []string) []conference.AgentRole {
	roles := make([]conference.AgentRole, 0, len(names))
	for _, name := range names {
		roles = append(roles, conference.AgentRole(name))
	}
	return roles
}

// critiqueDetail formats a critique exchange for the activity log.
func critiqueDetail(payload wirePayload) string {
	if payload.From != "" && payload.To != "" {
		if payload.Summary != "" {
			return fmt.Sprintf("%s critiques %s: %s", payload.From, payload.To, payload.Summary)
		}
		return fmt.Sprintf("%s critiques %s", payload.From, payload.To)
	}
	return payload.Summary
}

// fragilityDetail formats a robustness test outcome for the activity log.
func fragilityDetail(payload wirePayload) string {
	if payload.Total > 0 {
		return fmt.Sprintf("test %d/%d: %s", payload.Index, payload.Total, payload.Verdict)
	}
	return payload.Verdict
}
