package conference

import "time"

// EventKind identifies the type of a decoded stream event.
type EventKind int

const (
	// EventConferenceStart signals the job has begun.
	EventConferenceStart EventKind = iota
	// EventRoutingStart signals the routing phase has begun.
	EventRoutingStart
	// EventRoutingComplete delivers the routing decision.
	EventRoutingComplete
	// EventScoutStart signals literature retrieval has begun.
	EventScoutStart
	// EventScoutComplete signals literature retrieval has finished.
	EventScoutComplete
	// EventAgentStart signals an agent has begun working.
	EventAgentStart
	// EventAgentProgress delivers streaming token progress for an agent.
	EventAgentProgress
	// EventAgentComplete signals an agent has finished with a confidence.
	EventAgentComplete
	// EventAgentError signals an agent failed; local to that agent.
	EventAgentError
	// EventCrossExamStart signals the critique phase has begun.
	EventCrossExamStart
	// EventCrossExamCritique delivers one critique exchange.
	EventCrossExamCritique
	// EventCrossExamComplete signals the critique phase has finished.
	EventCrossExamComplete
	// EventSynthesisStart signals arbitration has begun.
	EventSynthesisStart
	// EventSynthesisToken delivers streaming arbitration output.
	EventSynthesisToken
	// EventSynthesisComplete signals arbitration has finished.
	EventSynthesisComplete
	// EventFragilityStart signals robustness testing has begun.
	EventFragilityStart
	// EventFragilityTest delivers one robustness test outcome.
	EventFragilityTest
	// EventFragilityComplete signals robustness testing has finished.
	EventFragilityComplete
	// EventConferenceComplete is the terminal success event.
	EventConferenceComplete
	// EventConferenceError is the terminal failure event.
	EventConferenceError
)

// Event is the tagged-union payload decoded from one wire message.
// Only the fields relevant to the Kind are populated.
type Event struct {
	Kind EventKind

	// Routing fields.
	Mode   string
	Roster []AgentRole
	Scout  bool

	// Agent fields.
	Role            AgentRole
	TokensGenerated int
	TokensEstimated int
	Confidence      float64
	Content         string

	// Cross-exam and fragility detail.
	Detail string

	// Terminal fields.
	Answer string
	Err    string

	// ReceivedAt is the local receipt time; the wire carries no
	// origination timestamps.
	ReceivedAt time.Time
}

// kindLabel maps event kinds to activity category names.
func kindLabel(kind EventKind) string {
	switch kind {
	case EventConferenceStart, EventConferenceComplete, EventConferenceError:
		return "conference"
	case EventRoutingStart, EventRoutingComplete:
		return "routing"
	case EventScoutStart, EventScoutComplete:
		return "scout"
	case EventAgentStart, EventAgentProgress, EventAgentComplete, EventAgentError:
		return "agent"
	case EventCrossExamStart, EventCrossExamCritique, EventCrossExamComplete:
		return "cross_exam"
	case EventSynthesisStart, EventSynthesisToken, EventSynthesisComplete:
		return "synthesis"
	case EventFragilityStart, EventFragilityTest, EventFragilityComplete:
		return "fragility"
	default:
		return "conference"
	}
}
