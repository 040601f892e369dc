package conference

import "time"

// PhaseKey identifies a top-level pipeline stage.
type PhaseKey string

const (
	PhaseRouting   PhaseKey = "routing"
	PhaseScout     PhaseKey = "scout"
	PhaseLaneA     PhaseKey = "lane_a"
	PhaseLaneB     PhaseKey = "lane_b"
	PhaseCrossExam PhaseKey = "cross_exam"
	PhaseSynthesis PhaseKey = "synthesis"
	PhaseFragility PhaseKey = "fragility"
)

// PhaseStatus is the lifecycle status of a phase.
type PhaseStatus string

const (
	PhasePending  PhaseStatus = "pending"
	PhaseRunning  PhaseStatus = "running"
	PhaseComplete PhaseStatus = "complete"
	PhaseError    PhaseStatus = "error"
)

// phaseRank orders phase statuses for forward-only transitions.
func phaseRank(status PhaseStatus) int {
	switch status {
	case PhasePending:
		return 0
	case PhaseRunning:
		return 1
	case PhaseComplete:
		return 2
	case PhaseError:
		return 3
	default:
		return -1
	}
}

// Phase describes one pipeline stage.
type Phase struct {
	Key       PhaseKey
	Label     string
	Status    PhaseStatus
	StartedAt time.Time
	Duration  time.Duration
	Estimate  time.Duration
}

// AgentRole identifies a deliberation participant.
type AgentRole string

const (
	RoleEmpiricist AgentRole = "empiricist"
	RolePragmatist AgentRole = "pragmatist"
	RoleTheorist   AgentRole = "theorist"
	RoleContrarian AgentRole = "contrarian"
	RoleArbiter    AgentRole = "arbiter"
)

// Roles lists the fixed participant vocabulary in display order.
func Roles() []AgentRole {
	return []AgentRole{RoleEmpiricist, RolePragmatist, RoleTheorist, RoleContrarian, RoleArbiter}
}

// KnownRole reports whether a role belongs to the fixed vocabulary.
func KnownRole(role AgentRole) bool {
	switch role {
	case RoleEmpiricist, RolePragmatist, RoleTheorist, RoleContrarian, RoleArbiter:
		return true
	default:
		return false
	}
}

// LaneOf returns the generation lane a role belongs to, if any.
func LaneOf(role AgentRole) (PhaseKey, bool) {
	switch role {
	case RoleEmpiricist, RolePragmatist:
		return PhaseLaneA, true
	case RoleTheorist, RoleContrarian:
		return PhaseLaneB, true
	default:
		return "", false
	}
}

// AgentStatus is the lifecycle status of an agent.
type AgentStatus string

const (
	AgentIdle      AgentStatus = "idle"
	AgentWaiting   AgentStatus = "waiting"
	AgentThinking  AgentStatus = "thinking"
	AgentStreaming AgentStatus = "streaming"
	AgentComplete  AgentStatus = "complete"
	AgentError     AgentStatus = "error"
)

// agentRank orders agent statuses for forward-only transitions.
func agentRank(status AgentStatus) int {
	switch status {
	case AgentIdle:
		return 0
	case AgentWaiting:
		return 1
	case AgentThinking:
		return 2
	case AgentStreaming:
		return 3
	case AgentComplete, AgentError:
		return 4
	default:
		return -1
	}
}

// agentTerminal reports whether an agent status is final.
func agentTerminal(status AgentStatus) bool {
	return status == AgentComplete || status == AgentError
}

// AgentState holds the observed state of one participant.
type AgentState struct {
	Role            AgentRole
	Status          AgentStatus
	TokensGenerated int
	TokensEstimated int
	Confidence      float64
	Content         string
	Err             string
}

// Status is the overall job status.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// Terminal reports whether the overall status is final.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusError
}

// RoutingDecision records the backend's routing outcome.
type RoutingDecision struct {
	Mode   string
	Roster []AgentRole
	Scout  bool
}

// Result carries the terminal payload of a successful conference.
type Result struct {
	Answer     string
	Confidence float64
}

// State is the aggregate view of one conference job. The reducer is its
// only writer; readers must work on snapshots obtained via Clone.
type State struct {
	JobID        string
	Status       Status
	CurrentPhase PhaseKey
	Phases       []Phase
	Agents       map[AgentRole]AgentState
	Routing      RoutingDecision
	Progress     int
	Result       *Result
	Err          string
	StartedAt    time.Time
}

// NewState returns an idle aggregate for a job id.
func NewState(jobID string) State {
	return State{
		JobID:  jobID,
		Status: StatusIdle,
		Agents: map[AgentRole]AgentState{},
	}
}

// Clone returns a deep copy safe for concurrent readers.
func (s State) Clone() State {
	out := s
	out.Phases = make([]Phase, len(s.Phases))
	copy(out.Phases, s.Phases)
	out.Agents = make(map[AgentRole]AgentState, len(s.Agents))
	for role, agent := range s.Agents {
		out.Agents[role] = agent
	}
	if s.Result != nil {
		result := *s.Result
		out.Result = &result
	}
	out.Routing.Roster = append([]AgentRole(nil), s.Routing.Roster...)
	return out
}

// FindPhase returns a pointer into the state's phase slice, or nil.
func (s *State) FindPhase(key PhaseKey) *Phase {
	for i := range s.Phases {
		if s.Phases[i].Key == key {
			return &s.Phases[i]
		}
	}
	return nil
}
