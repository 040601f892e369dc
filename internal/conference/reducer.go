package conference

import (
	"fmt"
	"time"
)

// Transition records one observable state change produced by a reduce
// step. The activity log appends one entry per transition; reduce steps
// that change nothing (duplicate deliveries, out-of-order progress)
// produce none.
type Transition struct {
	Category string
	Phase    PhaseKey
	Status   string
	Detail   string
	At       time.Time
}

// Reduce merges one decoded stream event into the aggregate. It never
// mutates its input and never panics; events that arrive after a
// terminal transition are ignored.
func Reduce(state State, event Event) (State, []Transition) {
	if state.Status.Terminal() {
		return state, nil
	}
	state = state.Clone()
	if state.Agents == nil {
		state.Agents = map[AgentRole]AgentState{}
	}

	at := event.ReceivedAt
	if at.IsZero() {
		at = time.Now()
	}

	switch event.Kind {
	case EventConferenceStart:
		return reduceConferenceStart(state, at)
	case EventRoutingComplete:
		return reduceRoutingComplete(state, event, at)
	case EventAgentStart:
		return reduceAgentStart(state, event, at)
	case EventAgentProgress:
		return reduceAgentProgress(state, event, at)
	case EventAgentComplete:
		return reduceAgentComplete(state, event, at)
	case EventAgentError:
		return reduceAgentError(state, event, at)
	case EventCrossExamCritique, EventFragilityTest:
		return reduceDetail(state, event, at)
	case EventSynthesisToken:
		return reduceSynthesisToken(state, event, at)
	case EventConferenceComplete:
		return reduceConferenceComplete(state, event, at)
	case EventConferenceError:
		return reduceConferenceError(state, event, at)
	}

	if key, ok := phaseForKind(event.Kind); ok {
		return reducePhaseBoundary(state, event, key, at)
	}
	return state, nil
}

// reduceConferenceStart moves the aggregate into the running status.
func reduceConferenceStart(state State, at time.Time) (State, []Transition) {
	if state.Status == StatusRunning {
		return state, nil
	}
	state.Status = StatusRunning
	if state.StartedAt.IsZero() {
		state.StartedAt = at
	}
	return state, []Transition{{
		Category: "conference",
		Status:   string(StatusRunning),
		Detail:   "conference started",
		At:       at,
	}}
}

// reduceRoutingComplete records the routing decision and seeds the
// roster agents at waiting.
func reduceRoutingComplete(state State, event Event, at time.Time) (State, []Transition) {
	markRunning(&state, at)
	state.Routing = RoutingDecision{
		Mode:   event.Mode,
		Roster: append([]AgentRole(nil), event.Roster...),
		Scout:  event.Scout,
	}
	changed := completePhase(&state, PhaseRouting, at)
	for _, role := range event.Roster {
		if _, ok := state.Agents[role]; !ok {
			state.Agents[role] = AgentState{Role: role, Status: AgentWaiting}
			changed = true
		}
	}
	if !changed {
		return state, nil
	}
	detail := "routing complete"
	if event.Mode != "" {
		detail = fmt.Sprintf("routing complete: mode %s, %d agents", event.Mode, len(event.Roster))
	}
	return state, []Transition{{
		Category: "routing",
		Phase:    PhaseRouting,
		Status:   string(PhaseComplete),
		Detail:   detail,
		At:       at,
	}}
}

// reduceAgentStart moves the addressed agent into thinking and its lane
// into running.
func reduceAgentStart(state State, event Event, at time.Time) (State, []Transition) {
	markRunning(&state, at)
	agent := ensureAgent(&state, event.Role)
	if !advanceAgent(&agent, AgentThinking) {
		return state, nil
	}
	state.Agents[event.Role] = agent
	if lane, ok := LaneOf(event.Role); ok {
		startPhase(&state, lane, at)
	}
	return state, []Transition{{
		Category: "agent",
		Phase:    state.CurrentPhase,
		Status:   string(AgentThinking),
		Detail:   fmt.Sprintf("%s thinking", event.Role),
		At:       at,
	}}
}

// reduceAgentProgress updates streaming token counters, clamped so that
// duplicate or out-of-order deliveries never move them backward.
func reduceAgentProgress(state State, event Event, at time.Time) (State, []Transition) {
	markRunning(&state, at)
	agent := ensureAgent(&state, event.Role)
	if agentTerminal(agent.Status) {
		return state, nil
	}
	changed := advanceAgent(&agent, AgentStreaming)
	if event.TokensGenerated > agent.TokensGenerated {
		agent.TokensGenerated = event.TokensGenerated
		changed = true
	}
	if event.TokensEstimated > agent.TokensEstimated {
		agent.TokensEstimated = event.TokensEstimated
		changed = true
	}
	if event.Content != "" {
		agent.Content += event.Content
		changed = true
	}
	if !changed {
		return state, nil
	}
	state.Agents[event.Role] = agent
	if lane, ok := LaneOf(event.Role); ok {
		startPhase(&state, lane, at)
	}
	return state, []Transition{{
		Category: "agent",
		Phase:    state.CurrentPhase,
		Status:   string(AgentStreaming),
		Detail:   fmt.Sprintf("%s %d/%d tokens", event.Role, agent.TokensGenerated, agent.TokensEstimated),
		At:       at,
	}}
}

// reduceAgentComplete finalizes the addressed agent with a confidence.
func reduceAgentComplete(state State, event Event, at time.Time) (State, []Transition) {
	markRunning(&state, at)
	agent := ensureAgent(&state, event.Role)
	if !advanceAgent(&agent, AgentComplete) {
		return state, nil
	}
	agent.Confidence = clampUnit(event.Confidence)
	state.Agents[event.Role] = agent
	completeLaneIfDone(&state, event.Role, at)
	return state, []Transition{{
		Category: "agent",
		Phase:    state.CurrentPhase,
		Status:   string(AgentComplete),
		Detail:   fmt.Sprintf("%s complete (confidence %.2f)", event.Role, agent.Confidence),
		At:       at,
	}}
}

// reduceAgentError marks the addressed agent failed without ending the job.
func reduceAgentError(state State, event Event, at time.Time) (State, []Transition) {
	markRunning(&state, at)
	agent := ensureAgent(&state, event.Role)
	if !advanceAgent(&agent, AgentError) {
		return state, nil
	}
	agent.Err = event.Err
	state.Agents[event.Role] = agent
	completeLaneIfDone(&state, event.Role, at)
	detail := fmt.Sprintf("%s failed", event.Role)
	if event.Err != "" {
		detail = fmt.Sprintf("%s failed: %s", event.Role, event.Err)
	}
	return state, []Transition{{
		Category: "agent",
		Phase:    state.CurrentPhase,
		Status:   string(AgentError),
		Detail:   detail,
		At:       at,
	}}
}

// reduceDetail records a critique or fragility test outcome, implicitly
// starting its phase when the boundary event was skipped.
func reduceDetail(state State, event Event, at time.Time) (State, []Transition) {
	markRunning(&state, at)
	key := PhaseCrossExam
	if event.Kind == EventFragilityTest {
		key = PhaseFragility
	}
	startPhase(&state, key, at)
	return state, []Transition{{
		Category: kindLabel(event.Kind),
		Phase:    key,
		Status:   string(PhaseRunning),
		Detail:   event.Detail,
		At:       at,
	}}
}

// reduceSynthesisToken streams arbitration output through the arbiter agent.
func reduceSynthesisToken(state State, event Event, at time.Time) (State, []Transition) {
	markRunning(&state, at)
	startPhase(&state, PhaseSynthesis, at)
	agent := ensureAgent(&state, RoleArbiter)
	if agentTerminal(agent.Status) {
		return state, nil
	}
	changed := advanceAgent(&agent, AgentStreaming)
	if event.TokensGenerated > agent.TokensGenerated {
		agent.TokensGenerated = event.TokensGenerated
		changed = true
	}
	if event.Content != "" {
		agent.Content += event.Content
		changed = true
	}
	if !changed {
		return state, nil
	}
	state.Agents[RoleArbiter] = agent
	return state, []Transition{{
		Category: "synthesis",
		Phase:    PhaseSynthesis,
		Status:   string(PhaseRunning),
		Detail:   fmt.Sprintf("arbiter %d tokens", agent.TokensGenerated),
		At:       at,
	}}
}

// reducePhaseBoundary applies a *_start or *_complete event to its phase.
func reducePhaseBoundary(state State, event Event, key PhaseKey, at time.Time) (State, []Transition) {
	markRunning(&state, at)
	var changed bool
	var status PhaseStatus
	if isStartKind(event.Kind) {
		changed = startPhase(&state, key, at)
		status = PhaseRunning
	} else {
		changed = completePhase(&state, key, at)
		status = PhaseComplete
	}
	if !changed {
		return state, nil
	}
	return state, []Transition{{
		Category: kindLabel(event.Kind),
		Phase:    key,
		Status:   string(status),
		Detail:   fmt.Sprintf("%s %s", PhaseLabel(key), status),
		At:       at,
	}}
}

// reduceConferenceComplete freezes the aggregate on terminal success.
func reduceConferenceComplete(state State, event Event, at time.Time) (State, []Transition) {
	state.Status = StatusComplete
	state.Result = &Result{Answer: event.Answer, Confidence: clampUnit(event.Confidence)}
	for i := range state.Phases {
		if state.Phases[i].Status == PhasePending || state.Phases[i].Status == PhaseRunning {
			finishPhase(&state.Phases[i], at)
		}
	}
	return state, []Transition{{
		Category: "conference",
		Status:   string(StatusComplete),
		Detail:   "conference complete",
		At:       at,
	}}
}

// reduceConferenceError freezes the aggregate on terminal failure.
func reduceConferenceError(state State, event Event, at time.Time) (State, []Transition) {
	state.Status = StatusError
	state.Err = event.Err
	if state.Err == "" {
		state.Err = "conference failed"
	}
	if phase := state.FindPhase(state.CurrentPhase); phase != nil && phase.Status == PhaseRunning {
		phase.Status = PhaseError
	}
	return state, []Transition{{
		Category: "conference",
		Phase:    state.CurrentPhase,
		Status:   string(StatusError),
		Detail:   state.Err,
		At:       at,
	}}
}

// markRunning promotes the overall status when any pipeline activity arrives.
func markRunning(state *State, at time.Time) {
	if state.Status == StatusIdle || state.Status == StatusStarting {
		state.Status = StatusRunning
		if state.StartedAt.IsZero() {
			state.StartedAt = at
		}
	}
}

// ensureAgent returns the addressed agent, creating it at waiting when
// an event arrives before the roster did.
func ensureAgent(state *State, role AgentRole) AgentState {
	if agent, ok := state.Agents[role]; ok {
		return agent
	}
	agent := AgentState{Role: role, Status: AgentWaiting}
	state.Agents[role] = agent
	return agent
}

// advanceAgent moves an agent forward; backward or repeated transitions
// report false.
func advanceAgent(agent *AgentState, to AgentStatus) bool {
	if agentTerminal(agent.Status) {
		return false
	}
	if agentRank(to) <= agentRank(agent.Status) {
		return false
	}
	agent.Status = to
	return true
}

// ensurePhase returns the index of a phase, appending a pending entry
// when the backend reports a stage the pipeline did not anticipate.
func ensurePhase(state *State, key PhaseKey) int {
	for i := range state.Phases {
		if state.Phases[i].Key == key {
			return i
		}
	}
	state.Phases = append(state.Phases, Phase{
		Key:      key,
		Label:    PhaseLabel(key),
		Status:   PhasePending,
		Estimate: defaultEstimates[key],
	})
	return len(state.Phases) - 1
}

// startPhase moves a phase into running. Any other running phase is
// implicitly completed so that at most one top-level phase presents as
// running per reconciliation step.
func startPhase(state *State, key PhaseKey, at time.Time) bool {
	i := ensurePhase(state, key)
	if phaseRank(state.Phases[i].Status) >= phaseRank(PhaseRunning) {
		return false
	}
	for j := range state.Phases {
		if j != i && state.Phases[j].Status == PhaseRunning {
			finishPhase(&state.Phases[j], at)
		}
	}
	state.Phases[i].Status = PhaseRunning
	state.Phases[i].StartedAt = at
	state.CurrentPhase = key
	return true
}

// completePhase moves a phase into complete, passing implicitly through
// running when the backend skipped the boundary event.
func completePhase(state *State, key PhaseKey, at time.Time) bool {
	i := ensurePhase(state, key)
	phase := &state.Phases[i]
	if phaseRank(phase.Status) >= phaseRank(PhaseComplete) {
		return false
	}
	if phase.Status == PhasePending {
		phase.StartedAt = at
	}
	finishPhase(phase, at)
	if state.CurrentPhase == "" {
		state.CurrentPhase = key
	}
	return true
}

// finishPhase marks a phase complete and records its measured duration.
func finishPhase(phase *Phase, at time.Time) {
	phase.Status = PhaseComplete
	if !phase.StartedAt.IsZero() && at.After(phase.StartedAt) {
		phase.Duration = at.Sub(phase.StartedAt)
	}
}

// completeLaneIfDone completes an agent's lane once every roster agent in
// that lane is terminal.
func completeLaneIfDone(state *State, role AgentRole, at time.Time) {
	lane, ok := LaneOf(role)
	if !ok {
		return
	}
	for r, agent := range state.Agents {
		if l, in := LaneOf(r); in && l == lane && !agentTerminal(agent.Status) {
			return
		}
	}
	completePhase(state, lane, at)
}

// isStartKind reports whether a boundary kind opens its phase.
func isStartKind(kind EventKind) bool {
	switch kind {
	case EventRoutingStart, EventScoutStart, EventCrossExamStart, EventSynthesisStart, EventFragilityStart:
		return true
	default:
		return false
	}
}

// clampUnit constrains a confidence value to [0,1].
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
