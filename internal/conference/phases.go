package conference

import "time"

// defaultEstimates are a-priori phase weights used when the config and
// routing decision supply none.
var defaultEstimates = map[PhaseKey]time.Duration{
	PhaseRouting:   5 * time.Second,
	PhaseScout:     20 * time.Second,
	PhaseLaneA:     45 * time.Second,
	PhaseLaneB:     45 * time.Second,
	PhaseCrossExam: 30 * time.Second,
	PhaseSynthesis: 40 * time.Second,
	PhaseFragility: 25 * time.Second,
}

// phaseLabels maps phase keys to display names.
var phaseLabels = map[PhaseKey]string{
	PhaseRouting:   "Routing",
	PhaseScout:     "Literature scout",
	PhaseLaneA:     "Lane A deliberation",
	PhaseLaneB:     "Lane B deliberation",
	PhaseCrossExam: "Cross-examination",
	PhaseSynthesis: "Synthesis",
	PhaseFragility: "Fragility testing",
}

// KnownPhase reports whether a key names a canonical pipeline stage.
func KnownPhase(key PhaseKey) bool {
	_, ok := phaseLabels[key]
	return ok
}

// PhaseLabel returns the display name for a phase key.
func PhaseLabel(key PhaseKey) string {
	if label, ok := phaseLabels[key]; ok {
		return label
	}
	return string(key)
}

// PipelineOptions selects which optional stages the pipeline carries.
type PipelineOptions struct {
	Scout     bool
	Fragility bool
	// Estimates overrides the default per-phase weights; zero or missing
	// entries fall back to the defaults.
	Estimates map[PhaseKey]time.Duration
}

// BuildPipeline constructs the canonical top-level phase list for a job.
// Every phase starts pending; lanes are always present because the roster
// is unknown until routing completes.
func BuildPipeline(opts PipelineOptions) []Phase {
	keys := []PhaseKey{PhaseRouting}
	if opts.Scout {
		keys = append(keys, PhaseScout)
	}
	keys = append(keys, PhaseLaneA, PhaseLaneB, PhaseCrossExam, PhaseSynthesis)
	if opts.Fragility {
		keys = append(keys, PhaseFragility)
	}

	phases := make([]Phase, 0, len(keys))
	for _, key := range keys {
		estimate := opts.Estimates[key]
		if estimate <= 0 {
			estimate = defaultEstimates[key]
		}
		phases = append(phases, Phase{
			Key:      key,
			Label:    PhaseLabel(key),
			Status:   PhasePending,
			Estimate: estimate,
		})
	}
	return phases
}

// phaseForKind maps boundary event kinds to the phase they address.
func phaseForKind(kind EventKind) (PhaseKey, bool) {
	switch kind {
	case EventRoutingStart, EventRoutingComplete:
		return PhaseRouting, true
	case EventScoutStart, EventScoutComplete:
		return PhaseScout, true
	case EventCrossExamStart, EventCrossExamComplete:
		return PhaseCrossExam, true
	case EventSynthesisStart, EventSynthesisComplete:
		return PhaseSynthesis, true
	case EventFragilityStart, EventFragilityComplete:
		return PhaseFragility, true
	default:
		return "", false
	}
}
