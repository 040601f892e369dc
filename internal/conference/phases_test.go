package conference

import (
	"testing"
	"time"
)

// TestBuildPipelineFullRoster verifies all optional stages are present when enabled.
func TestBuildPipelineFullRoster(t *testing.T) {
	phases := BuildPipeline(PipelineOptions{Scout: true, Fragility: true})
	want := []PhaseKey{PhaseRouting, PhaseScout, PhaseLaneA, PhaseLaneB, PhaseCrossExam, PhaseSynthesis, PhaseFragility}
	if len(phases) != len(want) {
		t.Fatalf("expected %d phases, got %d", len(want), len(phases))
	}
	for i, key := range want {
		if phases[i].Key != key {
			t.Fatalf("phase %d: expected %s, got %s", i, key, phases[i].Key)
		}
		if phases[i].Status != PhasePending {
			t.Fatalf("phase %s: expected pending, got %s", key, phases[i].Status)
		}
		if phases[i].Estimate <= 0 {
			t.Fatalf("phase %s: expected default estimate", key)
		}
	}
}

// TestBuildPipelineSkipsOptionalStages verifies scout and fragility can be omitted.
func TestBuildPipelineSkipsOptionalStages(t *testing.T) {
	phases := BuildPipeline(PipelineOptions{})
	for _, phase := range phases {
		if phase.Key == PhaseScout || phase.Key == PhaseFragility {
			t.Fatalf("unexpected optional phase %s", phase.Key)
		}
	}
}

// TestBuildPipelineEstimateOverrides verifies config estimates override defaults.
func TestBuildPipelineEstimateOverrides(t *testing.T) {
	phases := BuildPipeline(PipelineOptions{
		Estimates: map[PhaseKey]time.Duration{PhaseSynthesis: 90 * time.Second},
	})
	for _, phase := range phases {
		if phase.Key == PhaseSynthesis && phase.Estimate != 90*time.Second {
			t.Fatalf("expected synthesis override, got %v", phase.Estimate)
		}
		if phase.Key == PhaseRouting && phase.Estimate != defaultEstimates[PhaseRouting] {
			t.Fatalf("expected routing default, got %v", phase.Estimate)
		}
	}
}

// TestKnownPhase verifies the canonical key vocabulary.
func TestKnownPhase(t *testing.T) {
	if !KnownPhase(PhaseCrossExam) {
		t.Fatalf("expected cross_exam to be known")
	}
	if KnownPhase("warmup") {
		t.Fatalf("expected warmup to be unknown")
	}
}

// TestPhaseLabelFallsBackToKey verifies unknown keys render as themselves.
func TestPhaseLabelFallsBackToKey(t *testing.T) {
	if got := PhaseLabel("warmup"); got != "warmup" {
		t.Fatalf("expected raw key, got %q", got)
	}
	if got := PhaseLabel(PhaseLaneA); got != "Lane A deliberation" {
		t.Fatalf("unexpected label %q", got)
	}
}
