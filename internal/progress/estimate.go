// Package progress computes completion estimates from a phase snapshot.
// Both functions are pure: identical inputs produce identical outputs.
package progress

import (
	"math"
	"sort"
	"time"

	"parley/internal/conference"
)

// fallbackWeight is used when no phase carries an estimate at all.
const fallbackWeight = 30 * time.Second

// Overall returns the weighted completion percentage, 0-100. Running
// phases are credited at exactly 50% of their weight: true sub-phase
// progress is not observable from the wire protocol.
func Overall(phases []conference.Phase) int {
	if len(phases) == 0 {
		return 0
	}
	def := defaultWeight(phases)
	var total, done float64
	for _, phase := range phases {
		weight := weightOf(phase, def)
		total += weight
		switch phase.Status {
		case conference.PhaseComplete, conference.PhaseError:
			done += weight
		case conference.PhaseRunning:
			done += weight / 2
		}
	}
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * done / total))
}

// TimeRemaining returns the estimated seconds of work outstanding,
// rounded to whole seconds. Pending phases contribute their full
// estimate, running phases half, finished phases nothing.
func TimeRemaining(phases []conference.Phase) time.Duration {
	def := defaultWeight(phases)
	var remaining float64
	for _, phase := range phases {
		weight := weightOf(phase, def)
		switch phase.Status {
		case conference.PhasePending:
			remaining += weight
		case conference.PhaseRunning:
			remaining += weight / 2
		}
	}
	if remaining <= 0 {
		return 0
	}
	return time.Duration(math.Round(remaining)) * time.Second
}

// weightOf returns a phase's estimate in seconds, or the default weight.
func weightOf(phase conference.Phase, def float64) float64 {
	if phase.Estimate > 0 {
		return phase.Estimate.Seconds()
	}
	return def
}

// defaultWeight is the median of the specified estimates, so that
// un-estimated phases neither dominate nor vanish from the computation.
func defaultWeight(phases []conference.Phase) float64 {
	var estimates []float64
	for _, phase := range phases {
		if phase.Estimate > 0 {
			estimates = append(estimates, phase.Estimate.Seconds())
		}
	}
	if len(estimates) == 0 {
		return fallbackWeight.Seconds()
	}
	sort.Float64s(estimates)
	mid := len(estimates) / 2
	if len(estimates)%2 == 1 {
		return estimates[mid]
	}
	return (estimates[mid-1] + estimates[mid]) / 2
}
