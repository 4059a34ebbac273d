package personalization

import (
	"math"
	"time"
)

// Progressive overload planning constants.
const (
	overloadPhaseCount = 4
	overloadPhaseWeeks = 3

	// deloadFactor is the one allowed regression, applied to the first
	// phase only under sustained difficulty complaints.
	deloadFactor = 0.9

	// defaultStartingLoad seeds a plan when the exercise has no history
	// (20 kg x 12 reps).
	defaultStartingLoad = 240.0

	minPhaseGrowthRate = 0.01
	maxPhaseGrowthRate = 0.08
)

// baseGrowthRate is the per-phase load growth by fitness level. Beginners
// adapt fastest, athletes slowest.
var baseGrowthRate = map[FitnessLevel]float64{ //nolint:gochecknoglobals // lookup table
	FitnessBeginner:     0.05,
	FitnessIntermediate: 0.035,
	FitnessAdvanced:     0.025,
	FitnessAthlete:      0.015,
}

// planOverload builds a multi-phase load trajectory for one exercise.
//
// Target load never regresses between consecutive phases. The single
// exception is an initial deload phase when recent feedback shows sustained
// difficulty complaints.
func planOverload(
	userID string,
	exerciseID int,
	level FitnessLevel,
	history []ExercisePerformance,
	sustainedComplaints bool,
	start time.Time,
) ProgressiveOverloadPlan {
	currentLoad := estimateCurrentLoad(history)
	improvementRate := estimateImprovementRate(history)

	rate := baseGrowthRate[level]
	if rate == 0 {
		rate = baseGrowthRate[FitnessBeginner]
	}
	// A user already improving fast gets a slightly steeper trajectory,
	// a stalling one a gentler ramp.
	rate = clamp(rate+0.5*improvementRate, minPhaseGrowthRate, maxPhaseGrowthRate)

	phases := make([]OverloadPhase, 0, overloadPhaseCount)
	phaseStart := start
	previousTarget := 0.0

	for i := range overloadPhaseCount {
		target := currentLoad * math.Pow(1+rate, float64(i))
		if i == 0 && sustainedComplaints {
			target = currentLoad * deloadFactor
		}
		// Monotonic after the optional deload.
		if i > 0 && target < previousTarget {
			target = previousTarget
		}
		previousTarget = target

		phaseEnd := phaseStart.AddDate(0, 0, overloadPhaseWeeks*7)
		phases = append(phases, OverloadPhase{
			Phase:      i + 1,
			StartDate:  phaseStart,
			EndDate:    phaseEnd,
			TargetLoad: math.Round(target*10) / 10,
		})
		phaseStart = phaseEnd
	}

	return ProgressiveOverloadPlan{
		UserID:          userID,
		ExerciseID:      exerciseID,
		CurrentLoad:     math.Round(currentLoad*10) / 10,
		ImprovementRate: rate,
		Phases:          phases,
	}
}

// estimateCurrentLoad takes the most recent session's load, falling back to
// the default starting load for a fresh exercise.
func estimateCurrentLoad(history []ExercisePerformance) float64 {
	if len(history) == 0 {
		return defaultStartingLoad
	}
	load := history[len(history)-1].Load()
	if load <= 0 {
		return defaultStartingLoad
	}
	return load
}

// estimateImprovementRate compares the average load of the newer half of the
// history against the older half, normalized to a signed rate.
func estimateImprovementRate(history []ExercisePerformance) float64 {
	if len(history) < 2 {
		return 0
	}

	mid := len(history) / 2
	older := averageLoad(history[:mid])
	newer := averageLoad(history[mid:])
	if older <= 0 {
		return 0
	}

	rate := (newer - older) / older
	return clamp(rate, -0.05, 0.1)
}

func averageLoad(history []ExercisePerformance) float64 {
	if len(history) == 0 {
		return 0
	}
	var sum float64
	for _, p := range history {
		sum += p.Load()
	}
	return sum / float64(len(history))
}
