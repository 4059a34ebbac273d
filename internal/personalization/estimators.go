package personalization

import "math"

// Readiness formula weights (sleep, stress, energy must sum to 1).
const (
	readinessSleepWeight  = 0.4
	readinessStressWeight = 0.3
	readinessEnergyWeight = 0.3

	// targetSleepHours caps the sleep contribution; oversleeping beyond
	// the target earns no bonus.
	targetSleepHours = 8.0

	// defaultReadiness applies when no health snapshot is available.
	defaultReadiness = 0.6
)

// Fatigue blend weights and bucket boundaries.
const (
	fatigueLoadWeight     = 0.7
	fatigueRecoveryWeight = 0.3

	fatigueLowUpper      = 0.25
	fatigueModerateUpper = 0.5
	fatigueHighUpper     = 0.75
)

// Trend thresholds on the improvement delta.
const (
	trendImprovingThreshold = 0.1
	trendDecliningThreshold = -0.1
)

// estimateReadiness computes a [0,1] readiness score from sleep, stress, and
// energy. Pure function.
func estimateReadiness(h HealthSnapshot) float64 {
	sleep := math.Min(h.SleepHours/targetSleepHours, 1.0)
	stress := 1.0 - float64(h.StressLevel)/100.0
	energy := float64(h.EnergyLevel) / 100.0

	return clamp01(readinessSleepWeight*sleep +
		readinessStressWeight*stress +
		readinessEnergyWeight*energy)
}

// estimateFatigueScore blends workout-load fatigue with recovery fatigue.
// Load fatigue rises with recent training density, recovery fatigue with
// poor recovery quality.
func estimateFatigueScore(perf PerformanceSnapshot) float64 {
	loadFatigue := clamp01(0.5*perf.AverageIntensity + 0.5*perf.Consistency)
	recoveryFatigue := clamp01(1.0 - perf.RecoveryQuality)

	return clamp01(fatigueLoadWeight*loadFatigue + fatigueRecoveryWeight*recoveryFatigue)
}

// bucketFatigue partitions the [0,1] fatigue score into four contiguous
// buckets. Boundary values belong to the higher bucket.
func bucketFatigue(score float64) FatigueLevel {
	switch {
	case score < fatigueLowUpper:
		return FatigueLow
	case score < fatigueModerateUpper:
		return FatigueModerate
	case score < fatigueHighUpper:
		return FatigueHigh
	default:
		return FatigueVeryHigh
	}
}

// classifyTrend maps the improvement delta onto a trend. Deterministic with
// no hysteresis so repeated identical inputs yield the same trend.
func classifyTrend(improvement float64) Trend {
	switch {
	case improvement > trendImprovingThreshold:
		return TrendImproving
	case improvement < trendDecliningThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
