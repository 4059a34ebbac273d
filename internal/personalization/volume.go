package personalization

import (
	"fmt"
	"math"
)

// Volume adjustment constants. The dead-band keeps small multiplier noise
// from oscillating between tiny up/down adjustments session to session.
const (
	deadBandUpper = 1.1
	deadBandLower = 0.9

	volumeTrendNudge       = 0.10
	volumeRecoveryNudge    = 0.05
	volumeConsistencyNudge = 0.05
	volumeReadinessNudge   = 0.05

	goodRecoveryThreshold    = 0.7
	poorRecoveryThreshold    = 0.4
	highConsistencyThreshold = 0.8
	lowConsistencyThreshold  = 0.5
)

// adjustVolume computes a bounded multiplicative adjustment to the current
// training volume from trend, recovery quality, consistency, and readiness.
func adjustVolume(
	current TrainingVolume,
	perf PerformanceSnapshot,
	trend Trend,
	readiness float64,
) TrainingVolumeAdjustment {
	multiplier := 1.0
	var reasoning []string

	switch trend {
	case TrendImproving:
		multiplier += volumeTrendNudge
		reasoning = append(reasoning, "improving trend: volume up")
	case TrendDeclining:
		multiplier -= volumeTrendNudge
		reasoning = append(reasoning, "declining trend: volume down")
	case TrendStable:
		// No adjustment.
	}

	switch {
	case perf.RecoveryQuality > goodRecoveryThreshold:
		multiplier += volumeRecoveryNudge
		reasoning = append(reasoning, "good recovery quality: volume up")
	case perf.RecoveryQuality < poorRecoveryThreshold:
		multiplier -= volumeRecoveryNudge
		reasoning = append(reasoning, "poor recovery quality: volume down")
	}

	switch {
	case perf.Consistency > highConsistencyThreshold:
		multiplier += volumeConsistencyNudge
		reasoning = append(reasoning, "high consistency: volume up")
	case perf.Consistency < lowConsistencyThreshold:
		multiplier -= volumeConsistencyNudge
		reasoning = append(reasoning, "low consistency: volume down")
	}

	switch {
	case readiness > highReadinessThreshold:
		multiplier += volumeReadinessNudge
		reasoning = append(reasoning, "high readiness: volume up")
	case readiness < lowReadinessThreshold:
		multiplier -= volumeReadinessNudge
		reasoning = append(reasoning, "low readiness: volume down")
	}

	multiplier = clamp(multiplier, minMultiplier, maxMultiplier)
	adjustmentType := classifyAdjustment(multiplier)
	reasoning = append(reasoning, fmt.Sprintf("volume multiplier %.2f: %s", multiplier, adjustmentType))

	adjusted := current
	if adjustmentType != AdjustmentMaintain {
		adjusted = scaleVolume(current, multiplier)
	}

	return TrainingVolumeAdjustment{
		Current:    current,
		Adjusted:   adjusted,
		Type:       adjustmentType,
		Multiplier: multiplier,
		Reasoning:  reasoning,
	}
}

// classifyAdjustment maps a multiplier onto the three adjustment types using
// the fixed dead-band thresholds. There is no fourth state.
func classifyAdjustment(multiplier float64) AdjustmentType {
	switch {
	case multiplier > deadBandUpper:
		return AdjustmentIncrease
	case multiplier < deadBandLower:
		return AdjustmentDecrease
	default:
		return AdjustmentMaintain
	}
}

// scaleVolume applies the multiplier to every volume dimension. Weight is
// rounded to the nearest 0.5 kg plate increment.
func scaleVolume(v TrainingVolume, multiplier float64) TrainingVolume {
	return TrainingVolume{
		Sets:            int(math.Round(float64(v.Sets) * multiplier)),
		Reps:            int(math.Round(float64(v.Reps) * multiplier)),
		WeightKg:        math.Round(v.WeightKg*multiplier*2) / 2,
		DurationMinutes: int(math.Round(float64(v.DurationMinutes) * multiplier)),
	}
}
