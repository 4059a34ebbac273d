package personalization

import "fmt"

// Multiplier bounds. No single signal, including a misbehaving ML model, may
// push a prescription outside this range.
const (
	minMultiplier = 0.7
	maxMultiplier = 1.3
)

// Rule-table nudges applied to the base multiplier of 1.0.
const (
	highReadinessThreshold = 0.8
	lowReadinessThreshold  = 0.4

	highReadinessNudge = 0.05
	lowReadinessNudge  = -0.10

	fatigueHighNudge     = -0.10
	fatigueVeryHighNudge = -0.20

	trendNudge = 0.05

	// mlBlendThreshold gates the confidence-weighted blend: below it the
	// prediction is recorded but ignored.
	mlBlendThreshold = 0.5
)

// multipliers holds the three reconciled adjustment factors.
type multipliers struct {
	difficulty float64
	duration   float64
	intensity  float64
}

// reconcile merges heuristic signals, the feedback bias, and (when trusted)
// the ML prediction into clamped multipliers. The returned reasoning trail
// records every nudge so degraded or extreme paths stay observable.
func reconcile(
	factors PersonalizationFactors,
	prediction *Prediction,
	template WorkoutTemplate,
	feedbackBias float64,
) (multipliers, []string) {
	m := multipliers{difficulty: 1.0, duration: 1.0, intensity: 1.0}
	var reasoning []string

	switch {
	case factors.Readiness > highReadinessThreshold:
		m.difficulty += highReadinessNudge
		m.intensity += highReadinessNudge
		m.duration += highReadinessNudge / 2
		reasoning = append(reasoning, fmt.Sprintf("high readiness (%.2f): nudged difficulty and intensity up", factors.Readiness))
	case factors.Readiness < lowReadinessThreshold:
		m.difficulty += lowReadinessNudge
		m.intensity += lowReadinessNudge / 2
		m.duration += lowReadinessNudge / 2
		reasoning = append(reasoning, fmt.Sprintf("low readiness (%.2f): reduced difficulty and intensity", factors.Readiness))
	}

	switch factors.Fatigue {
	case FatigueHigh:
		m.difficulty += fatigueHighNudge
		m.intensity += fatigueHighNudge
		m.duration += fatigueHighNudge / 2
		reasoning = append(reasoning, "high fatigue: reduced difficulty and intensity")
	case FatigueVeryHigh:
		m.difficulty += fatigueVeryHighNudge
		m.intensity += fatigueVeryHighNudge
		m.duration += fatigueVeryHighNudge / 2
		reasoning = append(reasoning, "very high fatigue: strongly reduced difficulty and intensity")
	case FatigueLow, FatigueModerate:
		// No adjustment.
	}

	switch factors.Trend {
	case TrendImproving:
		m.difficulty += trendNudge
		reasoning = append(reasoning, "improving performance trend: nudged difficulty up")
	case TrendDeclining:
		m.difficulty -= trendNudge
		reasoning = append(reasoning, "declining performance trend: nudged difficulty down")
	case TrendStable:
		// No adjustment.
	}

	if feedbackBias != 0 {
		m.difficulty += feedbackBias
		m.intensity += feedbackBias
		reasoning = append(reasoning, fmt.Sprintf("recent feedback bias applied: %+.3f", feedbackBias))
	}

	if prediction != nil && factors.MLConfidence > mlBlendThreshold {
		m, reasoning = blendPrediction(m, *prediction, factors.MLConfidence, template, reasoning)
	}

	m.difficulty = clamp(m.difficulty, minMultiplier, maxMultiplier)
	m.duration = clamp(m.duration, minMultiplier, maxMultiplier)
	m.intensity = clamp(m.intensity, minMultiplier, maxMultiplier)

	return m, reasoning
}

// blendPrediction folds the ML-predicted difficulty and duration into the
// rule-based multipliers using confidence as the blend weight. The intensity
// multiplier stays heuristic; the model does not predict it.
func blendPrediction(
	m multipliers,
	prediction Prediction,
	confidence float64,
	template WorkoutTemplate,
	reasoning []string,
) (multipliers, []string) {
	c := clamp01(confidence)

	if template.Difficulty > 0 {
		predicted := prediction.Difficulty / template.Difficulty
		m.difficulty = m.difficulty*(1-c) + predicted*c
	}
	if template.DurationMinutes > 0 {
		predicted := prediction.DurationMinutes / float64(template.DurationMinutes)
		m.duration = m.duration*(1-c) + predicted*c
	}
	reasoning = append(reasoning,
		fmt.Sprintf("blended ML prediction with confidence %.2f", c))

	return m, reasoning
}
