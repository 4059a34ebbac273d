package personalization

import "time"

// intensityBand partitions final workout intensity for the recovery rule
// table.
type intensityBand int

const (
	bandLow intensityBand = iota
	bandModerate
	bandHigh
)

// Recovery rule constants.
const (
	lowIntensityUpper      = 0.45
	moderateIntensityUpper = 0.7

	minRecovery = 12 * time.Hour
	maxRecovery = 96 * time.Hour
)

// recoveryRule is one row of the fixed rule table keyed by intensity band.
type recoveryRule struct {
	baseRecovery time.Duration
	activities   []string
	nutrition    []string
	sleep        []string
}

var recoveryRules = map[intensityBand]recoveryRule{ //nolint:gochecknoglobals // rule table
	bandLow: {
		baseRecovery: 24 * time.Hour,
		activities:   []string{"light stretching", "walking"},
		nutrition:    []string{"maintain regular protein intake", "stay hydrated"},
		sleep:        []string{"aim for your usual sleep schedule"},
	},
	bandModerate: {
		baseRecovery: 36 * time.Hour,
		activities:   []string{"foam rolling", "light cardio", "rest"},
		nutrition:    []string{"prioritize protein within two hours post-workout", "replenish carbohydrates"},
		sleep:        []string{"target at least 8 hours of sleep"},
	},
	bandHigh: {
		baseRecovery: 48 * time.Hour,
		activities:   []string{"rest day", "light walking only", "gentle mobility work"},
		nutrition:    []string{"increase protein intake", "consider anti-inflammatory foods", "stay hydrated"},
		sleep:        []string{"target 8-9 hours of sleep", "consider a short nap"},
	},
}

// recommendRecovery derives recovery time and guidance from the final workout
// intensity and the user's profile. Recovery lengthens with higher intensity,
// older age, and lower baseline fitness.
func recommendRecovery(intensity float64, profile UserProfile) RecoveryRecommendation {
	rule := recoveryRules[classifyIntensity(intensity)]
	recovery := rule.baseRecovery

	switch {
	case profile.Age >= 50:
		recovery = recovery * 5 / 4
	case profile.Age >= 40:
		recovery = recovery * 9 / 8
	}

	switch profile.FitnessLevel {
	case FitnessBeginner:
		recovery += 12 * time.Hour
	case FitnessAthlete:
		recovery -= 6 * time.Hour
	case FitnessIntermediate, FitnessAdvanced:
		// Baseline.
	}

	if recovery < minRecovery {
		recovery = minRecovery
	}
	if recovery > maxRecovery {
		recovery = maxRecovery
	}

	return RecoveryRecommendation{
		RecoveryTime: recovery,
		Activities:   rule.activities,
		Nutrition:    rule.nutrition,
		Sleep:        rule.sleep,
	}
}

func classifyIntensity(intensity float64) intensityBand {
	switch {
	case intensity < lowIntensityUpper:
		return bandLow
	case intensity < moderateIntensityUpper:
		return bandModerate
	default:
		return bandHigh
	}
}
