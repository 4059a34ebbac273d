package personalization

import (
	"slices"
	"sort"
)

// Exercise selection constants.
const (
	// DefaultSelectionSize is the number of exercises in a prescription.
	DefaultSelectionSize = 8

	goalMatchScore      = 3.0
	equipmentScore      = 2.0
	levelExactScore     = 1.0
	levelAdjacentScore  = 0.5
	recentExposureScore = -1.5
)

// levelOrder positions fitness levels for adjacency scoring.
var levelOrder = map[FitnessLevel]int{ //nolint:gochecknoglobals // lookup table
	FitnessBeginner:     0,
	FitnessIntermediate: 1,
	FitnessAdvanced:     2,
	FitnessAthlete:      3,
}

// selectExercises ranks the candidate pool against the user's goals, fitness
// level, equipment, and recent exposure, returning the top count by score.
//
// Candidates requiring equipment the user lacks are excluded. The sort is
// stable with ties broken by catalog insertion order, so identical inputs
// always produce identical output.
func selectExercises(
	candidates []ExerciseDescriptor,
	profile UserProfile,
	recentExerciseIDs []int,
	count int,
) []ExerciseDescriptor {
	if count <= 0 {
		return []ExerciseDescriptor{}
	}

	type scored struct {
		exercise ExerciseDescriptor
		score    float64
	}

	ranked := make([]scored, 0, len(candidates))
	for _, candidate := range candidates {
		if !hasEquipment(profile.Equipment, candidate.Equipment) {
			continue
		}
		ranked = append(ranked, scored{
			exercise: candidate,
			score:    scoreExercise(candidate, profile, recentExerciseIDs),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if count > len(ranked) {
		count = len(ranked)
	}
	selected := make([]ExerciseDescriptor, 0, count)
	for _, r := range ranked[:count] {
		selected = append(selected, r.exercise)
	}
	return selected
}

// scoreExercise computes the deterministic ranking score for one candidate.
func scoreExercise(candidate ExerciseDescriptor, profile UserProfile, recentExerciseIDs []int) float64 {
	var score float64

	for _, goal := range candidate.Goals {
		if slices.Contains(profile.Goals, goal) {
			score += goalMatchScore
		}
	}

	if len(candidate.Equipment) > 0 {
		// Matched equipment scores; bodyweight exercises stay neutral so
		// a well-equipped user still sees them.
		score += equipmentScore
	}

	distance := levelOrder[candidate.Level] - levelOrder[profile.FitnessLevel]
	if distance < 0 {
		distance = -distance
	}
	switch distance {
	case 0:
		score += levelExactScore
	case 1:
		score += levelAdjacentScore
	}

	if slices.Contains(recentExerciseIDs, candidate.ID) {
		score += recentExposureScore
	}

	return score
}

// hasEquipment reports whether all required equipment is available.
func hasEquipment(available, required []string) bool {
	for _, item := range required {
		if !slices.Contains(available, item) {
			return false
		}
	}
	return true
}
