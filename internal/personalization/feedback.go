package personalization

import "time"

// Feedback handling constants.
const (
	// feedbackWindow is how long a signal keeps biasing new prescriptions.
	feedbackWindow = 7 * 24 * time.Hour

	// sustainedComplaintCount consecutive hard ratings allow the overload
	// planner to schedule a deload phase.
	sustainedComplaintCount = 2

	feedbackMinRating = 1
	feedbackMaxRating = 5
)

// feedbackBias maps a difficulty rating to a temporary multiplier bias for
// the reconciler. Hard workouts bias future prescriptions down, easy ones up.
var feedbackBias = map[int]float64{ //nolint:gochecknoglobals // lookup table
	1: 0.05,
	2: 0.025,
	3: 0,
	4: -0.025,
	5: -0.05,
}

// validateFeedback rejects out-of-range feedback before any computation.
func validateFeedback(fb Feedback) error {
	if fb.Difficulty < feedbackMinRating || fb.Difficulty > feedbackMaxRating {
		return ErrInvalidInput
	}
	if fb.Enjoyment < feedbackMinRating || fb.Enjoyment > feedbackMaxRating {
		return ErrInvalidInput
	}
	if fb.Completion < 0 || fb.Completion > 1 {
		return ErrInvalidInput
	}
	return nil
}

// deriveFeedbackAdjustment folds recent signals into the bias consumed by the
// next personalization request. Signals are expected newest first. It also
// reports whether the user has sustained difficulty complaints.
func deriveFeedbackAdjustment(signals []FeedbackSignal) (bias float64, sustained bool) {
	if len(signals) == 0 {
		return 0, false
	}

	bias = feedbackBias[signals[0].Feedback.Difficulty]

	complaints := 0
	for _, signal := range signals {
		if signal.Feedback.Difficulty < feedbackMaxRating-1 {
			break
		}
		complaints++
	}
	return bias, complaints >= sustainedComplaintCount
}
