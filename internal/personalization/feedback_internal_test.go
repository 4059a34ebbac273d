package personalization

import (
	"errors"
	"testing"
	"time"
)

func TestValidateFeedback(t *testing.T) {
	tests := []struct {
		name    string
		fb      Feedback
		wantErr bool
	}{
		{"valid", Feedback{Difficulty: 3, Enjoyment: 4, Completion: 0.9}, false},
		{"boundary ratings", Feedback{Difficulty: 1, Enjoyment: 5, Completion: 1}, false},
		{"difficulty too low", Feedback{Difficulty: 0, Enjoyment: 3, Completion: 0.5}, true},
		{"difficulty too high", Feedback{Difficulty: 6, Enjoyment: 3, Completion: 0.5}, true},
		{"enjoyment out of range", Feedback{Difficulty: 3, Enjoyment: 0, Completion: 0.5}, true},
		{"completion negative", Feedback{Difficulty: 3, Enjoyment: 3, Completion: -0.1}, true},
		{"completion above one", Feedback{Difficulty: 3, Enjoyment: 3, Completion: 1.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFeedback(tt.fb)
			if tt.wantErr && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("got %v, want ErrInvalidInput", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func feedbackSignals(difficulties ...int) []FeedbackSignal {
	// Newest first, matching the store's ordering.
	signals := make([]FeedbackSignal, 0, len(difficulties))
	createdAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	for _, difficulty := range difficulties {
		signals = append(signals, FeedbackSignal{
			UserID:    "user-1",
			WorkoutID: "workout-1",
			Feedback:  Feedback{Difficulty: difficulty, Enjoyment: 3, Completion: 1},
			CreatedAt: createdAt,
		})
		createdAt = createdAt.AddDate(0, 0, -1)
	}
	return signals
}

func TestDeriveFeedbackAdjustment(t *testing.T) {
	tests := []struct {
		name          string
		signals       []FeedbackSignal
		wantBias      float64
		wantSustained bool
	}{
		{"no signals", nil, 0, false},
		{"too hard biases down", feedbackSignals(5), -0.05, false},
		{"too easy biases up", feedbackSignals(1, 3), 0.05, false},
		{"neutral rating no bias", feedbackSignals(3, 5), 0, false},
		{"two consecutive hard ratings sustain", feedbackSignals(4, 5, 2), -0.025, true},
		{"hard streak broken by an easy rating", feedbackSignals(5, 2, 5), -0.05, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bias, sustained := deriveFeedbackAdjustment(tt.signals)
			if bias != tt.wantBias {
				t.Errorf("bias = %v, want %v", bias, tt.wantBias)
			}
			if sustained != tt.wantSustained {
				t.Errorf("sustained = %v, want %v", sustained, tt.wantSustained)
			}
		})
	}
}
