package personalization

import (
	"slices"
	"testing"
	"time"
)

func TestRecommendRecovery(t *testing.T) {
	baseProfile := UserProfile{ID: "user-1", FitnessLevel: FitnessIntermediate, Age: 30}

	tests := []struct {
		name      string
		intensity float64
		profile   UserProfile
		want      time.Duration
	}{
		{"low intensity", 0.3, baseProfile, 24 * time.Hour},
		{"moderate intensity", 0.5, baseProfile, 36 * time.Hour},
		{"high intensity", 0.8, baseProfile, 48 * time.Hour},
		{"band boundary is moderate", 0.45, baseProfile, 36 * time.Hour},
		{
			name:      "age fifty and above extends recovery",
			intensity: 0.8,
			profile:   UserProfile{FitnessLevel: FitnessIntermediate, Age: 55},
			want:      60 * time.Hour,
		},
		{
			name:      "age forty extends recovery less",
			intensity: 0.8,
			profile:   UserProfile{FitnessLevel: FitnessIntermediate, Age: 42},
			want:      54 * time.Hour,
		},
		{
			name:      "beginners recover longer",
			intensity: 0.3,
			profile:   UserProfile{FitnessLevel: FitnessBeginner, Age: 30},
			want:      36 * time.Hour,
		},
		{
			name:      "athletes recover faster",
			intensity: 0.3,
			profile:   UserProfile{FitnessLevel: FitnessAthlete, Age: 30},
			want:      18 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recommendRecovery(tt.intensity, tt.profile)
			if got.RecoveryTime != tt.want {
				t.Errorf("RecoveryTime = %v, want %v", got.RecoveryTime, tt.want)
			}
		})
	}
}

func TestRecommendRecoveryHighIntensityGuidance(t *testing.T) {
	got := recommendRecovery(0.9, UserProfile{FitnessLevel: FitnessIntermediate, Age: 30})

	if !slices.Contains(got.Activities, "rest day") {
		t.Errorf("high intensity activities %v missing rest day", got.Activities)
	}
	if len(got.Nutrition) == 0 || len(got.Sleep) == 0 {
		t.Error("nutrition and sleep guidance must not be empty")
	}
}

func TestRecommendRecoveryClamped(t *testing.T) {
	// The oldest beginner at the highest intensity still stays within the
	// allowed window.
	got := recommendRecovery(1.0, UserProfile{FitnessLevel: FitnessBeginner, Age: 80})

	if got.RecoveryTime < minRecovery || got.RecoveryTime > maxRecovery {
		t.Errorf("RecoveryTime %v outside [%v, %v]", got.RecoveryTime, minRecovery, maxRecovery)
	}
}
