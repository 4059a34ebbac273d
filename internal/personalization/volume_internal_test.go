package personalization

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassifyAdjustment(t *testing.T) {
	// The dead-band edges themselves classify as maintain.
	tests := []struct {
		multiplier float64
		want       AdjustmentType
	}{
		{1.15, AdjustmentIncrease},
		{1.1, AdjustmentMaintain},
		{1.05, AdjustmentMaintain},
		{1.0, AdjustmentMaintain},
		{0.95, AdjustmentMaintain},
		{0.9, AdjustmentMaintain},
		{0.85, AdjustmentDecrease},
	}

	for _, tt := range tests {
		if got := classifyAdjustment(tt.multiplier); got != tt.want {
			t.Errorf("classifyAdjustment(%v) = %v, want %v", tt.multiplier, got, tt.want)
		}
	}
}

func TestAdjustVolume(t *testing.T) {
	current := TrainingVolume{Sets: 4, Reps: 10, WeightKg: 60, DurationMinutes: 45}

	tests := []struct {
		name           string
		perf           PerformanceSnapshot
		trend          Trend
		readiness      float64
		wantType       AdjustmentType
		wantMultiplier float64
	}{
		{
			name:           "everything favorable increases volume",
			perf:           PerformanceSnapshot{RecoveryQuality: 0.8, Consistency: 0.9},
			trend:          TrendImproving,
			readiness:      0.9,
			wantType:       AdjustmentIncrease,
			wantMultiplier: 1.25,
		},
		{
			name:           "everything unfavorable decreases volume",
			perf:           PerformanceSnapshot{RecoveryQuality: 0.3, Consistency: 0.4},
			trend:          TrendDeclining,
			readiness:      0.3,
			wantType:       AdjustmentDecrease,
			wantMultiplier: 0.75,
		},
		{
			name:           "neutral signals maintain volume",
			perf:           PerformanceSnapshot{RecoveryQuality: 0.6, Consistency: 0.6},
			trend:          TrendStable,
			readiness:      0.6,
			wantType:       AdjustmentMaintain,
			wantMultiplier: 1.0,
		},
		{
			name:           "small nudge stays inside dead-band",
			perf:           PerformanceSnapshot{RecoveryQuality: 0.8, Consistency: 0.6},
			trend:          TrendStable,
			readiness:      0.6,
			wantType:       AdjustmentMaintain,
			wantMultiplier: 1.05,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adjustVolume(current, tt.perf, tt.trend, tt.readiness)

			if got.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", got.Type, tt.wantType)
			}
			if math.Abs(got.Multiplier-tt.wantMultiplier) > floatTolerance {
				t.Errorf("Multiplier = %v, want %v", got.Multiplier, tt.wantMultiplier)
			}
			if diff := cmp.Diff(current, got.Current); diff != "" {
				t.Errorf("Current mutated (-want +got):\n%s", diff)
			}
			if tt.wantType == AdjustmentMaintain {
				if diff := cmp.Diff(current, got.Adjusted); diff != "" {
					t.Errorf("maintain must keep volume unchanged (-want +got):\n%s", diff)
				}
			}
			if len(got.Reasoning) == 0 {
				t.Error("Reasoning is empty")
			}
		})
	}
}

func TestAdjustVolumeMonotonicInTrend(t *testing.T) {
	// With identical other signals an improving trend never yields a lower
	// multiplier than a declining one.
	current := TrainingVolume{Sets: 3, Reps: 8, WeightKg: 80, DurationMinutes: 40}
	perf := PerformanceSnapshot{RecoveryQuality: 0.6, Consistency: 0.6}

	improving := adjustVolume(current, perf, TrendImproving, 0.6)
	declining := adjustVolume(current, perf, TrendDeclining, 0.6)

	if improving.Multiplier <= declining.Multiplier {
		t.Errorf("improving multiplier %v not above declining %v",
			improving.Multiplier, declining.Multiplier)
	}
}

func TestScaleVolume(t *testing.T) {
	scaled := scaleVolume(TrainingVolume{Sets: 4, Reps: 10, WeightKg: 61, DurationMinutes: 45}, 1.25)

	want := TrainingVolume{Sets: 5, Reps: 13, WeightKg: 76.5, DurationMinutes: 56}
	if diff := cmp.Diff(want, scaled); diff != "" {
		t.Errorf("scaleVolume mismatch (-want +got):\n%s", diff)
	}
}
