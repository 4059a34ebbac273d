package personalization

import (
	"time"
)

// FitnessLevel represents the user's training experience.
type FitnessLevel string

const (
	FitnessBeginner     FitnessLevel = "beginner"
	FitnessIntermediate FitnessLevel = "intermediate"
	FitnessAdvanced     FitnessLevel = "advanced"
	FitnessAthlete      FitnessLevel = "athlete"
)

// FatigueLevel buckets a continuous fatigue score into four levels.
type FatigueLevel string

const (
	FatigueLow      FatigueLevel = "low"
	FatigueModerate FatigueLevel = "moderate"
	FatigueHigh     FatigueLevel = "high"
	FatigueVeryHigh FatigueLevel = "very_high"
)

// Trend classifies recent performance direction.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Category represents the body focus of an exercise.
type Category string

const (
	CategoryFullBody Category = "full_body"
	CategoryUpper    Category = "upper"
	CategoryLower    Category = "lower"
)

// AdjustmentType is the direction of a volume adjustment.
type AdjustmentType string

const (
	AdjustmentIncrease AdjustmentType = "increase"
	AdjustmentDecrease AdjustmentType = "decrease"
	AdjustmentMaintain AdjustmentType = "maintain"
)

// UserProfile describes the user. Immutable per request; owned by the user
// store.
type UserProfile struct {
	ID           string       `json:"id"`
	FitnessLevel FitnessLevel `json:"fitness_level"`
	Age          int          `json:"age"`
	WeightKg     float64      `json:"weight_kg"`
	HeightCm     float64      `json:"height_cm"`
	Goals        []string     `json:"goals"`
	Equipment    []string     `json:"equipment"`
}

// HealthSnapshot is the user's current physiological state. Produced fresh
// per request, never persisted by the engine itself.
type HealthSnapshot struct {
	TakenAt     time.Time `json:"taken_at"`
	SleepHours  float64   `json:"sleep_hours"`
	StressLevel int       `json:"stress_level"` // 0-100
	EnergyLevel int       `json:"energy_level"` // 0-100
	HeartRate   int       `json:"heart_rate"`
	HRV         float64   `json:"hrv"`
}

// PerformanceSnapshot summarizes a rolling window of recent sessions.
type PerformanceSnapshot struct {
	AverageIntensity float64 `json:"average_intensity"` // 0-1
	Consistency      float64 `json:"consistency"`       // fraction of scheduled sessions completed
	Improvement      float64 `json:"improvement"`       // signed delta
	RecoveryQuality  float64 `json:"recovery_quality"`  // 0-1
}

// PersonalizationFactors are the fused signals a prescription was based on.
type PersonalizationFactors struct {
	Readiness    float64      `json:"readiness"` // 0-1
	Fatigue      FatigueLevel `json:"fatigue_level"`
	Trend        Trend        `json:"performance_trend"`
	MLConfidence float64      `json:"ml_confidence"` // 0 means ML was unavailable
}

// ExerciseDescriptor is a catalog entry used for candidate ranking.
type ExerciseDescriptor struct {
	ID                  int          `json:"id"`
	Name                string       `json:"name"`
	Category            Category     `json:"category"`
	Level               FitnessLevel `json:"level"`
	Goals               []string     `json:"goals"`
	Equipment           []string     `json:"equipment"`
	DescriptionMarkdown string       `json:"description_markdown"`
}

// TrainingVolume is the prescription volume for one session.
type TrainingVolume struct {
	Sets            int     `json:"sets"`
	Reps            int     `json:"reps"`
	WeightKg        float64 `json:"weight_kg"`
	DurationMinutes int     `json:"duration_minutes"`
}

// WorkoutTemplate is the generic input a prescription is derived from. Never
// mutated.
type WorkoutTemplate struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Difficulty      float64        `json:"difficulty"` // 0-1
	DurationMinutes int            `json:"duration_minutes"`
	Intensity       float64        `json:"intensity"` // 0-1
	BaseVolume      TrainingVolume `json:"base_volume"`
	ExerciseIDs     []int          `json:"exercise_ids"`
}

// TrainingVolumeAdjustment carries both the current and adjusted volume along
// with the multiplier that produced it.
type TrainingVolumeAdjustment struct {
	Current    TrainingVolume `json:"current"`
	Adjusted   TrainingVolume `json:"adjusted"`
	Type       AdjustmentType `json:"adjustment_type"`
	Multiplier float64        `json:"multiplier"`
	Reasoning  []string       `json:"reasoning"`
}

// RecoveryRecommendation is derived from final workout intensity and profile.
type RecoveryRecommendation struct {
	RecoveryTime time.Duration `json:"recovery_time"`
	Activities   []string      `json:"activities"`
	Nutrition    []string      `json:"nutrition"`
	Sleep        []string      `json:"sleep"`
}

// PersonalizedWorkout is the per-user, per-day prescription. Immutable once
// produced.
type PersonalizedWorkout struct {
	UserID          string                   `json:"user_id"`
	TemplateID      string                   `json:"template_id"`
	Date            time.Time                `json:"date"`
	Exercises       []ExerciseDescriptor     `json:"exercises"`
	Difficulty      float64                  `json:"difficulty"`
	DurationMinutes int                      `json:"duration_minutes"`
	Intensity       float64                  `json:"intensity"`
	Factors         PersonalizationFactors   `json:"factors"`
	Volume          TrainingVolumeAdjustment `json:"volume"`
	Recovery        RecoveryRecommendation   `json:"recovery"`
	Reasoning       []string                 `json:"reasoning"`
	ComputedAt      time.Time                `json:"computed_at"`
}

// OverloadPhase is one step of a progressive overload trajectory.
type OverloadPhase struct {
	Phase      int       `json:"phase"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TargetLoad float64   `json:"target_load"`
}

// ProgressiveOverloadPlan is a multi-phase load trajectory for one exercise.
type ProgressiveOverloadPlan struct {
	UserID          string          `json:"user_id"`
	ExerciseID      int             `json:"exercise_id"`
	CurrentLoad     float64         `json:"current_load"`
	ImprovementRate float64         `json:"improvement_rate"`
	Phases          []OverloadPhase `json:"phases"`
}

// ExercisePerformance is one historical session's work on a single exercise.
type ExercisePerformance struct {
	Date        time.Time `json:"date"`
	TopWeightKg float64   `json:"top_weight_kg"`
	TotalReps   int       `json:"total_reps"`
	Sets        int       `json:"sets"`
}

// Load is the session load for the exercise, used by the overload planner.
func (p ExercisePerformance) Load() float64 {
	return p.TopWeightKg * float64(p.TotalReps)
}

// Feedback is explicit user feedback tied to a past personalized workout.
type Feedback struct {
	Difficulty int     `json:"difficulty"` // 1 (too easy) - 5 (too hard)
	Enjoyment  int     `json:"enjoyment"`  // 1-5
	Completion float64 `json:"completion"` // 0-1
}

// FeedbackSignal is a durable feedback record consumed by future requests.
type FeedbackSignal struct {
	UserID    string    `json:"user_id"`
	WorkoutID string    `json:"workout_id"`
	Feedback  Feedback  `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

// Prediction is the ML inference output.
type Prediction struct {
	Difficulty      float64 `json:"predicted_difficulty"`
	DurationMinutes float64 `json:"predicted_duration_minutes"`
	Calories        float64 `json:"predicted_calories"`
	Confidence      float64 `json:"confidence"` // 0-1
}

// PredictionInput carries the signals handed to the inference service.
type PredictionInput struct {
	Template    WorkoutTemplate     `json:"template"`
	Profile     UserProfile         `json:"profile"`
	Performance PerformanceSnapshot `json:"performance"`
	Health      *HealthSnapshot     `json:"health,omitempty"`
}

// PersonalizationContext is the normalized per-request input bundle.
type PersonalizationContext struct {
	Profile             UserProfile
	Performance         PerformanceSnapshot
	Health              *HealthSnapshot
	RecentExerciseIDs   []int
	FeedbackBias        float64
	SustainedDifficulty bool
	Degraded            []string
}
