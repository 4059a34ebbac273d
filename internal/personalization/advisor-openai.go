package personalization

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// predictionSchema constrains the model to the exact prediction shape.
var predictionSchema = map[string]any{ //nolint:gochecknoglobals // static JSON schema
	"type": "object",
	"required": []string{
		"predicted_difficulty",
		"predicted_duration_minutes",
		"predicted_calories",
		"confidence",
	},
	"properties": map[string]any{
		"predicted_difficulty": map[string]any{
			"type":        "number",
			"description": "Difficulty the user can handle today on the template's 0-1 scale",
		},
		"predicted_duration_minutes": map[string]any{
			"type":        "number",
			"description": "Session duration the user can sustain, in minutes",
		},
		"predicted_calories": map[string]any{
			"type":        "number",
			"description": "Estimated calories burned",
		},
		"confidence": map[string]any{
			"type":        "number",
			"description": "Confidence in this prediction between 0 and 1",
		},
	},
	"additionalProperties": false,
}

// openAIAdvisor implements MLInferenceService against the OpenAI API.
//
// Every failure mode, including timeouts, maps to ErrMLUnavailable so the
// reconciler can fall back to heuristics without inspecting the cause.
type openAIAdvisor struct {
	client openai.Client
	logger *slog.Logger
}

// newOpenAIAdvisor creates an inference boundary backed by the OpenAI API.
func newOpenAIAdvisor(apiKey string, logger *slog.Logger) *openAIAdvisor {
	return &openAIAdvisor{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		logger: logger,
	}
}

// Predict asks the model for a structured workout prediction. The caller is
// expected to bound ctx with a timeout.
func (a *openAIAdvisor) Predict(ctx context.Context, input PredictionInput) (Prediction, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return Prediction{}, fmt.Errorf("marshal prediction input: %w", err)
	}

	prompt := fmt.Sprintf(`Given this workout template and user state, predict what the user can
handle today. Difficulty uses the same 0-1 scale as the template. Report your
confidence between 0 and 1; use a low value when the inputs look unusual or
contradictory.

%s`, payload)

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "workout_prediction",
		Description: openai.String("Predicted workout parameters for today"),
		Schema:      predictionSchema,
		Strict:      openai.Bool(true),
	}

	chat, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
		Model: openai.ChatModelGPT4oMini,
	})
	if err != nil {
		a.logger.LogAttrs(ctx, slog.LevelWarn, "inference request failed", slog.Any("error", err))
		return Prediction{}, fmt.Errorf("%w: chat completion: %w", ErrMLUnavailable, err)
	}

	if len(chat.Choices) == 0 {
		return Prediction{}, fmt.Errorf("%w: empty completion", ErrMLUnavailable)
	}

	var prediction Prediction
	if err = json.Unmarshal([]byte(chat.Choices[0].Message.Content), &prediction); err != nil {
		return Prediction{}, fmt.Errorf("%w: parse prediction: %w", ErrMLUnavailable, err)
	}

	if prediction.Confidence < 0 || prediction.Confidence > 1 {
		return Prediction{}, fmt.Errorf("%w: confidence %f out of range", ErrMLUnavailable, prediction.Confidence)
	}

	return prediction, nil
}

// unavailableAdvisor is the MLInferenceService used when no API key is
// configured. It reports unavailability so the heuristic path is used.
type unavailableAdvisor struct{}

func (unavailableAdvisor) Predict(context.Context, PredictionInput) (Prediction, error) {
	return Prediction{}, ErrMLUnavailable
}
