package exercisegen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/lectio/internal/llm"
)

// Generator produces exercise batches using an LLM provider.
type Generator interface {
	// Generate produces a validated batch of exercises for one stage.
	// Returns a GenerationError when no well-formed batch could be
	// produced within the attempt budget.
	Generate(ctx context.Context, input GenerateInput) ([]Exercise, error)
}

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// rawExercise is one item of the LLM reply before normalization.
// CorrectAnswer is deferred: stage-1 answers arrive either as an array
// or as a comma-separated string.
type rawExercise struct {
	ID                 int             `json:"id"`
	Type               string          `json:"type"`
	Question           string          `json:"question"`
	Options            []string        `json:"options"`
	CorrectAnswer      json.RawMessage `json:"correct_answer"`
	ModelAnswer        string          `json:"model_answer"`
	EvaluationCriteria string          `json:"evaluation_criteria"`
	Stage              *int            `json:"stage"`
}

// Generate requests a fresh batch for the stage, validating structure and
// normalizing answers. Malformed output triggers a full regeneration, up
// to the configured attempt budget.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) ([]Exercise, error) {
	if !input.Stage.Valid() {
		return nil, fmt.Errorf("invalid stage %d", int(input.Stage))
	}

	ctx = llm.WithPurpose(ctx, "exercise-gen")

	req := llm.Request{
		System: buildSystemPrompt(input),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	attempts := g.config.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := g.provider.Generate(ctx, req)
		if err != nil {
			lastErr = err
			continue
		}

		batch, err := g.parseBatch(resp.Content, input.Stage)
		if err != nil {
			lastErr = err
			continue
		}

		return batch, nil
	}

	return nil, &GenerationError{Stage: input.Stage, Attempts: attempts, Err: lastErr}
}

// parseBatch turns a raw reply into a validated, normalized batch.
func (g *LLMGenerator) parseBatch(content json.RawMessage, stage Stage) ([]Exercise, error) {
	text := llm.ExtractJSONArray(string(content))

	if err := llm.ValidateJSON(batchSchema(stage), json.RawMessage(text)); err != nil {
		return nil, err
	}

	var raws []rawExercise
	if err := json.Unmarshal([]byte(text), &raws); err != nil {
		return nil, fmt.Errorf("parse exercise batch: %w", err)
	}

	if len(raws) == 0 {
		return nil, &ValidationError{Stage: stage, Index: -1, Message: "empty batch"}
	}

	batch := make([]Exercise, 0, len(raws))
	for i, raw := range raws {
		ex, err := normalizeExercise(raw, stage, i)
		if err != nil {
			return nil, err
		}
		batch = append(batch, ex)
	}
	return batch, nil
}

// normalizeExercise converts one raw item to an Exercise, enforcing the
// stage invariants.
func normalizeExercise(raw rawExercise, stage Stage, index int) (Exercise, error) {
	// Backends sometimes omit the stage field; fill it in. A conflicting
	// stage means the model generated the wrong kind.
	if raw.Stage != nil && Stage(*raw.Stage) != stage {
		return Exercise{}, &ValidationError{
			Stage: stage, Index: index,
			Message: fmt.Sprintf("stage mismatch: got %d", *raw.Stage),
		}
	}

	if strings.TrimSpace(raw.Question) == "" {
		return Exercise{}, &ValidationError{Stage: stage, Index: index, Message: "empty question"}
	}

	ex := Exercise{
		ID:       index + 1,
		Kind:     stage.Kind(),
		Question: strings.TrimSpace(raw.Question),
		Stage:    stage,
	}
	if raw.ID != 0 {
		ex.ID = raw.ID
	}

	switch stage {
	case StageSingleChoice:
		if len(raw.Options) < 2 {
			return Exercise{}, &ValidationError{Stage: stage, Index: index, Message: "too few options"}
		}
		answer, err := decodeStringAnswer(raw.CorrectAnswer)
		if err != nil {
			return Exercise{}, &ValidationError{Stage: stage, Index: index, Message: err.Error()}
		}
		ex.Options = raw.Options
		ex.CorrectOption = answer

	case StageMultipleChoice:
		if len(raw.Options) < 3 {
			return Exercise{}, &ValidationError{Stage: stage, Index: index, Message: "too few options"}
		}
		answers, err := decodeAnswerList(raw.CorrectAnswer)
		if err != nil {
			return Exercise{}, &ValidationError{Stage: stage, Index: index, Message: err.Error()}
		}
		// The whole point of this stage is selecting several options; a
		// single correct answer means the model generated the wrong kind.
		if len(answers) <= 1 {
			return Exercise{}, &ValidationError{
				Stage: stage, Index: index,
				Message: fmt.Sprintf("multiple-choice needs more than one correct answer, got %d", len(answers)),
			}
		}
		ex.Options = raw.Options
		ex.CorrectOptions = answers

	case StageOpenQuestion:
		// Rubric grading and fallback feedback both lean on the model
		// answer; an open question without one is unusable.
		if strings.TrimSpace(raw.ModelAnswer) == "" {
			return Exercise{}, &ValidationError{Stage: stage, Index: index, Message: "missing model_answer"}
		}
		ex.ModelAnswer = strings.TrimSpace(raw.ModelAnswer)
		ex.EvaluationCriteria = strings.TrimSpace(raw.EvaluationCriteria)
	}

	return ex, nil
}

// decodeStringAnswer decodes a correct_answer that must be a single string.
func decodeStringAnswer(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("missing correct_answer")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("correct_answer is not a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty correct_answer")
	}
	return s, nil
}

// decodeAnswerList decodes a correct_answer that may be a JSON array of
// strings or a single comma-separated string, normalizing to a trimmed,
// non-empty list.
func decodeAnswerList(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing correct_answer")
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("correct_answer is neither a list nor a string")
		}
		list = strings.Split(s, ",")
	}

	out := make([]string, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty correct_answer")
	}
	return out, nil
}
