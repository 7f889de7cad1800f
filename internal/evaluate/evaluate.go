// Package evaluate produces a holistic per-section assessment from the
// learner's full attempt history. One request carries every attempt; the
// backend replies with a 1..5 score and a teacher comment. Evaluation is
// best-effort: after the attempt budget it degrades to a zero score rather
// than failing the caller.
package evaluate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/lectio/internal/course"
	"github.com/abhisek/lectio/internal/llm"
)

const systemPrompt = `You are an experienced teacher assessing a student's work on one section of
a course. You are given the section title and the student's full exercise
history: every question, the student's answer, and whether it was correct.
Assess the student's overall command of the section material.
Respond strictly as JSON: {"score": 1-5, "comment": "teacher's assessment"}
where 5 means excellent command and 1 means the material was not understood.`

// unavailableComment is stored when no parseable assessment could be
// produced within the attempt budget.
const unavailableComment = "evaluation unavailable"

// Result is the outcome of a section evaluation. Score 0 with the
// unavailable comment marks a failed evaluation.
type Result struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Config controls the evaluator's requests.
type Config struct {
	// MaxAttempts is the request budget before degrading. Default: 2.
	MaxAttempts int

	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 2,
		MaxTokens:   1024,
		Temperature: 0.3,
	}
}

// Evaluator assesses section-level performance.
type Evaluator struct {
	provider llm.Provider
	config   Config
}

// New creates an Evaluator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Evaluator {
	return &Evaluator{provider: provider, config: cfg}
}

// Evaluate assesses the attempt history for one section. It never returns
// an error for backend trouble; irrecoverable failure yields the zero
// result so callers can always persist something.
func (e *Evaluator) Evaluate(ctx context.Context, sectionTitle string, attempts []course.Attempt) Result {
	if len(attempts) == 0 {
		return Result{Score: 0, Comment: "No exercises were attempted in this section."}
	}

	ctx = llm.WithPurpose(ctx, "section-eval")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildHistoryMessage(sectionTitle, attempts)},
		},
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
	}

	budget := e.config.MaxAttempts
	if budget <= 0 {
		budget = 1
	}

	for attempt := 1; attempt <= budget; attempt++ {
		if ctx.Err() != nil {
			break
		}

		resp, err := e.provider.Generate(ctx, req)
		if err != nil {
			continue
		}

		if res, ok := parseResult(resp.Content); ok {
			return res
		}
	}

	return Result{Score: 0, Comment: unavailableComment}
}

// buildHistoryMessage renders the attempt history as a numbered transcript.
func buildHistoryMessage(sectionTitle string, attempts []course.Attempt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Section: %s\n\nExercise history (%d attempts):\n", sectionTitle, len(attempts))
	for i, a := range attempts {
		outcome := "incorrect"
		if a.IsCorrect {
			outcome = "correct"
		}
		fmt.Fprintf(&b, "\n%d. [stage %d, %s]\nQuestion: %s\nStudent's answer: %s\nCorrect answer: %s\n",
			i+1, a.Stage, outcome, a.Question, renderAnswer(a.UserAnswer), renderAnswer(a.CorrectAnswer))
	}
	b.WriteString("\nAssess the student's command of this section.")
	return b.String()
}

// renderAnswer flattens a stored answer (string or list) for the prompt.
func renderAnswer(answer any) string {
	switch v := answer.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// parseResult extracts the score object from a possibly fenced or
// prose-wrapped reply. Out-of-range scores are treated as failures.
func parseResult(content json.RawMessage) (Result, bool) {
	text := llm.ExtractJSONObject(string(content))

	var res Result
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return Result{}, false
	}
	if res.Score < 1 || res.Score > 5 {
		return Result{}, false
	}
	return res, true
}
