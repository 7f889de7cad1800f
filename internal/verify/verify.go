// Package verify decides whether a learner's answer to a generated
// exercise is correct. Each stage carries its own trust model: stage 0 is
// graded locally, stage 1 locally with optional remote arbitration, and
// stage 2 entirely by remote rubric grading. Remote failures never surface
// as errors; they degrade to a safe negative verdict the caller can
// always persist.
package verify

import (
	"context"

	"github.com/abhisek/lectio/internal/exercisegen"
	"github.com/abhisek/lectio/internal/llm"
)

// Verdict is the result of checking one answer.
type Verdict struct {
	// IsCorrect is the final decision after all applicable policies ran.
	IsCorrect bool

	// Feedback explains the decision to the learner.
	Feedback string

	// CorrectAnswer snapshots the correct answer for display and history.
	CorrectAnswer string

	// Strengths and AreasForImprovement are filled by rubric grading of
	// open questions when the backend provides them.
	Strengths           []string
	AreasForImprovement []string

	// Err is set when the verdict was degraded by a backend failure.
	// Empty on clean verdicts.
	Err string
}

// Config controls the verifier's remote calls.
type Config struct {
	// MaxTokens is the token budget for remote grading replies.
	MaxTokens int

	// Temperature for grading calls. Kept low for consistent judgments.
	Temperature float64

	// Explain enables a best-effort remote explanation appended to locally
	// incorrect multiple-choice verdicts. Failures are swallowed.
	Explain bool
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.2,
	}
}

// Verifier checks answers. It is stateless and safe for concurrent use.
type Verifier struct {
	provider llm.Provider
	config   Config
}

// New creates a Verifier with the given provider and config.
func New(provider llm.Provider, cfg Config) *Verifier {
	return &Verifier{provider: provider, config: cfg}
}

// Verify judges the learner's answer to one exercise. Dispatch is purely
// on stage: exercises are kind/stage consistent by construction.
// userComment carries the learner's optional justification; it only
// matters for stage-1 arbitration.
func (v *Verifier) Verify(ctx context.Context, ex *exercisegen.Exercise, stage exercisegen.Stage, userAnswer, userComment string) Verdict {
	switch stage {
	case exercisegen.StageSingleChoice:
		return v.verifySingleChoice(ex, userAnswer)
	case exercisegen.StageMultipleChoice:
		return v.verifyMultipleChoice(ctx, ex, userAnswer, userComment)
	default:
		return v.verifyOpenQuestion(ctx, ex, userAnswer, userComment)
	}
}
