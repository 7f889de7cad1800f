// Package session orchestrates a practice session: it walks each section
// through the three exercise stages, asks the generator for stage-fitting
// batches, routes answers through the verifier, records attempts, and
// triggers the section evaluation when a section is exhausted.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/lectio/internal/course"
	"github.com/abhisek/lectio/internal/evaluate"
	"github.com/abhisek/lectio/internal/exercisegen"
	"github.com/abhisek/lectio/internal/store"
	"github.com/abhisek/lectio/internal/verify"
)

// ErrSectionComplete signals that the current section has no stages left.
// The caller decides whether to evaluate, move on, or stop.
var ErrSectionComplete = errors.New("section complete")

// ProgressSaver persists the progress record after each mutation.
// *course.Dir satisfies it.
type ProgressSaver interface {
	SaveProgress(*course.Progress) error
}

// Config carries the session-wide knobs.
type Config struct {
	// Difficulty is forwarded to exercise generation.
	Difficulty string
}

// Controller drives one section at a time through its stages. It owns the
// section's progress record exclusively for the duration of the session.
type Controller struct {
	generator exercisegen.Generator
	verifier  *verify.Verifier
	evaluator *evaluate.Evaluator
	saver     ProgressSaver
	events    store.EventRepo
	cfg       Config

	sessionID string
	progress  *course.Progress
	section   course.Section
	state     *StageState
}

// NewController starts a session over one section. The progress record is
// mutated in place and saved through saver after every attempt.
func NewController(
	generator exercisegen.Generator,
	verifier *verify.Verifier,
	evaluator *evaluate.Evaluator,
	saver ProgressSaver,
	events store.EventRepo,
	progress *course.Progress,
	section course.Section,
	cfg Config,
) *Controller {
	if events == nil {
		events = store.NoopEvents{}
	}
	return &Controller{
		generator: generator,
		verifier:  verifier,
		evaluator: evaluator,
		saver:     saver,
		events:    events,
		cfg:       cfg,
		sessionID: uuid.NewString(),
		progress:  progress,
		section:   section,
		state:     NewStageState(),
	}
}

// Stage returns the stage the controller is currently serving.
func (c *Controller) Stage() exercisegen.Stage { return c.state.Stage() }

// SectionID returns the section being practiced.
func (c *Controller) SectionID() int { return c.section.ID }

// NextBatch generates the next batch for the current stage, filtering out
// questions already answered correctly. If filtering (or generation
// trimming) empties the batch, the controller advances to the next stage
// and tries again, so the learner is never handed an empty screen.
// Returns ErrSectionComplete when stage 2 is exhausted.
func (c *Controller) NextBatch(ctx context.Context) ([]exercisegen.Exercise, error) {
	sp := c.progress.Section(c.section.ID)

	for !c.state.Complete() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := c.generator.Generate(ctx, exercisegen.GenerateInput{
			SectionText:       c.section.Content,
			SectionTitle:      c.section.Title,
			Difficulty:        c.cfg.Difficulty,
			Stage:             c.state.Stage(),
			PreviousQuestions: c.state.Recent(),
		})
		if err != nil {
			return nil, err
		}

		fresh := batch[:0]
		for _, ex := range batch {
			if !sp.HasAnswered(ex.Question) {
				fresh = append(fresh, ex)
			}
		}

		if len(fresh) == 0 {
			c.state.Advance()
			continue
		}

		for _, ex := range fresh {
			c.state.Remember(ex.Question)
		}
		return fresh, nil
	}

	return nil, ErrSectionComplete
}

// AdvanceStage moves to the next stage, for callers that exhaust a batch
// without wanting another one at the same stage.
func (c *Controller) AdvanceStage() {
	c.state.Advance()
}

// Submit verifies the learner's answer, records the attempt in the
// progress record and the event log, and persists. The returned verdict is
// always structurally valid; err is only non-nil for persistence failures.
func (c *Controller) Submit(ctx context.Context, ex *exercisegen.Exercise, userAnswer, userComment string) (verify.Verdict, error) {
	verdict := c.verifier.Verify(ctx, ex, ex.Stage, userAnswer, userComment)

	attempt := course.Attempt{
		Question:      ex.Question,
		Stage:         int(ex.Stage),
		Options:       ex.Options,
		UserAnswer:    normalizeUserAnswer(ex, userAnswer),
		CorrectAnswer: correctAnswerValue(ex),
		IsCorrect:     verdict.IsCorrect,
	}

	sp := c.progress.Section(c.section.ID)
	sp.RecordAttempt(attempt)

	if err := c.saver.SaveProgress(c.progress); err != nil {
		return verdict, fmt.Errorf("save progress: %w", err)
	}

	// Event log failures never outrank a graded attempt.
	_ = c.events.AppendAttempt(ctx, store.AttemptEventData{
		SessionID:  c.sessionID,
		SectionID:  c.section.ID,
		Stage:      int(ex.Stage),
		Question:   ex.Question,
		UserAnswer: renderAttemptAnswer(attempt.UserAnswer),
		IsCorrect:  verdict.IsCorrect,
	})

	return verdict, nil
}

// FinishSection evaluates the section's attempt history, stores the
// result, marks the section completed, and persists.
func (c *Controller) FinishSection(ctx context.Context) (evaluate.Result, error) {
	sp := c.progress.Section(c.section.ID)

	res := c.evaluator.Evaluate(ctx, c.section.Title, sp.Exercises)

	score := res.Score
	sp.Evaluation = course.Evaluation{Score: &score, Comment: res.Comment}
	sp.Completed = true

	if err := c.saver.SaveProgress(c.progress); err != nil {
		return res, fmt.Errorf("save progress: %w", err)
	}
	return res, nil
}

// normalizeUserAnswer converts raw learner input to option text so the
// stored history is readable regardless of how the answer was typed.
// Choice answers given as 1-based indices resolve to the option texts;
// everything else is stored as entered.
func normalizeUserAnswer(ex *exercisegen.Exercise, userAnswer string) any {
	switch ex.Stage {
	case exercisegen.StageSingleChoice:
		if text, ok := resolveOption(ex.Options, userAnswer); ok {
			return text
		}
		return strings.TrimSpace(userAnswer)
	case exercisegen.StageMultipleChoice:
		parts := strings.Split(userAnswer, ",")
		texts := make([]string, 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			if text, ok := resolveOption(ex.Options, part); ok {
				texts = append(texts, text)
			} else {
				texts = append(texts, part)
			}
		}
		return texts
	default:
		return userAnswer
	}
}

func resolveOption(options []string, input string) (string, bool) {
	input = strings.TrimSpace(input)
	var n int
	if _, err := fmt.Sscanf(input, "%d", &n); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], true
	}
	for _, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), input) {
			return opt, true
		}
	}
	return "", false
}

func correctAnswerValue(ex *exercisegen.Exercise) any {
	switch ex.Stage {
	case exercisegen.StageSingleChoice:
		return ex.CorrectOption
	case exercisegen.StageMultipleChoice:
		return ex.CorrectOptions
	default:
		return ex.ModelAnswer
	}
}

func renderAttemptAnswer(answer any) string {
	switch v := answer.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprint(v)
	}
}
