package exercisegen

import "fmt"

// Stage is one of the three ordered exercise phases per section.
// Each stage maps to exactly one exercise kind.
type Stage int

const (
	StageSingleChoice   Stage = 0
	StageMultipleChoice Stage = 1
	StageOpenQuestion   Stage = 2
)

// Valid reports whether s is one of the three defined stages.
func (s Stage) Valid() bool {
	return s >= StageSingleChoice && s <= StageOpenQuestion
}

// Kind returns the exercise kind generated for this stage.
func (s Stage) Kind() Kind {
	switch s {
	case StageSingleChoice:
		return KindSingleChoice
	case StageMultipleChoice:
		return KindMultipleChoice
	default:
		return KindOpenQuestion
	}
}

// BatchSize returns how many exercises are generated per request at this
// stage: more lightweight recall checks up front, one deep question at
// the end.
func (s Stage) BatchSize() int {
	switch s {
	case StageSingleChoice:
		return 4
	case StageMultipleChoice:
		return 2
	default:
		return 1
	}
}

// Next returns the following stage and whether one exists.
func (s Stage) Next() (Stage, bool) {
	if s < StageOpenQuestion {
		return s + 1, true
	}
	return s, false
}

func (s Stage) String() string {
	switch s {
	case StageSingleChoice:
		return "single-choice"
	case StageMultipleChoice:
		return "multiple-choice"
	case StageOpenQuestion:
		return "open-question"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Kind identifies the shape of a generated exercise.
type Kind string

const (
	KindSingleChoice   Kind = "single_choice"
	KindMultipleChoice Kind = "multiple_choice"
	KindOpenQuestion   Kind = "open_question"
)

// Exercise is one generated, gradable item. Kind and Stage are consistent
// by construction: the generator derives Kind from the requested stage and
// rejects anything else, so downstream code dispatches on Stage alone.
type Exercise struct {
	// ID is a sequence number unique within one generation batch only.
	ID int

	// Kind mirrors Stage.Kind(). Kept for serialization and display.
	Kind Kind

	// Question is the prompt shown to the learner.
	Question string

	// Options holds the answer choices for choice stages, in order.
	// Empty for open questions.
	Options []string

	// CorrectOption is the text of the correct option (single choice only).
	CorrectOption string

	// CorrectOptions holds the texts of all correct options (multiple
	// choice only). Always has more than one element after normalization.
	CorrectOptions []string

	// ModelAnswer is a reference answer for open questions.
	ModelAnswer string

	// EvaluationCriteria guides rubric grading of open questions.
	EvaluationCriteria string

	// Stage this exercise was generated for.
	Stage Stage
}

// CorrectAnswerText renders the correct answer for feedback and history:
// the option text, the comma-joined option texts, or the model answer.
func (e *Exercise) CorrectAnswerText() string {
	switch e.Stage {
	case StageSingleChoice:
		return e.CorrectOption
	case StageMultipleChoice:
		return joinComma(e.CorrectOptions)
	default:
		return e.ModelAnswer
	}
}

func joinComma(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

// GenerateInput holds all context needed to generate one stage batch.
type GenerateInput struct {
	// SectionText is the source material the exercises must be grounded in.
	SectionText string

	// SectionTitle labels the material in the prompt. May be empty.
	SectionTitle string

	// Difficulty is a free-form label ("beginner", "intermediate", "advanced").
	Difficulty string

	// Stage selects the exercise kind and batch size.
	Stage Stage

	// PreviousQuestions contains recently asked question texts. Up to
	// MaxPriorQuestions most recent entries are embedded in the prompt to
	// discourage duplicates.
	PreviousQuestions []string
}
