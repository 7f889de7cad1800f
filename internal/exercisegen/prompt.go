package exercisegen

import (
	"fmt"
	"strings"
)

const systemPromptTemplate = `You are an experienced teacher creating effective study exercises for a section of a textbook.

Rules:
- Generate exactly %d exercise(s) of type "%s" at difficulty level "%s".
- Every question must be answerable from the provided text alone.
- Do not repeat any question from the "already asked" list.
- Respond with strictly a JSON array of objects, no prose before or after:
%s`

const singleChoiceShape = `[
  {
    "id": 1,
    "type": "single_choice",
    "question": "question text",
    "options": ["option 1", "option 2", "option 3", "option 4"],
    "correct_answer": "the text of the one correct option",
    "stage": 0
  }
]
Exactly one option is correct. Distractors should be plausible but wrong.`

const multipleChoiceShape = `[
  {
    "id": 1,
    "type": "multiple_choice",
    "question": "question text",
    "options": ["option 1", "option 2", "option 3", "option 4", "option 5"],
    "correct_answer": ["correct option A", "correct option B"],
    "stage": 1
  }
]
At least two options must be correct and at least one must be wrong.
"correct_answer" lists the texts of all correct options.`

const openQuestionShape = `[
  {
    "id": 1,
    "type": "open_question",
    "question": "a question requiring a developed written answer",
    "model_answer": "a reference answer covering the key points",
    "evaluation_criteria": "what a complete answer must address",
    "stage": 2
  }
]`

// buildSystemPrompt renders the stage-specific system message.
func buildSystemPrompt(input GenerateInput) string {
	shape := singleChoiceShape
	switch input.Stage {
	case StageMultipleChoice:
		shape = multipleChoiceShape
	case StageOpenQuestion:
		shape = openQuestionShape
	}
	return fmt.Sprintf(systemPromptTemplate,
		input.Stage.BatchSize(), input.Stage.Kind(), input.Difficulty, shape)
}

// buildUserMessage embeds the source text, title, and recent questions.
func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	if input.SectionTitle != "" {
		fmt.Fprintf(&b, "Section: %s\n\n", input.SectionTitle)
	}
	fmt.Fprintf(&b, "Create exercises for the following text at difficulty level %q:\n\n%s\n", input.Difficulty, input.SectionText)

	b.WriteString("\nAlready asked (do not repeat):\n")
	b.WriteString(buildDedup(input.PreviousQuestions, cfg.MaxPriorQuestions))

	return b.String()
}

// buildDedup formats prior questions for the prompt, respecting the max limit.
// Returns "None" if there are no prior questions.
func buildDedup(priorQuestions []string, max int) string {
	if len(priorQuestions) == 0 {
		return "None"
	}

	// Keep only the most recent N questions.
	if max > 0 && len(priorQuestions) > max {
		priorQuestions = priorQuestions[len(priorQuestions)-max:]
	}

	var b strings.Builder
	for i, q := range priorQuestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
