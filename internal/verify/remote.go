package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/lectio/internal/exercisegen"
	"github.com/abhisek/lectio/internal/llm"
)

const arbitrationSystemPrompt = `You are an experienced teacher reviewing a disputed multiple-choice answer.
The student's selection does not match the answer key, but the student has
explained their reasoning. Decide whether the student's reasoning is valid
enough to accept the answer despite the mismatch.
Respond strictly as JSON: {"is_correct": true/false, "feedback": "detailed explanation"}`

const explanationSystemPrompt = `You are an experienced teacher. A student answered a multiple-choice
question incorrectly. Briefly explain why their selection is wrong and why
the correct options are right. Respond with plain text, no JSON.`

const rubricSystemPrompt = `You are an experienced teacher grading a student's written answer to an
open question. Score the answer on completeness, accuracy, depth, structure,
and applied understanding of the material.
Respond strictly as JSON:
{"is_correct": true/false, "feedback": "detailed teacher feedback",
 "strengths": ["..."], "areas_for_improvement": ["..."]}
"is_correct" is true when the answer meets the requirements overall.`

// verdictOutput is the raw shape of remote grading replies.
type verdictOutput struct {
	IsCorrect           *bool    `json:"is_correct"`
	Feedback            string   `json:"feedback"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
}

// arbitrate asks the backend to reconsider a locally wrong multiple-choice
// answer in light of the learner's justification. Returns (verdict, true)
// only when the reply parses; all failures report ok=false so the caller
// falls back to the local verdict.
func (v *Verifier) arbitrate(ctx context.Context, ex *exercisegen.Exercise, selected, correct map[int]bool, comment string) (Verdict, bool) {
	ctx = llm.WithPurpose(ctx, "answer-arbitration")

	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nOptions:\n", ex.Question)
	for i, opt := range ex.Options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}
	fmt.Fprintf(&b, "\nAnswer key (option numbers): %s\n", formatIndexSet(correct))
	fmt.Fprintf(&b, "Student's selection (option numbers): %s\n", formatIndexSet(selected))
	fmt.Fprintf(&b, "\nStudent's reasoning:\n%s\n", comment)
	b.WriteString("\nIs the student's reasoning valid enough to accept their answer?")

	out, err := v.gradeRequest(ctx, arbitrationSystemPrompt, b.String())
	if err != nil || out.IsCorrect == nil {
		return Verdict{}, false
	}

	return Verdict{
		IsCorrect: *out.IsCorrect,
		Feedback:  out.Feedback,
	}, true
}

// explainSelection asks the backend for a short explanation of a wrong
// multiple-choice selection. Best-effort: any failure returns "".
func (v *Verifier) explainSelection(ctx context.Context, ex *exercisegen.Exercise, selected, correct map[int]bool) string {
	ctx = llm.WithPurpose(ctx, "answer-explanation")

	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nOptions:\n", ex.Question)
	for i, opt := range ex.Options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}
	fmt.Fprintf(&b, "\nCorrect options: %s\nStudent selected: %s\n", formatIndexSet(correct), formatIndexSet(selected))

	resp, err := v.provider.Generate(ctx, llm.Request{
		System: explanationSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: b.String()},
		},
		MaxTokens:   v.config.MaxTokens,
		Temperature: v.config.Temperature,
	})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(llm.StripFences(llm.StripReasoning(string(resp.Content))))
}

// verifyOpenQuestion grades an open answer entirely via the remote rubric.
// Irrecoverable backend failure degrades to a negative verdict carrying
// the error marker, so the caller can always persist an attempt.
func (v *Verifier) verifyOpenQuestion(ctx context.Context, ex *exercisegen.Exercise, userAnswer, userComment string) Verdict {
	ctx = llm.WithPurpose(ctx, "answer-grading")

	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", ex.Question)
	if ex.ModelAnswer != "" {
		fmt.Fprintf(&b, "\nModel answer:\n%s\n", ex.ModelAnswer)
	}
	if ex.EvaluationCriteria != "" {
		fmt.Fprintf(&b, "\nEvaluation criteria:\n%s\n", ex.EvaluationCriteria)
	}
	fmt.Fprintf(&b, "\nStudent's answer:\n%s\n", userAnswer)
	if strings.TrimSpace(userComment) != "" {
		fmt.Fprintf(&b, "\nStudent's comment:\n%s\n", userComment)
	}
	b.WriteString("\nGrade the student's answer.")

	out, err := v.gradeRequest(ctx, rubricSystemPrompt, b.String())
	if err != nil || out.IsCorrect == nil {
		if err == nil {
			err = fmt.Errorf("grading reply missing is_correct")
		}
		return Verdict{
			IsCorrect:     false,
			Feedback:      "The answer could not be checked automatically. Please compare it with the model answer.",
			CorrectAnswer: ex.ModelAnswer,
			Err:           err.Error(),
		}
	}

	return Verdict{
		IsCorrect:           *out.IsCorrect,
		Feedback:            out.Feedback,
		CorrectAnswer:       ex.ModelAnswer,
		Strengths:           out.Strengths,
		AreasForImprovement: out.AreasForImprovement,
	}
}

// gradeRequest sends one grading round trip and parses the JSON verdict,
// tolerating fenced or prose-wrapped replies.
func (v *Verifier) gradeRequest(ctx context.Context, system, user string) (verdictOutput, error) {
	var out verdictOutput

	resp, err := v.provider.Generate(ctx, llm.Request{
		System: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: user},
		},
		MaxTokens:   v.config.MaxTokens,
		Temperature: v.config.Temperature,
	})
	if err != nil {
		return out, err
	}

	text := llm.ExtractJSONObject(string(resp.Content))
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return out, fmt.Errorf("parse grading reply: %w", err)
	}
	return out, nil
}
