package exercisegen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/lectio/internal/llm"
)

func genInput(stage Stage) GenerateInput {
	return GenerateInput{
		SectionText:  "Paris is the capital of France. Lyon is known for gastronomy.",
		SectionTitle: "French cities",
		Difficulty:   "intermediate",
		Stage:        stage,
	}
}

func TestGenerate_SingleChoiceBatch(t *testing.T) {
	reply := `[
		{"id": 1, "type": "single_choice", "question": "What is the capital of France?",
		 "options": ["Paris", "Lyon", "Nice"], "correct_answer": "Paris", "stage": 0},
		{"id": 2, "type": "single_choice", "question": "Which city is known for gastronomy?",
		 "options": ["Paris", "Lyon"], "correct_answer": "Lyon", "stage": 0}
	]`
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(reply)},
	)
	g := New(mock, DefaultConfig())

	batch, err := g.Generate(context.Background(), genInput(StageSingleChoice))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("expected 2 exercises, got %d", len(batch))
	}
	if batch[0].Kind != KindSingleChoice {
		t.Fatalf("unexpected kind: %s", batch[0].Kind)
	}
	if batch[0].CorrectOption != "Paris" {
		t.Fatalf("unexpected correct option: %q", batch[0].CorrectOption)
	}
	if batch[0].Stage != StageSingleChoice {
		t.Fatalf("unexpected stage: %d", batch[0].Stage)
	}
}

func TestGenerate_FencedReplyAccepted(t *testing.T) {
	reply := "```json\n[{\"question\": \"Q?\", \"options\": [\"a\", \"b\"], \"correct_answer\": \"a\"}]\n```"
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(reply)},
	)
	g := New(mock, DefaultConfig())

	batch, err := g.Generate(context.Background(), genInput(StageSingleChoice))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("expected 1 exercise, got %d", len(batch))
	}
	// Omitted id and stage are backfilled.
	if batch[0].ID != 1 || batch[0].Stage != StageSingleChoice {
		t.Fatalf("backfill failed: id=%d stage=%d", batch[0].ID, batch[0].Stage)
	}
}

func TestGenerate_MultipleChoiceCommaStringNormalized(t *testing.T) {
	reply := `[{"question": "Pick the French cities.",
		"options": ["Paris", "Berlin", "Lyon", "Madrid"],
		"correct_answer": "Paris, Lyon", "stage": 1}]`
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(reply)},
	)
	g := New(mock, DefaultConfig())

	batch, err := g.Generate(context.Background(), genInput(StageMultipleChoice))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Paris", "Lyon"}
	got := batch[0].CorrectOptions
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected correct options: %v", got)
	}
}

func TestGenerate_MultipleChoiceSingleAnswerRetried(t *testing.T) {
	bad := `[{"question": "Pick.", "options": ["a", "b", "c"], "correct_answer": ["a"], "stage": 1}]`
	good := `[{"question": "Pick.", "options": ["a", "b", "c"], "correct_answer": ["a", "c"], "stage": 1}]`
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(bad)},
		llm.MockResponse{Content: json.RawMessage(good)},
	)
	g := New(mock, DefaultConfig())

	batch, err := g.Generate(context.Background(), genInput(StageMultipleChoice))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected a regeneration, got %d calls", mock.CallCount())
	}
	if len(batch[0].CorrectOptions) != 2 {
		t.Fatalf("unexpected correct options: %v", batch[0].CorrectOptions)
	}
}

func TestGenerate_ExhaustedAttemptsReturnGenerationError(t *testing.T) {
	bad := llm.MockResponse{Content: json.RawMessage(`not json at all`)}
	mock := llm.NewMockProvider(bad, bad, bad)
	g := New(mock, DefaultConfig())

	_, err := g.Generate(context.Background(), genInput(StageSingleChoice))
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got: %v", err)
	}
	if genErr.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", genErr.Attempts)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestGenerate_StageMismatchRejected(t *testing.T) {
	wrongStage := `[{"question": "Q?", "options": ["a", "b"], "correct_answer": "a", "stage": 1}]`
	ok := `[{"question": "Q?", "options": ["a", "b"], "correct_answer": "a", "stage": 0}]`
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(wrongStage)},
		llm.MockResponse{Content: json.RawMessage(ok)},
	)
	g := New(mock, DefaultConfig())

	if _, err := g.Generate(context.Background(), genInput(StageSingleChoice)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestGenerate_OpenQuestionRequiresModelAnswer(t *testing.T) {
	missing := `[{"question": "Explain X.", "stage": 2}]`
	complete := `[{"question": "Explain X.", "model_answer": "X is ...",
		"evaluation_criteria": "must cover ...", "stage": 2}]`
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(missing)},
		llm.MockResponse{Content: json.RawMessage(complete)},
	)
	g := New(mock, DefaultConfig())

	batch, err := g.Generate(context.Background(), genInput(StageOpenQuestion))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch[0].ModelAnswer == "" {
		t.Fatal("model answer not carried through")
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestGenerate_PriorQuestionsEmbeddedInPrompt(t *testing.T) {
	reply := `[{"question": "Q?", "options": ["a", "b"], "correct_answer": "a"}]`
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(reply)},
	)
	g := New(mock, DefaultConfig())

	input := genInput(StageSingleChoice)
	input.PreviousQuestions = []string{"What is the capital of France?"}

	if _, err := g.Generate(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	userMsg := mock.Calls[0].Messages[0].Content
	if !strings.Contains(userMsg, "What is the capital of France?") {
		t.Fatalf("prior question missing from prompt:\n%s", userMsg)
	}
}

func TestGenerate_InvalidStageRejectedUpfront(t *testing.T) {
	mock := llm.NewMockProvider()
	g := New(mock, DefaultConfig())

	if _, err := g.Generate(context.Background(), GenerateInput{Stage: Stage(7)}); err == nil {
		t.Fatal("expected error for invalid stage")
	}
	if mock.CallCount() != 0 {
		t.Fatal("no request should be sent for an invalid stage")
	}
}
