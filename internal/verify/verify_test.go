package verify

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/abhisek/lectio/internal/exercisegen"
	"github.com/abhisek/lectio/internal/llm"
)

func capitalExercise() *exercisegen.Exercise {
	return &exercisegen.Exercise{
		ID:            1,
		Kind:          exercisegen.KindSingleChoice,
		Question:      "What is the capital of France?",
		Options:       []string{"Paris", "Lyon", "Nice"},
		CorrectOption: "Paris",
		Stage:         exercisegen.StageSingleChoice,
	}
}

func multiExercise() *exercisegen.Exercise {
	return &exercisegen.Exercise{
		ID:             1,
		Kind:           exercisegen.KindMultipleChoice,
		Question:       "Select A and C.",
		Options:        []string{"A", "B", "C", "D"},
		CorrectOptions: []string{"A", "C"},
		Stage:          exercisegen.StageMultipleChoice,
	}
}

func openExercise() *exercisegen.Exercise {
	return &exercisegen.Exercise{
		ID:                 1,
		Kind:               exercisegen.KindOpenQuestion,
		Question:           "Explain why Paris became the capital.",
		ModelAnswer:        "Centralization of royal power made Paris the seat of government.",
		EvaluationCriteria: "Must mention centralization.",
		Stage:              exercisegen.StageOpenQuestion,
	}
}

func TestVerify_SingleChoiceByIndex(t *testing.T) {
	mock := llm.NewMockProvider()
	v := New(mock, DefaultConfig())

	verdict := v.Verify(context.Background(), capitalExercise(), exercisegen.StageSingleChoice, "1", "")
	if !verdict.IsCorrect {
		t.Fatal("index answer for the correct option should be correct")
	}
	if mock.CallCount() != 0 {
		t.Fatal("single choice must be graded locally")
	}
}

func TestVerify_SingleChoiceByTextAnyCase(t *testing.T) {
	v := New(llm.NewMockProvider(), DefaultConfig())

	verdict := v.Verify(context.Background(), capitalExercise(), exercisegen.StageSingleChoice, "pArIs", "")
	if !verdict.IsCorrect {
		t.Fatal("text answer should match case-insensitively")
	}
}

func TestVerify_SingleChoiceWrongNamesCorrect(t *testing.T) {
	v := New(llm.NewMockProvider(), DefaultConfig())

	verdict := v.Verify(context.Background(), capitalExercise(), exercisegen.StageSingleChoice, "Lyon", "")
	if verdict.IsCorrect {
		t.Fatal("wrong option accepted")
	}
	if !strings.Contains(verdict.Feedback, "Paris") {
		t.Fatalf("feedback must name the correct answer, got: %q", verdict.Feedback)
	}
}

func TestVerify_MultipleChoiceExactMatchNoRemoteCall(t *testing.T) {
	mock := llm.NewMockProvider()
	v := New(mock, DefaultConfig())

	verdict := v.Verify(context.Background(), multiExercise(), exercisegen.StageMultipleChoice, "1,3", "")
	if !verdict.IsCorrect {
		t.Fatal("exact index set should be correct")
	}
	if mock.CallCount() != 0 {
		t.Fatalf("no remote call expected, got %d", mock.CallCount())
	}
}

func TestVerify_MultipleChoiceSubsetIsWrong(t *testing.T) {
	v := New(llm.NewMockProvider(), DefaultConfig())

	verdict := v.Verify(context.Background(), multiExercise(), exercisegen.StageMultipleChoice, "1", "")
	if verdict.IsCorrect {
		t.Fatal("a subset of the correct options must not count")
	}
}

func TestVerify_MultipleChoiceSupersetIsWrong(t *testing.T) {
	v := New(llm.NewMockProvider(), DefaultConfig())

	verdict := v.Verify(context.Background(), multiExercise(), exercisegen.StageMultipleChoice, "1,2,3", "")
	if verdict.IsCorrect {
		t.Fatal("a superset of the correct options must not count")
	}
}

func TestVerify_MultipleChoiceNoCommentNoEscalation(t *testing.T) {
	mock := llm.NewMockProvider()
	v := New(mock, DefaultConfig())

	verdict := v.Verify(context.Background(), multiExercise(), exercisegen.StageMultipleChoice, "1,2", "")
	if verdict.IsCorrect {
		t.Fatal("mismatch must be locally wrong")
	}
	if mock.CallCount() != 0 {
		t.Fatalf("empty comment must not trigger arbitration, got %d calls", mock.CallCount())
	}
}

func TestVerify_MultipleChoiceArbitrationOverrides(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"is_correct": true, "feedback": "The reasoning holds."}`)},
	)
	v := New(mock, DefaultConfig())

	verdict := v.Verify(context.Background(), multiExercise(), exercisegen.StageMultipleChoice, "1,2", "B is arguably valid because...")
	if !verdict.IsCorrect {
		t.Fatal("parseable arbitration verdict must override the local one")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected exactly one arbitration call, got %d", mock.CallCount())
	}
}

func TestVerify_MultipleChoiceArbitrationFailureFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`I cannot decide, sorry.`)},
	)
	v := New(mock, DefaultConfig())

	verdict := v.Verify(context.Background(), multiExercise(), exercisegen.StageMultipleChoice, "1,2", "here is my reasoning")
	if verdict.IsCorrect {
		t.Fatal("unparsable arbitration must fall back to the local verdict")
	}
	if verdict.Err != "" {
		t.Fatal("arbitration failure must not mark the verdict degraded")
	}
}

func TestVerify_MultipleChoiceUnparsableInput(t *testing.T) {
	mock := llm.NewMockProvider()
	v := New(mock, DefaultConfig())

	verdict := v.Verify(context.Background(), multiExercise(), exercisegen.StageMultipleChoice, "one and three", "")
	if verdict.IsCorrect {
		t.Fatal("unparsable input must be wrong")
	}
	if mock.CallCount() != 0 {
		t.Fatal("format errors are never escalated to the backend")
	}
}

func TestVerify_MultipleChoiceOutOfRangeIndex(t *testing.T) {
	v := New(llm.NewMockProvider(), DefaultConfig())

	verdict := v.Verify(context.Background(), multiExercise(), exercisegen.StageMultipleChoice, "1,9", "")
	if verdict.IsCorrect {
		t.Fatal("out-of-range index must be wrong")
	}
}

func TestVerify_OpenQuestionRubricVerdict(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("```json\n" +
			`{"is_correct": true, "feedback": "Solid answer.",
			  "strengths": ["covers centralization"],
			  "areas_for_improvement": ["could add dates"]}` + "\n```")},
	)
	v := New(mock, DefaultConfig())

	verdict := v.Verify(context.Background(), openExercise(), exercisegen.StageOpenQuestion, "Because royal power centralized there.", "")
	if !verdict.IsCorrect {
		t.Fatal("rubric verdict not honored")
	}
	if len(verdict.Strengths) != 1 || len(verdict.AreasForImprovement) != 1 {
		t.Fatalf("rubric lists not carried: %+v", verdict)
	}
}

func TestVerify_OpenQuestionBackendFailureDegrades(t *testing.T) {
	mock := llm.NewMockProvider() // empty queue: every call fails
	v := New(mock, DefaultConfig())

	verdict := v.Verify(context.Background(), openExercise(), exercisegen.StageOpenQuestion, "some answer", "")
	if verdict.IsCorrect {
		t.Fatal("degraded verdict must be negative")
	}
	if verdict.Err == "" {
		t.Fatal("degraded verdict must carry the error marker")
	}
	if verdict.CorrectAnswer == "" {
		t.Fatal("degraded verdict must still expose the model answer")
	}
}

func TestVerify_Idempotent(t *testing.T) {
	v := New(llm.NewMockProvider(), DefaultConfig())
	ex := capitalExercise()

	first := v.Verify(context.Background(), ex, exercisegen.StageSingleChoice, "Paris", "")
	second := v.Verify(context.Background(), ex, exercisegen.StageSingleChoice, "Paris", "")
	if first.IsCorrect != second.IsCorrect || first.Feedback != second.Feedback {
		t.Fatal("re-verification changed the verdict")
	}
}
