package explain

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/abhisek/lectio/internal/llm"
)

func explainInput() Input {
	return Input{
		SectionText:  "Paris is the capital of France.",
		SectionTitle: "French cities",
		Level:        DetailBasic,
	}
}

func TestExplain_ReturnsProseReply(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`Paris has been the seat of French government for centuries.`)},
	)
	e := New(mock, DefaultConfig())

	text, err := e.Explain(context.Background(), explainInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "seat of French government") {
		t.Fatalf("unexpected explanation: %q", text)
	}
}

func TestExplain_LevelEmbeddedInPrompt(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`ok`)},
	)
	e := New(mock, DefaultConfig())

	input := explainInput()
	input.Level = DetailThorough
	if _, err := e.Explain(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := mock.Calls[0]
	if !strings.Contains(req.System, "detail level: thorough") {
		t.Fatalf("system prompt missing level:\n%s", req.System)
	}
	if !strings.Contains(req.Messages[0].Content, "Paris is the capital of France.") {
		t.Fatalf("section text missing from prompt:\n%s", req.Messages[0].Content)
	}
}

func TestExplain_FeedbackAddsRefinementMessage(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`refined explanation`)},
	)
	e := New(mock, DefaultConfig())

	input := explainInput()
	input.Feedback = "the part about centralization"
	if _, err := e.Explain(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs := mock.Calls[0].Messages
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if !strings.Contains(msgs[1].Content, "the part about centralization") {
		t.Fatalf("feedback missing from refinement message: %q", msgs[1].Content)
	}
}

func TestExplain_NoFeedbackSingleMessage(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`ok`)},
	)
	e := New(mock, DefaultConfig())

	if _, err := e.Explain(context.Background(), explainInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.Calls[0].Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mock.Calls[0].Messages))
	}
}

func TestExplain_ReasoningMarkupStripped(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("<think>how to phrase this</think>The key idea is centralization.")},
	)
	e := New(mock, DefaultConfig())

	text, err := e.Explain(context.Background(), explainInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "The key idea is centralization." {
		t.Fatalf("reasoning markup not stripped: %q", text)
	}
}

func TestExplain_EmptyReplyIsError(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`   `)},
	)
	e := New(mock, DefaultConfig())

	if _, err := e.Explain(context.Background(), explainInput()); err == nil {
		t.Fatal("expected error for an empty reply")
	}
}

func TestExplain_EmptyTextRejected(t *testing.T) {
	mock := llm.NewMockProvider()
	e := New(mock, DefaultConfig())

	if _, err := e.Explain(context.Background(), Input{SectionText: "  "}); err == nil {
		t.Fatal("expected error for empty section text")
	}
	if mock.CallCount() != 0 {
		t.Fatal("no request should be sent for empty text")
	}
}

func TestParseDetailLevel(t *testing.T) {
	cases := []struct {
		in   string
		want DetailLevel
	}{
		{"basic", DetailBasic},
		{"Thorough", DetailThorough},
		{"standard", DetailStandard},
		{"", DetailStandard},
		{"nonsense", DetailStandard},
	}
	for _, c := range cases {
		if got := ParseDetailLevel(c.in); got != c.want {
			t.Errorf("ParseDetailLevel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
