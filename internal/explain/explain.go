// Package explain generates plain-language explanations of a section's
// text at a chosen detail level, with optional follow-up refinement when
// the learner says what they did not understand.
package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/lectio/internal/llm"
)

// DetailLevel selects how deep an explanation goes.
type DetailLevel string

const (
	DetailBasic    DetailLevel = "basic"
	DetailStandard DetailLevel = "standard"
	DetailThorough DetailLevel = "thorough"
)

// Valid reports whether the level is one of the three defined levels.
func (d DetailLevel) Valid() bool {
	switch d {
	case DetailBasic, DetailStandard, DetailThorough:
		return true
	}
	return false
}

// ParseDetailLevel maps a settings string to a DetailLevel, defaulting to
// standard for empty or unknown values.
func ParseDetailLevel(s string) DetailLevel {
	switch DetailLevel(strings.ToLower(strings.TrimSpace(s))) {
	case DetailBasic:
		return DetailBasic
	case DetailThorough:
		return DetailThorough
	default:
		return DetailStandard
	}
}

const systemPromptTemplate = `You are an experienced teacher who explains difficult material in plain,
accessible language. Explain the provided text at detail level: %s.

Detail levels:
- basic: a short explanation of the main ideas, at most 3-4 paragraphs
- standard: a detailed explanation of the main and secondary ideas with examples, up to 6-7 paragraphs
- thorough: a comprehensive explanation with rich examples, analogies and context, up to 10 paragraphs

Explanation techniques to use:
1. Start with the big picture, then move to details
2. Use everyday examples for difficult concepts
3. Highlight key terms and definitions
4. Rephrase complex ideas in your own words
5. Use analogies`

// Input describes one explanation request.
type Input struct {
	// SectionText is the material to explain.
	SectionText string

	// SectionTitle labels the material in the prompt. May be empty.
	SectionTitle string

	// Level selects the explanation depth.
	Level DetailLevel

	// Feedback, when non-empty, is the learner's description of what was
	// unclear in a previous explanation; it turns the request into a
	// refinement pass.
	Feedback string
}

// Config controls the explainer's requests.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.5,
	}
}

// Explainer produces section explanations.
type Explainer struct {
	provider llm.Provider
	config   Config
}

// New creates an Explainer with the given provider and config.
func New(provider llm.Provider, cfg Config) *Explainer {
	return &Explainer{provider: provider, config: cfg}
}

// Explain asks the backend for a prose explanation. Unlike generation and
// evaluation, the reply is free text: only reasoning markup is stripped.
// An empty reply is an error, never silently accepted.
func (e *Explainer) Explain(ctx context.Context, input Input) (string, error) {
	if strings.TrimSpace(input.SectionText) == "" {
		return "", fmt.Errorf("nothing to explain")
	}

	level := input.Level
	if !level.Valid() {
		level = DetailStandard
	}

	ctx = llm.WithPurpose(ctx, "explanation")

	messages := []llm.Message{
		{Role: llm.RoleUser, Content: buildUserMessage(input, level)},
	}
	if strings.TrimSpace(input.Feedback) != "" {
		messages = append(messages, llm.Message{
			Role: llm.RoleUser,
			Content: fmt.Sprintf(
				"I did not understand the following points in your explanation: %s. Please explain them in more detail.",
				strings.TrimSpace(input.Feedback)),
		})
	}

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:      fmt.Sprintf(systemPromptTemplate, level),
		Messages:    messages,
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate explanation: %w", err)
	}

	text := strings.TrimSpace(llm.StripReasoning(string(resp.Content)))
	if text == "" {
		return "", fmt.Errorf("empty explanation from backend")
	}
	return text, nil
}

func buildUserMessage(input Input, level DetailLevel) string {
	var b strings.Builder
	if input.SectionTitle != "" {
		fmt.Fprintf(&b, "Section: %s\n\n", input.SectionTitle)
	}
	fmt.Fprintf(&b, "Explain the following text at detail level %s:\n\n%s", level, input.SectionText)
	return b.String()
}
