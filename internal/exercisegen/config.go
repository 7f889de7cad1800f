package exercisegen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxAttempts is the number of from-scratch generation attempts before
	// giving up. Each retry sends a fresh request; malformed output is
	// never patched.
	MaxAttempts int

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions is the maximum number of prior questions
	// to include in the prompt for deduplication.
	MaxPriorQuestions int
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:       3,
		MaxTokens:         4096,
		Temperature:       0.5,
		MaxPriorQuestions: 10,
	}
}
