// Package config loads and saves user-facing application settings: which
// backend to talk to, generation knobs, and the learner's preferences.
// Settings live in a JSON file with environment-variable overrides on top.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/abhisek/lectio/internal/llm"
)

// Settings is the user-editable application configuration.
type Settings struct {
	// Provider selects the backend: openai, anthropic, gemini, openrouter
	// or mock.
	Provider string `json:"provider"`

	// APIEndpoint is the OpenAI-compatible base URL. Defaults to a local
	// server that needs no credential.
	APIEndpoint string `json:"api_endpoint"`

	// APIKey is the credential for the selected provider. Optional for
	// local endpoints.
	APIKey string `json:"api_key"`

	// Model is the model identifier sent to the backend.
	Model string `json:"model"`

	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`

	// Difficulty steers exercise generation: basic, intermediate, advanced.
	Difficulty string `json:"difficulty"`

	// DetailLevel steers section explanations: basic, standard, thorough.
	DetailLevel string `json:"detail_level"`
}

// Default returns the settings used when no file exists yet.
func Default() Settings {
	return Settings{
		Provider:    "openai",
		APIEndpoint: "http://localhost:1234/v1",
		Model:       "local",
		MaxTokens:   8000,
		Temperature: 0.5,
		Difficulty:  "intermediate",
		DetailLevel: "standard",
	}
}

// DefaultPath resolves the settings file location. LECTIO_CONFIG wins,
// then XDG_CONFIG_HOME, then ~/.config/lectio/settings.json.
func DefaultPath() (string, error) {
	if p := os.Getenv("LECTIO_CONFIG"); p != "" {
		return p, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lectio", "settings.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "lectio", "settings.json"), nil
}

// Load reads settings from path, creating the file with defaults when it
// does not exist. Environment overrides are applied after the file.
func Load(path string) (Settings, error) {
	s := Default()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &s); err != nil {
			return s, fmt.Errorf("parse settings %s: %w", path, err)
		}
	case os.IsNotExist(err):
		if err := Save(path, s); err != nil {
			return s, err
		}
	default:
		return s, fmt.Errorf("read settings: %w", err)
	}

	applyEnv(&s)
	return s, nil
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func applyEnv(s *Settings) {
	if v := os.Getenv("LECTIO_LLM_PROVIDER"); v != "" {
		s.Provider = v
	}
	if v := os.Getenv("LECTIO_API_ENDPOINT"); v != "" {
		s.APIEndpoint = v
	}
	if v := os.Getenv("LECTIO_API_KEY"); v != "" {
		s.APIKey = v
	}
	if v := os.Getenv("LECTIO_MODEL"); v != "" {
		s.Model = v
	}
	if v := os.Getenv("LECTIO_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.MaxTokens = n
		}
	}
	if v := os.Getenv("LECTIO_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			s.Temperature = f
		}
	}
	if v := os.Getenv("LECTIO_DIFFICULTY"); v != "" {
		s.Difficulty = v
	}
	if v := os.Getenv("LECTIO_DETAIL_LEVEL"); v != "" {
		s.DetailLevel = v
	}
}

// LLMConfig maps settings onto the provider configuration. The endpoint,
// key and model apply to whichever provider is selected.
func (s Settings) LLMConfig() llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Provider = s.Provider

	switch s.Provider {
	case "anthropic":
		cfg.Anthropic.APIKey = s.APIKey
		if s.Model != "" {
			cfg.Anthropic.Model = s.Model
		}
	case "gemini":
		cfg.Gemini.APIKey = s.APIKey
		if s.Model != "" {
			cfg.Gemini.Model = s.Model
		}
	case "openrouter":
		cfg.OpenRouter.APIKey = s.APIKey
		if s.Model != "" {
			cfg.OpenRouter.Model = s.Model
		}
	default:
		cfg.OpenAI.APIKey = s.APIKey
		if s.APIEndpoint != "" {
			cfg.OpenAI.BaseURL = s.APIEndpoint
		}
		if s.Model != "" {
			cfg.OpenAI.Model = s.Model
		}
	}

	return cfg
}
