package llm

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// fallbackModels is returned when the backend can't be reached or replies
// in an unknown shape. "local" matches the default model of local servers.
var fallbackModels = []string{"local"}

// ListModels queries {BaseURL}/models on an OpenAI-compatible endpoint and
// returns the available model IDs. This is an auxiliary lookup: on any
// failure it degrades to a usable default instead of returning an error.
func ListModels(ctx context.Context, cfg OpenAIConfig, timeout time.Duration) []string {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(config)

	list, err := client.ListModels(ctx)
	if err != nil || len(list.Models) == 0 {
		return fallbackModels
	}

	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		if m.ID != "" {
			ids = append(ids, m.ID)
		}
	}
	if len(ids) == 0 {
		return fallbackModels
	}
	return ids
}
