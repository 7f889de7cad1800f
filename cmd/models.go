package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lectio/internal/llm"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available at the configured endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		cfg := settings.LLMConfig()
		for _, id := range llm.ListModels(context.Background(), cfg.OpenAI, cfg.ModelsTimeout) {
			fmt.Println(id)
		}
		return nil
	},
}
