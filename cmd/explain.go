package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lectio/internal/explain"
	"github.com/abhisek/lectio/internal/llm"
	"github.com/abhisek/lectio/internal/store"
)

var explainCmd = &cobra.Command{
	Use:   "explain <section-id>",
	Short: "Explain a section's text at the configured detail level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var sectionID int
		if _, err := fmt.Sscanf(args[0], "%d", &sectionID); err != nil {
			return fmt.Errorf("invalid section ID %q", args[0])
		}

		dir, sections, _, err := openCourse(cmd)
		if err != nil {
			return err
		}

		idx := -1
		for i, s := range sections {
			if s.ID == sectionID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("section %d not found", sectionID)
		}
		section := &sections[idx]

		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		level := explain.ParseDetailLevel(settings.DetailLevel)
		if flagLevel, _ := cmd.Flags().GetString("level"); flagLevel != "" {
			level = explain.ParseDetailLevel(flagLevel)
		}
		feedback, _ := cmd.Flags().GetString("feedback")
		refresh, _ := cmd.Flags().GetBool("refresh")

		// A cached explanation at this level is served without a backend
		// call. Feedback always regenerates: it refines, never replays.
		if !refresh && feedback == "" {
			if cached, ok := section.Explanations[string(level)]; ok {
				fmt.Println(cached)
				return nil
			}
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()

		llmCfg := settings.LLMConfig()
		if err := llmCfg.Validate(); err != nil {
			return err
		}
		provider, err := llm.NewProvider(ctx, llmCfg, s.EventRepo())
		if err != nil {
			return err
		}

		cfg := explain.DefaultConfig()
		cfg.MaxTokens = settings.MaxTokens
		cfg.Temperature = settings.Temperature

		text, err := explain.New(provider, cfg).Explain(ctx, explain.Input{
			SectionText:  section.Content,
			SectionTitle: section.Title,
			Level:        level,
			Feedback:     feedback,
		})
		if err != nil {
			return err
		}

		if section.Explanations == nil {
			section.Explanations = make(map[string]string)
		}
		section.Explanations[string(level)] = text
		if err := dir.SaveSections(sections); err != nil {
			return fmt.Errorf("cache explanation: %w", err)
		}

		fmt.Println(text)
		return nil
	},
}

func init() {
	explainCmd.Flags().String("level", "", "Detail level: basic, standard, thorough (default: from settings)")
	explainCmd.Flags().String("feedback", "", "What was unclear in the previous explanation")
	explainCmd.Flags().Bool("refresh", false, "Regenerate even when a cached explanation exists")
}
