package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lectio/internal/evaluate"
	"github.com/abhisek/lectio/internal/llm"
	"github.com/abhisek/lectio/internal/store"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <section-id>",
	Short: "Re-run the evaluation for a section's attempt history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var sectionID int
		if _, err := fmt.Sscanf(args[0], "%d", &sectionID); err != nil {
			return fmt.Errorf("invalid section ID %q", args[0])
		}

		dir, sections, progress, err := openCourse(cmd)
		if err != nil {
			return err
		}

		var title string
		found := false
		for _, s := range sections {
			if s.ID == sectionID {
				title, found = s.Title, true
				break
			}
		}
		if !found {
			return fmt.Errorf("section %d not found", sectionID)
		}

		sp := progress.Section(sectionID)
		if len(sp.Exercises) == 0 {
			return fmt.Errorf("section %d has no attempts to evaluate", sectionID)
		}

		settings, err := loadSettings(cmd)
		if err != nil {
			return err
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

		res := evaluate.New(provider, evaluate.DefaultConfig()).Evaluate(ctx, title, sp.Exercises)

		score := res.Score
		sp.Evaluation.Score = &score
		sp.Evaluation.Comment = res.Comment
		if err := dir.SaveProgress(progress); err != nil {
			return err
		}

		if res.Score > 0 {
			fmt.Printf("Score: %d/5\n%s\n", res.Score, res.Comment)
		} else {
			fmt.Println(res.Comment)
		}
		return nil
	},
}
