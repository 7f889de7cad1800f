package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lectio/internal/course"
	"github.com/abhisek/lectio/internal/evaluate"
	"github.com/abhisek/lectio/internal/exercisegen"
	"github.com/abhisek/lectio/internal/llm"
	"github.com/abhisek/lectio/internal/session"
	"github.com/abhisek/lectio/internal/store"
	"github.com/abhisek/lectio/internal/verify"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice the next unfinished section",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, sections, progress, err := openCourse(cmd)
		if err != nil {
			return err
		}

		sectionID, _ := cmd.Flags().GetInt("section")
		section, err := pickSection(sections, progress, sectionID)
		if err != nil {
			return err
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

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		llmCfg := settings.LLMConfig()
		if err := llmCfg.Validate(); err != nil {
			return err
		}
		provider, err := llm.NewProvider(ctx, llmCfg, s.EventRepo())
		if err != nil {
			return err
		}

		genCfg := exercisegen.DefaultConfig()
		genCfg.MaxTokens = settings.MaxTokens
		genCfg.Temperature = settings.Temperature

		ctrl := session.NewController(
			exercisegen.New(provider, genCfg),
			verify.New(provider, verify.DefaultConfig()),
			evaluate.New(provider, evaluate.DefaultConfig()),
			dir,
			s.EventRepo(),
			progress,
			section,
			session.Config{Difficulty: settings.Difficulty},
		)

		fmt.Printf("Section %d: %s\n\n", section.ID, section.Title)
		return runPractice(ctx, ctrl)
	},
}

func init() {
	practiceCmd.Flags().Int("section", 0, "Section ID to practice (default: first unfinished)")
}

// pickSection returns the requested section, or the first unfinished one.
func pickSection(sections []course.Section, progress *course.Progress, id int) (course.Section, error) {
	if id > 0 {
		for _, s := range sections {
			if s.ID == id {
				return s, nil
			}
		}
		return course.Section{}, fmt.Errorf("section %d not found", id)
	}
	for _, s := range sections {
		if !progress.Section(s.ID).Completed {
			return s, nil
		}
	}
	return course.Section{}, fmt.Errorf("all sections are completed")
}

// runPractice drives the interactive answer loop for one section.
// Generation runs through the background fetcher: the loop stays
// responsive to interrupts even when a round trip takes minutes.
func runPractice(ctx context.Context, ctrl *session.Controller) error {
	fetcher := session.NewBatchFetcher(ctrl)

	for {
		fmt.Printf("Generating %s exercises...\n\n", ctrl.Stage())

		fetcher.Request(ctx)
		batch, err := awaitBatch(ctx, fetcher)
		if errors.Is(err, session.ErrSectionComplete) {
			return finishSection(ctx, ctrl)
		}
		if err != nil {
			var genErr *exercisegen.GenerationError
			if errors.As(err, &genErr) {
				return fmt.Errorf("the backend did not produce usable exercises: %w", err)
			}
			return err
		}

		for i := range batch {
			ex := &batch[i]
			if err := askOne(ctx, ctrl, ex); err != nil {
				return err
			}
		}

		ctrl.AdvanceStage()
	}
}

// awaitBatch polls the fetcher until the in-flight generation completes,
// cancelling it when the learner interrupts.
func awaitBatch(ctx context.Context, fetcher *session.BatchFetcher) ([]exercisegen.Exercise, error) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if batch, err, ok := fetcher.Consume(); ok {
			return batch, err
		}
		select {
		case <-ctx.Done():
			fetcher.Cancel()
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func askOne(ctx context.Context, ctrl *session.Controller, ex *exercisegen.Exercise) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println(ex.Question)
	for i, opt := range ex.Options {
		fmt.Printf("  %d. %s\n", i+1, opt)
	}
	switch ex.Stage {
	case exercisegen.StageSingleChoice:
		fmt.Print("\nYour answer (number or text): ")
	case exercisegen.StageMultipleChoice:
		fmt.Print("\nYour answer (numbers, comma-separated): ")
	default:
		fmt.Print("\nYour answer: ")
	}

	answer, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	answer = strings.TrimSpace(answer)

	comment := ""
	if ex.Stage == exercisegen.StageMultipleChoice {
		fmt.Print("Optional justification (enter to skip): ")
		comment, err = reader.ReadString('\n')
		if err != nil {
			return err
		}
		comment = strings.TrimSpace(comment)
	}

	verdict, err := ctrl.Submit(ctx, ex, answer, comment)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(verdict.Feedback)
	for _, s := range verdict.Strengths {
		fmt.Printf("  + %s\n", s)
	}
	for _, s := range verdict.AreasForImprovement {
		fmt.Printf("  - %s\n", s)
	}
	fmt.Println()
	return nil
}

func finishSection(ctx context.Context, ctrl *session.Controller) error {
	fmt.Println("Section complete. Evaluating...")

	res, err := ctrl.FinishSection(ctx)
	if err != nil {
		return err
	}

	if res.Score > 0 {
		fmt.Printf("\nScore: %d/5\n%s\n", res.Score, res.Comment)
	} else {
		fmt.Printf("\n%s\n", res.Comment)
	}
	return nil
}
