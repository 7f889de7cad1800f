package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lectio/internal/course"
)

var initCmd = &cobra.Command{
	Use:   "init <book.txt>",
	Short: "Initialize a course from a plain-text book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("course")

		sections, _, err := course.OpenDir(dir).Init(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Initialized course in %s with %d sections:\n", dir, len(sections))
		for _, s := range sections {
			fmt.Printf("  %d. %s\n", s.ID, s.Title)
		}
		return nil
	},
}

// openCourse loads the structure and progress for the --course directory.
func openCourse(cmd *cobra.Command) (*course.Dir, []course.Section, *course.Progress, error) {
	path, _ := cmd.Flags().GetString("course")
	dir := course.OpenDir(path)

	sections, err := dir.Sections()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("no course found in %s (run lectio init first): %w", path, err)
	}
	progress, err := dir.Progress()
	if err != nil {
		return nil, nil, nil, err
	}
	return dir, sections, progress, nil
}
