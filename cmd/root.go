package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lectio/internal/config"
	"github.com/abhisek/lectio/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lectio",
	Short: "Turn any text into staged practice sessions",
	Long: "Lectio splits a plain-text book into sections and drills each one through\n" +
		"three exercise stages (single choice, multiple choice, open question),\n" +
		"generating, checking and scoring everything through an LLM backend.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LECTIO_DB env var)")
	rootCmd.PersistentFlags().String("course", ".", "Path to the course directory")
	rootCmd.PersistentFlags().String("config", "", "Path to the settings file (overrides LECTIO_CONFIG)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then LECTIO_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadSettings loads application settings honoring the --config flag.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Settings{}, err
		}
	}
	s, err := config.Load(path)
	if err != nil {
		return config.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}
