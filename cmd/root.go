package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/ripasso/internal/config"
	"github.com/abhisek/ripasso/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "ripasso",
	Short: "Timed multiple-choice quizzes in the terminal",
	Long: "Ripasso runs timed multiple-choice quizzes drawn from question banks, " +
		"scores them, and lets you review every answer.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides RIPASSO_DB)")
	pf.String("banks", "", "Directory of <name>.json bank files (overrides RIPASSO_BANKS_DIR)")
	pf.String("modes", "", "YAML quiz mode file (overrides RIPASSO_MODES)")
	pf.String("log-level", "", "Log level: debug, info, warn, error (overrides RIPASSO_LOG_LEVEL)")
	pf.String("log-file", "", "Log file for interactive runs (overrides RIPASSO_LOG_FILE)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(banksCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies flag overrides, which take
// the highest priority.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"db", &cfg.DBPath},
		{"banks", &cfg.BanksDir},
		{"modes", &cfg.ModesFile},
		{"log-level", &cfg.LogLevel},
		{"log-file", &cfg.LogFile},
	}
	for _, o := range overrides {
		if v, _ := cmd.Flags().GetString(o.flag); v != "" {
			*o.dst = v
		}
	}
	return cfg, nil
}

// cliLogger logs to stderr for non-interactive subcommands.
func cliLogger(cfg *config.Config) zerolog.Logger {
	return logging.Setup(cfg.LogLevel, "pretty", os.Stderr)
}
