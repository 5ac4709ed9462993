package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/ripasso/internal/app"
	"github.com/abhisek/ripasso/internal/logging"
	"github.com/abhisek/ripasso/internal/screens/home"
	"github.com/abhisek/ripasso/internal/screens/quiz"
	"github.com/abhisek/ripasso/internal/session"
)

// runApp opens the store, builds dependencies, and launches the TUI. A
// non-empty modeName opens that mode directly.
func runApp(cmd *cobra.Command, modeName string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logging.Setup(cfg.LogLevel, cfg.LogFormat, logFile)

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	var play *session.Mode
	if modeName != "" {
		m, err := reg.Get(modeName)
		if err != nil {
			return err
		}
		play = &m
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	src := bankSource(cfg, st)
	engine := session.NewEngine(src, session.WithLogger(log))

	log.Info().
		Str("db", cfg.DBPath).
		Str("banks_dir", cfg.BanksDir).
		Int("modes", len(reg.All())).
		Bool("llm", cfg.LLMEnabled).
		Msg("starting")

	opts := app.Options{
		Home: home.Deps{
			Registry: reg,
			Banks:    src,
			History:  st.Results(),
			Quiz: quiz.Deps{
				Engine:    engine,
				Results:   st.Results(),
				Explainer: explainer(ctx, cfg, st, log),
				Log:       log,
			},
		},
		Log:  log,
		Play: play,
	}

	if err := app.Run(opts); err != nil {
		return fmt.Errorf("run app: %w", err)
	}
	return nil
}
