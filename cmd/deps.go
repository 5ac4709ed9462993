package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abhisek/ripasso/internal/bank"
	"github.com/abhisek/ripasso/internal/config"
	"github.com/abhisek/ripasso/internal/explain"
	"github.com/abhisek/ripasso/internal/llm"
	"github.com/abhisek/ripasso/internal/session"
	"github.com/abhisek/ripasso/internal/store"
)

// openStore opens the SQLite store at the configured path.
func openStore(cfg *config.Config) (*store.Store, error) {
	if err := config.EnsureDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// bankSource looks up banks in the bank directory, then the store, then the
// banks shipped with the binary.
func bankSource(cfg *config.Config, st *store.Store) *bank.Cached {
	return bank.NewCached(bank.Chain{
		bank.NewDirSource(cfg.BanksDir),
		st.Banks(),
		bank.Builtin(),
	})
}

// loadRegistry returns the configured mode registry or the built-in one.
func loadRegistry(cfg *config.Config) (*session.Registry, error) {
	if cfg.ModesFile == "" {
		return session.DefaultRegistry(), nil
	}
	reg, err := session.LoadRegistry(cfg.ModesFile)
	if err != nil {
		return nil, fmt.Errorf("load modes from %s: %w", cfg.ModesFile, err)
	}
	return reg, nil
}

// explainer builds the explanation service. Without a configured provider
// the service is disabled and a warning is logged.
func explainer(ctx context.Context, cfg *config.Config, st *store.Store, log zerolog.Logger) *explain.Service {
	if !cfg.LLMEnabled {
		log.Info().Msg("no LLM provider configured; explanations disabled")
		return explain.NewService(nil, nil, explain.DefaultConfig(), log)
	}
	provider, err := llm.NewProvider(ctx, cfg.LLM, log)
	if err != nil {
		log.Warn().Err(err).Str("provider", cfg.LLM.Provider).Msg("LLM provider unavailable; explanations disabled")
		return explain.NewService(nil, nil, explain.DefaultConfig(), log)
	}
	return explain.NewService(provider, st.Explanations(), explain.DefaultConfig(), log)
}
