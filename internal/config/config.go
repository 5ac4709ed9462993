// Package config resolves runtime settings from the environment, an optional
// .env file, and XDG base directories.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/abhisek/ripasso/internal/llm"
)

const appName = "ripasso"

// Config holds all application configuration.
type Config struct {
	// DBPath is the SQLite file holding imported banks and cached explanations.
	DBPath string

	// BanksDir is searched for <name>.json bank files before the store.
	BanksDir string

	// ModesFile is a YAML mode registry. Empty means built-in modes.
	ModesFile string

	LogLevel  string
	LogFormat string

	// LogFile receives the logs of interactive runs.
	LogFile string

	// LLM is the explanation provider configuration; LLMEnabled is false when
	// no provider is configured.
	LLM        llm.Config
	LLMEnabled bool
}

// Load reads configuration from environment variables with defaults. A .env
// file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir, err := dataDir()
	if err != nil {
		return nil, err
	}
	stateDir, err := stateDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:    getEnv("RIPASSO_DB", filepath.Join(dataDir, appName+".db")),
		BanksDir:  getEnv("RIPASSO_BANKS_DIR", filepath.Join(dataDir, "banks")),
		ModesFile: os.Getenv("RIPASSO_MODES"),
		LogLevel:  getEnv("RIPASSO_LOG_LEVEL", "info"),
		LogFormat: getEnv("RIPASSO_LOG_FORMAT", "json"),
		LogFile:   getEnv("RIPASSO_LOG_FILE", filepath.Join(stateDir, appName+".log")),
	}

	if cfg.ModesFile == "" {
		if p, ok := defaultModesFile(); ok {
			cfg.ModesFile = p
		}
	}

	cfg.LLM, cfg.LLMEnabled = resolveLLM()
	return cfg, nil
}

// resolveLLM prefers explicit RIPASSO_* settings and falls back to the
// provider's standard API key variables.
func resolveLLM() (llm.Config, bool) {
	cfg := llm.ConfigFromEnv()
	if os.Getenv("RIPASSO_LLM_PROVIDER") != "" {
		return cfg, cfg.Validate() == nil
	}
	if cfg.Validate() == nil {
		return cfg, true
	}
	if d, ok := llm.DiscoverConfig(); ok {
		return d, true
	}
	return cfg, false
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func defaultModesFile() (string, bool) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		base = filepath.Join(home, ".config")
	}
	p := filepath.Join(base, appName, "modes.yaml")
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

// dataDir resolves $XDG_DATA_HOME/ripasso, then ~/.local/share/ripasso.
func dataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// stateDir resolves $XDG_STATE_HOME/ripasso, then ~/.local/state/ripasso.
func stateDir() (string, error) {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if home == "" {
			return "", errors.New("resolve home dir: empty")
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(base, appName), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
