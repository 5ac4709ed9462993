package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"RIPASSO_DB", "RIPASSO_BANKS_DIR", "RIPASSO_MODES", "RIPASSO_LOG_LEVEL",
		"RIPASSO_LOG_FORMAT", "RIPASSO_LOG_FILE", "RIPASSO_LLM_PROVIDER",
		"RIPASSO_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY",
		"GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	// Keep godotenv from picking up a stray .env.
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "data", "ripasso", "ripasso.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(root, "data", "ripasso", "banks"), cfg.BanksDir)
	assert.Equal(t, filepath.Join(root, "state", "ripasso", "ripasso.log"), cfg.LogFile)
	assert.Empty(t, cfg.ModesFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.LLMEnabled)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RIPASSO_DB", "/tmp/quiz.db")
	t.Setenv("RIPASSO_LOG_LEVEL", "debug")
	t.Setenv("RIPASSO_MODES", "/etc/ripasso/modes.yaml")
	t.Setenv("RIPASSO_LLM_PROVIDER", "mock")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/quiz.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/etc/ripasso/modes.yaml", cfg.ModesFile)
	assert.True(t, cfg.LLMEnabled)
	assert.Equal(t, "mock", cfg.LLM.Provider)
}

func TestLoadFindsModesFile(t *testing.T) {
	clearEnv(t)
	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	path := filepath.Join(cfgHome, "ripasso", "modes.yaml")
	require.NoError(t, EnsureDir(path))
	require.NoError(t, os.WriteFile(path, []byte("modes: []\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ModesFile)
}

func TestLoadDiscoversProviderKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.LLMEnabled)
	assert.Equal(t, "openai", cfg.LLM.Provider)
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, even empty.
	os.Unsetenv("RIPASSO_LOG_FORMAT")
	require.NoError(t, os.WriteFile(".env", []byte("RIPASSO_LOG_FORMAT=pretty\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("RIPASSO_LOG_FORMAT") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "pretty", cfg.LogFormat)
}
