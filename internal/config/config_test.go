package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("NORTHSTAR_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "heuristic", cfg.Planner.Provider)
	require.Equal(t, "£", cfg.UI.CurrencySymbol)

	// the settings flow mutates and persists
	cfg.UI.CurrencySymbol = "$"
	cfg.UI.Username = "Alex"
	cfg.Planner.Provider = "openai"
	require.NoError(t, Save(cfg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "openai")

	reloaded, err := Load()
	require.NoError(t, err)
	require.Equal(t, "$", reloaded.UI.CurrencySymbol)
	require.Equal(t, "Alex", reloaded.UI.Username)
	require.Equal(t, "openai", reloaded.Planner.Provider)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("NORTHSTAR_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "heuristic", cfg.Planner.Provider)
	require.Equal(t, "OPENAI_API_KEY", cfg.Planner.APIKeyEnv)
	require.Equal(t, "gpt-4o-mini", cfg.Planner.Model)
	require.NotEmpty(t, cfg.Database.Path)
	require.Equal(t, "Wanderer", cfg.UI.Username)
}
