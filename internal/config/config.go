package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jask/northstar/internal/secrets"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Planner  PlannerConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// PlannerConfig selects and configures the planning provider.
type PlannerConfig struct {
	Provider  string `mapstructure:"provider"` // "openai" or "heuristic"
	APIKeyEnv string `mapstructure:"api_key_env"`
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
	Username       string `mapstructure:"username"`
}

// Load reads configuration from file and env. Env var overrides use prefix NORTHSTAR_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "northstar", "northstar.db"))
	v.SetDefault("planner.provider", "heuristic")
	v.SetDefault("planner.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("planner.api_key", "")
	v.SetDefault("planner.model", "gpt-4o-mini")
	v.SetDefault("ui.currency_symbol", "£")
	v.SetDefault("ui.username", "Wanderer")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("NORTHSTAR_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "northstar"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("NORTHSTAR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed. The API key lands in plain text; prefer the env var.
func Save(cfg Config) error {
	path := os.Getenv("NORTHSTAR_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "northstar", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("planner.provider", cfg.Planner.Provider)
	v.Set("planner.api_key_env", cfg.Planner.APIKeyEnv)
	v.Set("planner.api_key", cfg.Planner.APIKey)
	v.Set("planner.model", cfg.Planner.Model)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.username", cfg.UI.Username)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ResolveAPIKey looks for the planner key in order: the configured env var,
// the per-user secret store, then the config-file key as a last resort.
func ResolveAPIKey(cfg Config) string {
	env := strings.TrimSpace(cfg.Planner.APIKeyEnv)
	if env == "" {
		env = "OPENAI_API_KEY"
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	if k, err := secrets.Get(cfg.Planner.Provider); err == nil {
		return k
	}
	return strings.TrimSpace(cfg.Planner.APIKey)
}
