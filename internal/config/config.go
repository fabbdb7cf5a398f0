// Package config loads the backend service configuration from defaults,
// environment variables and flags.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Defaults for the serve command.
const (
	DefaultListenAddr    = "127.0.0.1:8000"
	DefaultProfilePath   = "profile.json"
	DefaultDBPath        = "jobcopilot.db"
	DefaultSignedURLBase = "https://s3.local.example/resumes"
	DefaultModel         = "claude-sonnet-4-20250514"
)

// Config holds the backend service settings.
type Config struct {
	// ListenAddr is the host:port the HTTP server binds to.
	ListenAddr string
	// ProfilePath is the JSON file the profile document persists to.
	ProfilePath string
	// DBPath is the SQLite database for audit events and job tracking.
	DBPath string
	// SignedURLBase prefixes the stubbed resume signed URLs.
	SignedURLBase string
	// AnthropicAPIKey enables LLM-backed field answering when set;
	// otherwise the deterministic profile answerer serves requests.
	AnthropicAPIKey string
	// AnthropicModel is the model used for LLM answering.
	AnthropicModel string
}

// Load reads configuration with JOBCOPILOT_* environment variables
// overriding defaults, then validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JOBCOPILOT")
	v.AutomaticEnv()

	v.SetDefault("listen", DefaultListenAddr)
	v.SetDefault("profile", DefaultProfilePath)
	v.SetDefault("db", DefaultDBPath)
	v.SetDefault("signed_url_base", DefaultSignedURLBase)
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("anthropic_model", DefaultModel)

	cfg := &Config{
		ListenAddr:      v.GetString("listen"),
		ProfilePath:     v.GetString("profile"),
		DBPath:          v.GetString("db"),
		SignedURLBase:   v.GetString("signed_url_base"),
		AnthropicAPIKey: v.GetString("anthropic_api_key"),
		AnthropicModel:  v.GetString("anthropic_model"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen address must not be empty")
	}
	if c.ProfilePath == "" {
		return errors.New("profile path must not be empty")
	}
	if c.DBPath == "" {
		return errors.New("db path must not be empty")
	}
	return nil
}
