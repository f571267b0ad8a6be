package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from a .env file (if present), environment
// variables, and defaults. Environment variables use the STORYBRIDGE_
// prefix with underscores for nesting, e.g. STORYBRIDGE_SERVER_PORT.
// Returns a populated Config or an error if loading/validation fails.
func Load() (*Config, error) {
	// Missing .env is fine; env vars and defaults still apply.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", 60*24*30)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("content.min_repetitions", 3)
	v.SetDefault("badges.word_wizard_words", 10)
	v.SetDefault("badges.quiz_master_answers", 5)
	v.SetDefault("analytics.window_days", 7)
	v.SetDefault("analytics.snapshot_interval_minutes", 60)

	v.SetEnvPrefix("STORYBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind explicitly: AutomaticEnv alone does not surface env-only keys
	// through Unmarshal.
	for _, key := range []string{
		"server.port", "server.log_level",
		"database.url",
		"auth.jwt_secret", "auth.token_lifetime_minutes", "auth.bcrypt_cost",
		"auth.admin_email", "auth.admin_password",
		"content.min_repetitions",
		"badges.word_wizard_words", "badges.quiz_master_answers",
		"analytics.window_days", "analytics.snapshot_interval_minutes",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
