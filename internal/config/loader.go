package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// LoadConfig loads and validates configuration from three layers, each
// overriding the previous one:
//  1. Default values
//  2. The YAML file at configPath (optional)
//  3. BOT_* environment variables (e.g. BOT_TELEGRAM_TOKEN, BOT_GEMINI_API_KEY)
func LoadConfig(configPath string) (*Config, error) {
	setDefaults()

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("BOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine, everything can come from defaults
	// and environment variables.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for correctness. The two required
// credentials are checked first, in order, and the first missing one
// short-circuits so the diagnostic names exactly one variable along with
// where to set it. Remaining fields are validated via struct tags.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return fmt.Errorf("telegram bot token is missing: set telegram.token in config.yaml or the BOT_TELEGRAM_TOKEN environment variable (token from @BotFather)")
	}
	if strings.TrimSpace(c.Gemini.APIKey) == "" {
		return fmt.Errorf("gemini API key is missing: set gemini.api_key in config.yaml or the BOT_GEMINI_API_KEY environment variable")
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return nil
}
