package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/akademiksaham/sahambot/internal/config"
)

// validConfig returns a configuration that passes all validation rules.
func validConfig() *config.Config {
	return &config.Config{
		Logger: config.LoggerConfig{Level: "info"},
		Telegram: config.TelegramConfig{
			Token:   "123456:ABC-DEF1234ghIkl",
			BotName: "AkademikSaham_AIbot",
		},
		Gemini: config.GeminiConfig{
			APIKey:            "test-api-key",
			ModelName:         "gemini-2.0-flash",
			Temperature:       0.7,
			MaxOutputTokens:   500,
			SystemInstruction: "Anda adalah asisten saham.",
			MaxRetries:        2,
			RetryDelaySeconds: 2,
			MaxHistory:        20,
		},
		Market: config.MarketConfig{
			BaseURL:        "https://query1.finance.yahoo.com",
			Timeout:        30 * time.Second,
			CacheTTL:       5 * time.Minute,
			ExchangeSuffix: ".JK",
			IndexSymbol:    "^JKSE",
			IndexName:      "Indeks Harga Saham Gabungan",
			MaxRetries:     2,
			PopularSymbols: map[string]string{"BBCA.JK": "Bank Central Asia"},
		},
		Database: config.DatabaseConfig{
			Path:             "storage.db",
			MessageRetention: 30,
		},
		Server: config.ServerConfig{
			Enabled: true,
			Port:    8080,
		},
		Scheduler: config.SchedulerConfig{
			Tasks: map[string]config.TaskConfig{
				"quote_refresh": {Enabled: true, Schedule: "*/10 9-16 * * 1-5"},
			},
		},
	}
}

func TestValidate_CredentialChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		mutate      func(*config.Config)
		wantErr     bool
		wantMention string
	}{
		{
			name:   "both credentials present",
			mutate: func(c *config.Config) {},
		},
		{
			name:        "missing telegram token",
			mutate:      func(c *config.Config) { c.Telegram.Token = "" },
			wantErr:     true,
			wantMention: "BOT_TELEGRAM_TOKEN",
		},
		{
			name:        "whitespace telegram token",
			mutate:      func(c *config.Config) { c.Telegram.Token = "   " },
			wantErr:     true,
			wantMention: "BOT_TELEGRAM_TOKEN",
		},
		{
			name:        "missing gemini key with token set",
			mutate:      func(c *config.Config) { c.Gemini.APIKey = "" },
			wantErr:     true,
			wantMention: "BOT_GEMINI_API_KEY",
		},
		{
			name: "both missing reports telegram first",
			mutate: func(c *config.Config) {
				c.Telegram.Token = ""
				c.Gemini.APIKey = ""
			},
			wantErr:     true,
			wantMention: "BOT_TELEGRAM_TOKEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Validate() returned unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMention) {
				t.Errorf("Validate() error %q does not mention %q", err.Error(), tt.wantMention)
			}
		})
	}
}

func TestValidate_CredentialCheckRunsBeforeStructValidation(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Telegram.Token = ""
	cfg.Logger.Level = "bogus"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "BOT_TELEGRAM_TOKEN") {
		t.Errorf("Validate() error %q should name the missing token, not the invalid log level", err.Error())
	}
}

func TestValidate_StructTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "invalid log level", mutate: func(c *config.Config) { c.Logger.Level = "verbose" }},
		{name: "invalid base url", mutate: func(c *config.Config) { c.Market.BaseURL = "not a url" }},
		{name: "zero output tokens", mutate: func(c *config.Config) { c.Gemini.MaxOutputTokens = 0 }},
		{name: "port out of range", mutate: func(c *config.Config) { c.Server.Port = 70000 }},
		{name: "zero retention", mutate: func(c *config.Config) { c.Database.MessageRetention = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error, got nil")
			}
		})
	}
}

func TestLoadConfig_EnvironmentCredentials(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "123456:ABC-DEF1234ghIkl")
	t.Setenv("BOT_GEMINI_API_KEY", "test-api-key")

	cfg, err := config.LoadConfig("nonexistent-config.yaml")
	if err != nil {
		t.Fatalf("LoadConfig() returned unexpected error: %v", err)
	}

	if cfg.Telegram.Token != "123456:ABC-DEF1234ghIkl" {
		t.Errorf("Telegram.Token = %q, want value from environment", cfg.Telegram.Token)
	}
	if cfg.Gemini.APIKey != "test-api-key" {
		t.Errorf("Gemini.APIKey = %q, want value from environment", cfg.Gemini.APIKey)
	}
	if cfg.Market.ExchangeSuffix != ".JK" {
		t.Errorf("Market.ExchangeSuffix = %q, want default %q", cfg.Market.ExchangeSuffix, ".JK")
	}
	if len(cfg.Market.PopularSymbols) == 0 {
		t.Error("Market.PopularSymbols should have defaults")
	}
}
