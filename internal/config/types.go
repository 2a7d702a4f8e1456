// Package config manages application configuration from default values,
// an optional config.yaml file, and BOT_* environment variables.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Config defines the application configuration for all components of the
// bot: logging, Telegram transport, Gemini AI integration, market data,
// database, HTTP API, and scheduled tasks.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Market    MarketConfig    `mapstructure:"market"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the Telegram bot credentials and polling options.
type TelegramConfig struct {
	Token              string `mapstructure:"token" validate:"required"`
	BotName            string `mapstructure:"bot_name"`
	DropPendingUpdates bool   `mapstructure:"drop_pending_updates"`

	// BotInfo is populated at startup from GetMe and is not read from
	// configuration sources.
	BotInfo *models.User `mapstructure:"-"`
}

// GeminiConfig holds the Gemini AI client settings.
type GeminiConfig struct {
	APIKey            string  `mapstructure:"api_key" validate:"required"`
	ModelName         string  `mapstructure:"model_name" validate:"required"`
	Temperature       float32 `mapstructure:"temperature" validate:"min=0,max=2"`
	MaxOutputTokens   int32   `mapstructure:"max_output_tokens" validate:"min=1"`
	SystemInstruction string  `mapstructure:"system_instruction" validate:"required"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"min=0,max=10"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"min=1"`
	MaxHistory        int     `mapstructure:"max_history" validate:"min=0,max=200"`
}

// MarketConfig holds the market data provider settings.
type MarketConfig struct {
	BaseURL        string        `mapstructure:"base_url" validate:"required,url"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"min=1s,max=2m"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl" validate:"min=10s,max=24h"`
	ExchangeSuffix string        `mapstructure:"exchange_suffix" validate:"required"`
	IndexSymbol    string        `mapstructure:"index_symbol" validate:"required"`
	IndexName      string        `mapstructure:"index_name"`
	MaxRetries     int           `mapstructure:"max_retries" validate:"min=0,max=5"`

	// PopularSymbols maps ticker symbols to display names, shown in the
	// popular stocks menu and refreshed by the quote_refresh task.
	PopularSymbols map[string]string `mapstructure:"popular_symbols"`
}

// DatabaseConfig holds the SQLite storage settings.
type DatabaseConfig struct {
	Path             string `mapstructure:"path" validate:"required"`
	MessageRetention int    `mapstructure:"message_retention_days" validate:"min=1"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port" validate:"min=1,max=65535"`
}

// TaskConfig enables a single scheduled task with a cron expression.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// MessagesConfig holds the user-facing bot message templates.
type MessagesConfig struct {
	Welcome       string `mapstructure:"welcome"`
	Help          string `mapstructure:"help"`
	AskUsage      string `mapstructure:"ask_usage"`
	StockUsage    string `mapstructure:"stock_usage"`
	StockLoading  string `mapstructure:"stock_loading"`
	StockNotFound string `mapstructure:"stock_not_found"`
	WatchUsage    string `mapstructure:"watch_usage"`
	WatchAdded    string `mapstructure:"watch_added"`
	WatchRemoved  string `mapstructure:"watch_removed"`
	WatchEmpty    string `mapstructure:"watch_empty"`
	AIDisclaimer  string `mapstructure:"ai_disclaimer"`
	AIUnavailable string `mapstructure:"ai_unavailable"`
	GeneralError  string `mapstructure:"general_error"`
	TextHint      string `mapstructure:"text_hint"`
}
