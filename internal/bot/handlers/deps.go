package handlers

import (
	"log/slog"

	"github.com/akademiksaham/sahambot/internal/config"
	"github.com/akademiksaham/sahambot/internal/database"
	"github.com/akademiksaham/sahambot/internal/gemini"
	"github.com/akademiksaham/sahambot/internal/market"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Store        database.Store
	Market       *market.Service
	GeminiClient gemini.Client
}
