// Package tasks defines the scheduled background jobs run by the bot.
package tasks

import (
	"context"
	"log/slog"

	"github.com/akademiksaham/sahambot/internal/config"
	"github.com/akademiksaham/sahambot/internal/database"
	"github.com/akademiksaham/sahambot/internal/market"
)

// ScheduledTaskFunc is the signature every scheduled task implements.
type ScheduledTaskFunc func(ctx context.Context) error

// TaskDeps provides dependencies for scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
	Market *market.Service
}
