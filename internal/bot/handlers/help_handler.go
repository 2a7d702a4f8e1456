package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewHelpHandler sends the usage guide.
func NewHelpHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		message := update.Message
		log := deps.Logger.With("handler", "help", "chat_id", message.Chat.ID)

		if _, err := sendReply(ctx, b, message.Chat.ID, 0, deps.Config.Messages.Help); err != nil {
			log.ErrorContext(ctx, "Failed to send help message", "error", err)
		}
	}
}
