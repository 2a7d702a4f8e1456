package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewAskHandler answers /ask questions through the AI assistant. A bare
// /ask without a question gets the usage explainer instead.
func NewAskHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		message := update.Message
		log := deps.Logger.With("handler", "ask", "chat_id", message.Chat.ID)

		question := commandArgument(message.Text)
		if question == "" {
			if _, err := sendReply(ctx, b, message.Chat.ID, 0, deps.Config.Messages.AskUsage); err != nil {
				log.ErrorContext(ctx, "Failed to send ask usage message", "error", err)
			}
			return
		}

		log.DebugContext(ctx, "Processing AI question", "question_length", len(question))
		answerWithAI(ctx, b, deps, message, question)
	}
}
