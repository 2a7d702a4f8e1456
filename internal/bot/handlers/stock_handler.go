package handlers

import (
	"context"
	"errors"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/akademiksaham/sahambot/internal/market"
)

// NewStockHandler looks up a stock quote for /stock KODE. It sends a
// loading placeholder first and edits it in place with the result.
func NewStockHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		message := update.Message
		log := deps.Logger.With("handler", "stock", "chat_id", message.Chat.ID)

		code := commandArgument(message.Text)
		if code == "" {
			if _, err := sendReply(ctx, b, message.Chat.ID, 0, deps.Config.Messages.StockUsage); err != nil {
				log.ErrorContext(ctx, "Failed to send stock usage message", "error", err)
			}
			return
		}

		replyWithQuote(ctx, b, deps, message.Chat.ID, code)
	}
}

// replyWithQuote sends the loading placeholder, fetches the quote, and
// edits the placeholder with the quote card or an error. Shared by the
// /stock command and the free-text ticker shortcut.
func replyWithQuote(ctx context.Context, b *tgbot.Bot, deps HandlerDeps, chatID int64, code string) {
	log := deps.Logger.With("chat_id", chatID, "code", code)

	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	loading, err := b.SendMessage(sendCtx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   deps.Config.Messages.StockLoading,
	})
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "Failed to send loading message", "error", err)
		return
	}

	text := quoteText(ctx, deps, code)

	editCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()
	_, err = b.EditMessageText(editCtx, &tgbot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: loading.ID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to edit loading message with quote", "error", err)
	}
}

// quoteText resolves a stock code to its rendered quote card, or the
// appropriate error message.
func quoteText(ctx context.Context, deps HandlerDeps, code string) string {
	quote, err := deps.Market.Quote(ctx, code)
	switch {
	case errors.Is(err, market.ErrSymbolNotFound):
		display := deps.Market.DisplayCode(deps.Market.Normalize(code))
		return fmt.Sprintf(deps.Config.Messages.StockNotFound, display)
	case err != nil:
		deps.Logger.ErrorContext(ctx, "Quote lookup failed", "code", code, "error", err)
		return deps.Config.Messages.GeneralError
	default:
		return formatQuoteCard(deps, quote)
	}
}
