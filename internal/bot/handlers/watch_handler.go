package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewWatchHandler adds a stock to the user's watchlist.
func NewWatchHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		message := update.Message
		log := deps.Logger.With("handler", "watch", "chat_id", message.Chat.ID)

		code := commandArgument(message.Text)
		if code == "" {
			if _, err := sendReply(ctx, b, message.Chat.ID, 0, deps.Config.Messages.WatchUsage); err != nil {
				log.ErrorContext(ctx, "Failed to send watch usage message", "error", err)
			}
			return
		}

		symbol := deps.Market.Normalize(code)
		display := deps.Market.DisplayCode(symbol)

		// Reject codes the provider does not know before persisting them.
		if _, err := deps.Market.Quote(ctx, code); err != nil {
			text := fmt.Sprintf(deps.Config.Messages.StockNotFound, display)
			if _, sendErr := sendReply(ctx, b, message.Chat.ID, 0, text); sendErr != nil {
				log.ErrorContext(ctx, "Failed to send watch rejection", "error", sendErr)
			}
			return
		}

		dbCtx, cancel := context.WithTimeout(ctx, dbSaveTimeout)
		added, err := deps.Store.AddToWatchlist(dbCtx, message.From.ID, symbol)
		cancel()
		if err != nil {
			log.ErrorContext(ctx, "Failed to add watchlist entry", "symbol", symbol, "error", err)
			_, _ = sendReply(ctx, b, message.Chat.ID, 0, deps.Config.Messages.GeneralError)
			return
		}

		text := fmt.Sprintf(deps.Config.Messages.WatchAdded, display)
		if !added {
			text = fmt.Sprintf("ℹ️ *%s* sudah ada di watchlist Anda", display)
		}
		if _, err := sendReply(ctx, b, message.Chat.ID, 0, text); err != nil {
			log.ErrorContext(ctx, "Failed to send watch confirmation", "error", err)
		}
	}
}

// NewUnwatchHandler removes a stock from the user's watchlist.
func NewUnwatchHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		message := update.Message
		log := deps.Logger.With("handler", "unwatch", "chat_id", message.Chat.ID)

		code := commandArgument(message.Text)
		if code == "" {
			if _, err := sendReply(ctx, b, message.Chat.ID, 0, deps.Config.Messages.WatchUsage); err != nil {
				log.ErrorContext(ctx, "Failed to send watch usage message", "error", err)
			}
			return
		}

		symbol := deps.Market.Normalize(code)
		display := deps.Market.DisplayCode(symbol)

		dbCtx, cancel := context.WithTimeout(ctx, dbSaveTimeout)
		removed, err := deps.Store.RemoveFromWatchlist(dbCtx, message.From.ID, symbol)
		cancel()
		if err != nil {
			log.ErrorContext(ctx, "Failed to remove watchlist entry", "symbol", symbol, "error", err)
			_, _ = sendReply(ctx, b, message.Chat.ID, 0, deps.Config.Messages.GeneralError)
			return
		}

		text := fmt.Sprintf(deps.Config.Messages.WatchRemoved, display)
		if !removed {
			text = fmt.Sprintf("ℹ️ *%s* tidak ada di watchlist Anda", display)
		}
		if _, err := sendReply(ctx, b, message.Chat.ID, 0, text); err != nil {
			log.ErrorContext(ctx, "Failed to send unwatch confirmation", "error", err)
		}
	}
}

// NewWatchlistHandler shows the user's watchlist with current quotes.
func NewWatchlistHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		message := update.Message
		log := deps.Logger.With("handler", "watchlist", "chat_id", message.Chat.ID)

		dbCtx, cancel := context.WithTimeout(ctx, dbSaveTimeout)
		entries, err := deps.Store.GetWatchlist(dbCtx, message.From.ID)
		cancel()
		if err != nil {
			log.ErrorContext(ctx, "Failed to load watchlist", "error", err)
			_, _ = sendReply(ctx, b, message.Chat.ID, 0, deps.Config.Messages.GeneralError)
			return
		}

		if len(entries) == 0 {
			if _, err := sendReply(ctx, b, message.Chat.ID, 0, deps.Config.Messages.WatchEmpty); err != nil {
				log.ErrorContext(ctx, "Failed to send empty watchlist message", "error", err)
			}
			return
		}

		sendTyping(ctx, b, message.Chat.ID)

		var sb strings.Builder
		sb.WriteString("👁 *Watchlist Anda:*\n\n")
		for _, entry := range entries {
			display := deps.Market.DisplayCode(entry.Symbol)
			quote, err := deps.Market.Quote(ctx, entry.Symbol)
			if err != nil {
				fmt.Fprintf(&sb, "• *%s* - data tidak tersedia\n", display)
				continue
			}
			emoji := "🟢"
			if quote.Change < 0 {
				emoji = "🔴"
			}
			fmt.Fprintf(&sb, "%s *%s*: Rp %s (%+.2f%%)\n",
				emoji, display, formatThousands(int64(quote.Price)), quote.ChangePct)
		}
		sb.WriteString("\n💡 Ketik /stock KODE untuk detail")

		if _, err := sendReply(ctx, b, message.Chat.ID, 0, sb.String()); err != nil {
			log.ErrorContext(ctx, "Failed to send watchlist", "error", err)
		}
	}
}
