package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// maxPopularInMenu bounds how many popular stocks the menu fetches live.
const maxPopularInMenu = 6

// NewCallbackHandler routes the main menu inline keyboard callbacks.
func NewCallbackHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.CallbackQuery == nil {
			return
		}
		query := update.CallbackQuery
		log := deps.Logger.With("handler", "callback", "data", query.Data)

		// Acknowledge immediately so the client stops the spinner.
		_, _ = b.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
			CallbackQueryID: query.ID,
		})

		message := query.Message.Message
		if message == nil {
			log.WarnContext(ctx, "Callback query without accessible message")
			return
		}

		var (
			text     string
			keyboard *models.InlineKeyboardMarkup
		)

		switch query.Data {
		case "popular":
			sendTyping(ctx, b, message.Chat.ID)
			text = popularStocksText(ctx, deps)
			keyboard = backToMenuKeyboard()
		case "ihsg":
			sendTyping(ctx, b, message.Chat.ID)
			text = indexText(ctx, deps)
			keyboard = backToMenuKeyboard()
		case "ai_help":
			text = deps.Config.Messages.AskUsage
			keyboard = backToMenuKeyboard()
		case "help":
			text = deps.Config.Messages.Help
			keyboard = backToMenuKeyboard()
		case "back":
			text = "📱 *Menu Utama*\n\nPilih salah satu opsi di bawah:"
			keyboard = mainMenuKeyboard()
		default:
			log.WarnContext(ctx, "Unknown callback data")
			return
		}

		editCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
		defer cancel()
		_, err := b.EditMessageText(editCtx, &tgbot.EditMessageTextParams{
			ChatID:      message.Chat.ID,
			MessageID:   message.ID,
			Text:        text,
			ParseMode:   models.ParseModeMarkdown,
			ReplyMarkup: keyboard,
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to edit menu message", "error", err)
		}
	}
}

// popularStocksText renders a summary of the top popular stocks.
func popularStocksText(ctx context.Context, deps HandlerDeps) string {
	popular := deps.Market.PopularSymbols()
	if len(popular) > maxPopularInMenu {
		popular = popular[:maxPopularInMenu]
	}

	var sb strings.Builder
	sb.WriteString("📈 *SAHAM POPULER*\n\n")

	shown := 0
	for _, stock := range popular {
		quote, err := deps.Market.Quote(ctx, stock.Symbol)
		if err != nil {
			deps.Logger.WarnContext(ctx, "Failed to fetch popular quote for menu", "symbol", stock.Symbol, "error", err)
			continue
		}
		emoji := "🟢"
		if quote.Change < 0 {
			emoji = "🔴"
		}
		fmt.Fprintf(&sb, "%s *%s*: Rp %s (%+.2f%%)\n",
			emoji, deps.Market.DisplayCode(stock.Symbol),
			formatThousands(int64(quote.Price)), quote.ChangePct)
		shown++
	}

	if shown == 0 {
		return deps.Config.Messages.GeneralError
	}

	sb.WriteString("\n💡 Ketik /stock KODE untuk detail")
	return sb.String()
}

// indexText renders the composite index card.
func indexText(ctx context.Context, deps HandlerDeps) string {
	quote, err := deps.Market.Index(ctx)
	if err != nil {
		deps.Logger.WarnContext(ctx, "Failed to fetch index quote for menu", "error", err)
		return deps.Config.Messages.GeneralError
	}
	return formatIndexCard(deps, quote)
}
