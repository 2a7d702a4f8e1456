package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/akademiksaham/sahambot/internal/database"
)

const (
	aiProcessingTimeout = 2 * time.Minute
	sendMessageTimeout  = 10 * time.Second
	dbSaveTimeout       = 5 * time.Second

	maxSaveRetries = 3
	saveRetryDelay = 500 * time.Millisecond
)

// wibZone is the Jakarta trading timezone used for quote timestamps.
var wibZone = time.FixedZone("WIB", 7*60*60)

// sendTyping emits a typing chat action, ignoring failures since the
// indicator is cosmetic.
func sendTyping(ctx context.Context, b *tgbot.Bot, chatID int64) {
	_, _ = b.SendChatAction(ctx, &tgbot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionTyping,
	})
}

// sendReply sends a Markdown message replying to the given message ID with
// a bounded timeout.
func sendReply(ctx context.Context, b *tgbot.Bot, chatID int64, replyToID int, text string) (*models.Message, error) {
	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	params := &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	}
	if replyToID != 0 {
		params.ReplyParameters = &models.ReplyParameters{MessageID: replyToID}
	}
	return b.SendMessage(sendCtx, params)
}

// saveMessageWithRetry persists a conversation message, retrying transient
// database errors with a linear backoff.
func saveMessageWithRetry(ctx context.Context, deps HandlerDeps, message *database.Message) error {
	var lastErr error
	for i := 0; i < maxSaveRetries; i++ {
		saveCtx, cancel := context.WithTimeout(ctx, dbSaveTimeout)
		err := deps.Store.SaveMessage(saveCtx, message)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		deps.Logger.WarnContext(ctx, "Failed to save message, retrying",
			"attempt", i+1, "max_attempts", maxSaveRetries, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(saveRetryDelay * time.Duration(i+1)):
		}
	}
	return fmt.Errorf("failed to save message after %d attempts: %w", maxSaveRetries, lastErr)
}

// answerWithAI runs the full AI reply pipeline: load recent history, query
// Gemini, append the disclaimer, send the reply, and persist both sides of
// the exchange.
func answerWithAI(ctx context.Context, b *tgbot.Bot, deps HandlerDeps, message *models.Message, question string) {
	chatID := message.Chat.ID
	log := deps.Logger.With("chat_id", chatID)

	sendTyping(ctx, b, chatID)

	aiCtx, cancel := context.WithTimeout(ctx, aiProcessingTimeout)
	defer cancel()

	var botID int64
	if deps.Config.Telegram.BotInfo != nil {
		botID = deps.Config.Telegram.BotInfo.ID
	}

	history, err := deps.Store.GetRecentMessages(aiCtx, chatID, deps.Config.Gemini.MaxHistory)
	if err != nil {
		log.WarnContext(ctx, "Failed to load conversation history, answering without it", "error", err)
		history = nil
	}

	answer, err := deps.GeminiClient.GenerateAnswer(aiCtx, question, history, botID)
	if err != nil {
		log.ErrorContext(ctx, "AI answer generation failed", "error", err)
		_, _ = sendReply(ctx, b, chatID, message.ID, deps.Config.Messages.AIUnavailable)
		return
	}

	reply := answer
	if deps.Config.Messages.AIDisclaimer != "" && !strings.Contains(answer, deps.Config.Messages.AIDisclaimer) {
		reply = answer + "\n\n" + deps.Config.Messages.AIDisclaimer
	}

	sent, err := sendReply(ctx, b, chatID, message.ID, reply)
	if err != nil {
		log.ErrorContext(ctx, "Failed to send AI reply", "error", err)
		return
	}

	now := time.Now().UTC()
	var userID int64
	if message.From != nil {
		userID = message.From.ID
	}
	if err := saveMessageWithRetry(ctx, deps, &database.Message{
		ChatID:    chatID,
		UserID:    userID,
		Content:   question,
		Timestamp: now,
	}); err != nil {
		log.ErrorContext(ctx, "Failed to save user question", "error", err)
	}
	if err := saveMessageWithRetry(ctx, deps, &database.Message{
		ChatID:    chatID,
		UserID:    botID,
		Content:   answer,
		Timestamp: now,
	}); err != nil {
		log.ErrorContext(ctx, "Failed to save AI answer", "error", err)
	}

	if sent != nil {
		log.DebugContext(ctx, "AI reply delivered", "message_id", sent.ID)
	}
}

// formatQuoteCard renders a stock quote as a Markdown card.
func formatQuoteCard(deps HandlerDeps, quote *database.Quote) string {
	code := deps.Market.DisplayCode(quote.Symbol)

	emoji := "🟢"
	if quote.Change < 0 {
		emoji = "🔴"
	}

	updated := quote.FetchedAt.In(wibZone).Format("15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 *%s* (%s)\n\n", quote.Name, code)
	fmt.Fprintf(&sb, "%s *Harga*: Rp %s\n", emoji, formatThousands(int64(quote.Price)))
	fmt.Fprintf(&sb, "📈 *Perubahan*: %+.2f%%\n", quote.ChangePct)
	fmt.Fprintf(&sb, "📊 *Volume*: %s\n\n", formatThousands(quote.Volume))
	fmt.Fprintf(&sb, "🕐 *Update*: %s WIB\n\n", updated)
	fmt.Fprintf(&sb, "💡 Ketik /stock %s untuk update data", code)
	return sb.String()
}

// formatIndexCard renders the composite index quote. Index points keep two
// decimals, unlike rupiah prices.
func formatIndexCard(deps HandlerDeps, quote *database.Quote) string {
	emoji := "🟢"
	if quote.Change < 0 {
		emoji = "🔴"
	}

	updated := quote.FetchedAt.In(wibZone).Format("15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 *%s*\n\n", quote.Name)
	fmt.Fprintf(&sb, "%s *Nilai*: %.2f\n", emoji, quote.Price)
	fmt.Fprintf(&sb, "📈 *Perubahan*: %+.2f%%\n\n", quote.ChangePct)
	fmt.Fprintf(&sb, "🕐 *Update*: %s WIB", updated)
	return sb.String()
}

// formatThousands renders an integer with dot thousand separators, the
// Indonesian convention.
func formatThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out
}

// mainMenuKeyboard builds the inline keyboard shown by /start and the
// back-to-menu callback.
func mainMenuKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "📈 Saham Populer", CallbackData: "popular"},
				{Text: "📊 Kondisi IHSG", CallbackData: "ihsg"},
			},
			{
				{Text: "🤖 Tanya AI", CallbackData: "ai_help"},
				{Text: "❓ Bantuan", CallbackData: "help"},
			},
		},
	}
}

// backToMenuKeyboard builds the single-button keyboard returning to the
// main menu from a submenu.
func backToMenuKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "🏠 Menu Utama", CallbackData: "back"}},
		},
	}
}

// commandArgument extracts the argument portion of a command message, e.g.
// "BBCA" from "/stock BBCA" or "/stock@SomeBot BBCA".
func commandArgument(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return strings.TrimSpace(strings.Join(fields[1:], " "))
}
