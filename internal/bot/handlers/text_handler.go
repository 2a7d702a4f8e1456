package handlers

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// questionWords are Indonesian interrogatives that mark free text as an AI
// question.
var questionWords = []string{"apa", "bagaimana", "mengapa", "kenapa", "kapan", "dimana", "siapa"}

// NewTextHandler routes free text: questions go to the AI assistant, short
// alphabetic tokens are treated as stock codes, everything else gets a
// usage hint.
func NewTextHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.Text == "" {
			return
		}
		message := update.Message
		if strings.HasPrefix(message.Text, "/") {
			return
		}
		log := deps.Logger.With("handler", "text", "chat_id", message.Chat.ID)

		text := strings.TrimSpace(message.Text)

		switch {
		case looksLikeQuestion(text):
			log.DebugContext(ctx, "Routing free text to AI")
			answerWithAI(ctx, b, deps, message, text)
		case looksLikeStockCode(text):
			log.DebugContext(ctx, "Routing free text to stock lookup")
			replyWithQuote(ctx, b, deps, message.Chat.ID, text)
		default:
			hint := fmt.Sprintf(deps.Config.Messages.TextHint, text, text)
			if _, err := sendReply(ctx, b, message.Chat.ID, 0, hint); err != nil {
				log.ErrorContext(ctx, "Failed to send text hint", "error", err)
			}
		}
	}
}

// looksLikeQuestion reports whether free text reads like a question: it
// starts with an Indonesian interrogative or ends with a question mark, and
// is long enough to be a real sentence.
func looksLikeQuestion(text string) bool {
	if len(text) <= 10 {
		return false
	}
	lower := strings.ToLower(text)
	for _, w := range questionWords {
		if strings.HasPrefix(lower, w+" ") {
			return true
		}
	}
	return strings.HasSuffix(lower, "?")
}

// looksLikeStockCode reports whether free text is a plausible ticker: a
// short, purely alphabetic token.
func looksLikeStockCode(text string) bool {
	if len(text) == 0 || len(text) > 6 {
		return false
	}
	for _, r := range text {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
