package handlers

import (
	"context"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler greets the user with the welcome message and the main
// menu inline keyboard.
func NewStartHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		message := update.Message
		log := deps.Logger.With("handler", "start", "chat_id", message.Chat.ID)

		name := "investor"
		if message.From != nil && message.From.FirstName != "" {
			name = message.From.FirstName
		}

		botName := deps.Config.Telegram.BotName
		if deps.Config.Telegram.BotInfo != nil && deps.Config.Telegram.BotInfo.Username != "" {
			botName = deps.Config.Telegram.BotInfo.Username
		}

		welcome := deps.Config.Messages.Welcome
		welcome = strings.ReplaceAll(welcome, "@botname", "@"+botName)
		welcome = strings.ReplaceAll(welcome, "{name}", name)

		sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
		defer cancel()

		_, err := b.SendMessage(sendCtx, &tgbot.SendMessageParams{
			ChatID:      message.Chat.ID,
			Text:        welcome,
			ParseMode:   models.ParseModeMarkdown,
			ReplyMarkup: mainMenuKeyboard(),
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send welcome message", "error", err)
		}
	}
}
