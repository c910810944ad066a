// Package notify wraps the Telegram bot used for manager notifications.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Telegram sends messages and files through the bot API.
type Telegram struct {
	bot *tgbotapi.BotAPI
}

// NewTelegram authorizes the bot.
func NewTelegram(token string, debug bool, logger zerolog.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	bot.Debug = debug
	logger.Info().Str("account", bot.Self.UserName).Msg("telegram bot authorized")
	return &Telegram{bot: bot}, nil
}

// SendMessage sends a plain text message to a chat.
func (t *Telegram) SendMessage(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := t.bot.Send(msg)
	return err
}

// SendDocument sends a local file to a chat with a caption.
func (t *Telegram) SendDocument(ctx context.Context, chatID int64, path, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	_, err := t.bot.Send(doc)
	return err
}
