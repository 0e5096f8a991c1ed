// Package telegram delivers formatted digests to a Telegram group via the
// Bot API. It is the only package that knows about Telegram; the core
// pipeline sees just the runner's Deliverer interface.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender publishes messages through one bot account.
type Sender struct {
	bot *tgbotapi.BotAPI
	log *slog.Logger
}

// NewSender authenticates the bot token against the Bot API.
func NewSender(token string) (*Sender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Sender{
		bot: bot,
		log: slog.With("component", "telegram"),
	}, nil
}

// Deliver sends one HTML-formatted message to the group. The Bot API
// client does not take a context; cancellation is checked before sending.
func (s *Sender) Deliver(ctx context.Context, groupID, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	chatID, err := strconv.ParseInt(groupID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram group id %q: %w", groupID, err)
	}

	msg := tgbotapi.NewMessage(chatID, message)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	s.log.Info("digest delivered", "chat_id", chatID, "bytes", len(message))
	return nil
}
