package telegram

import (
	"context"
	"fmt"

	"github.com/dealdrop/dealdrop/internal/models"
	tgbot "github.com/go-telegram/bot"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Token string
}

func NewBotClient(config Config) (*tgbot.Bot, error) {
	bot, err := tgbot.New(config.Token)
	if err != nil {
		return nil, fmt.Errorf("tgbot.New: %w", err)
	}
	log.Info("telegram bot client connected successfully")

	return bot, nil
}

// Notifier delivers alerts to owners who linked a telegram chat.
type Notifier struct {
	deps NotifierDependencies
}

type NotifierDependencies struct {
	Telegram *tgbot.Bot
}

func NewNotifier(deps NotifierDependencies) *Notifier {
	return &Notifier{deps: deps}
}

func (n *Notifier) Send(ctx context.Context, message models.AlertMessage) error {
	if message.Recipient.TelegramChatID == nil {
		return fmt.Errorf("%w: alert recipient has no telegram chat", models.ErrDispatchFailed)
	}

	sent, err := n.deps.Telegram.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: *message.Recipient.TelegramChatID,
		Text:   message.Text.Plain,
	})
	if err != nil {
		return fmt.Errorf("%w: n.deps.Telegram.SendMessage: %v", models.ErrDispatchFailed, err)
	}

	log.
		WithFields(log.Fields{
			"message.uuid":    message.UUID,
			"message.chat_id": *message.Recipient.TelegramChatID,
			"message.sent_id": sent.ID,
		}).
		Info("alert sent to telegram chat")

	return nil
}
