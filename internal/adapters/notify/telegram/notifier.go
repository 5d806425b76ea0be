// Package telegram entrega los recordatorios como mensajes de un bot de
// Telegram al chat configurado.
package telegram

import (
	"context"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"medication-reminders/internal/platform/logger"
)

type Notifier struct {
	bot    *tg.BotAPI
	chatID int64
	log    logger.Logger
}

func New(token string, chatID int64, log logger.Logger) (*Notifier, error) {
	bot, err := tg.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Telegram bot")
	}
	bot.Debug = false

	if log == nil {
		log = logger.Nop()
	}
	log.Info("telegram notifier ready", map[string]any{"account": bot.Self.UserName})

	return &Notifier{bot: bot, chatID: chatID, log: log}, nil
}

func (n *Notifier) Notify(_ context.Context, id int64, title, body string) error {
	text := title
	if body != "" {
		text += "\n" + body
	}

	msg := tg.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return errors.Wrapf(err, "failed to send notification %d", id)
	}
	return nil
}
