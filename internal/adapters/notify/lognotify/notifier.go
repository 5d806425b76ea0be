// Package lognotify es el emisor por defecto: escribe la alerta en el log.
// Útil en dev y como fallback cuando no hay canal de entrega configurado.
package lognotify

import (
	"context"

	"medication-reminders/internal/platform/logger"
)

type Notifier struct {
	log logger.Logger
}

func New(log logger.Logger) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Notifier{log: log.With(map[string]any{"channel": "log"})}
}

func (n *Notifier) Notify(_ context.Context, id int64, title, body string) error {
	n.log.Info("notification", map[string]any{
		"id":    id,
		"title": title,
		"body":  body,
	})
	return nil
}
