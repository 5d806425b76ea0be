package notify

import "context"

// Notifier presenta una alerta visible al usuario cuando dispara un timer.
// Es fire-and-forget: no hay canal de vuelta (ack/snooze) hacia el core.
type Notifier interface {
	Notify(ctx context.Context, id int64, title, body string) error
}
