// Package webhook entrega los recordatorios como un POST JSON a una URL
// configurada (p.ej. un relay a Home Assistant o ntfy).
package webhook

import (
	"context"
	"net/http"
	"time"

	"medication-reminders/internal/platform/httpclient"
)

type Notifier struct {
	client *httpclient.Client
	url    string
	now    func() time.Time
}

type payload struct {
	ID    int64     `json:"id"`
	Title string    `json:"title"`
	Body  string    `json:"body"`
	At    time.Time `json:"at"`
}

func New(url string, timeout time.Duration) *Notifier {
	return &Notifier{
		client: httpclient.New(timeout),
		url:    url,
		now:    time.Now,
	}
}

func (n *Notifier) Notify(ctx context.Context, id int64, title, body string) error {
	return n.client.DoJSON(ctx, http.MethodPost, n.url, nil, payload{
		ID:    id,
		Title: title,
		Body:  body,
		At:    n.now().UTC(),
	}, nil)
}
