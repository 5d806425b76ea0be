// Package remote implementa el puerto de auth contra un servicio de identidad
// externo: cada token se valida con un POST al endpoint configurado. Pensado
// para instancias compartidas detrás de un IAM propio; la instancia personal
// usa statictoken.
package remote

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"medication-reminders/internal/platform/httpclient"
	"medication-reminders/internal/ports/auth"
)

var (
	ErrUnauthorized  = errors.New("remote auth: unauthorized")
	ErrNotConfigured = errors.New("remote auth: not configured")
)

type Config struct {
	// VerifyURL es el endpoint completo de verificación de tokens.
	VerifyURL string
	APIKey    string

	// Header donde viaja la API key. Vacío => "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

type Verifier struct {
	client       *httpclient.Client
	verifyURL    string
	apiKey       string
	apiKeyHeader string
}

func New(cfg Config) *Verifier {
	header := strings.TrimSpace(cfg.APIKeyHeader)
	if header == "" {
		header = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Verifier{
		client:       httpclient.New(timeout),
		verifyURL:    strings.TrimSpace(cfg.VerifyURL),
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: header,
	}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.verifyURL == "" {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	headers := map[string]string{
		"Authorization": "Bearer " + token,
	}
	if v.apiKey != "" {
		headers[v.apiKeyHeader] = v.apiKey
	}

	var out struct {
		UserID string `json:"user_id"`
	}
	err := v.client.DoJSON(ctx, http.MethodPost, v.verifyURL, headers, map[string]string{
		"token": token,
	}, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) &&
			(httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden) {
			return auth.Claims{}, ErrUnauthorized
		}
		return auth.Claims{}, err
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, errors.New("remote auth: response missing user_id")
	}

	return auth.Claims{UserID: out.UserID}, nil
}
