// Package statictoken implementa el puerto de auth con un bearer token fijo
// tomado de la configuración. Suficiente para una instancia personal.
package statictoken

import (
	"context"
	"crypto/subtle"
	"errors"

	"medication-reminders/internal/ports/auth"
)

var ErrInvalidToken = errors.New("invalid token")

type Verifier struct {
	token string
}

func New(token string) *Verifier {
	return &Verifier{token: token}
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if v.token == "" {
		return auth.Claims{}, ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(v.token)) != 1 {
		return auth.Claims{}, ErrInvalidToken
	}
	return auth.Claims{UserID: "owner"}, nil
}
