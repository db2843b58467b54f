// Package services определяет внешние сервисы, нужные хранилищам.
package services

import (
	"context"
	"errors"
	"time"
)

// ErrMalformedToken - токен не удалось разобрать.
var ErrMalformedToken = errors.New("malformed access token")

// TokenInspector читает срок действия токена доступа без проверки подписи.
type TokenInspector interface {
	ExpiresAt(ctx context.Context, token string) (time.Time, error)
}
