package logger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// clientIDKeyType - ключ контекста для идентификатора клиента витрины.
type clientIDKeyType struct{}

var clientIDKey = clientIDKeyType{}

// NewClientIDContext кладет идентификатор клиента в контекст.
// Пустой идентификатор заменяется сгенерированным.
func NewClientIDContext(ctx context.Context, clientID string) context.Context {
	if clientID == "" {
		clientID = GenerateClientID()
	}
	return context.WithValue(ctx, clientIDKey, clientID)
}

// GetClientID извлекает идентификатор клиента из контекста.
func GetClientID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(clientIDKey).(string)
	return id, ok
}

// GenerateClientID генерирует новый идентификатор клиента.
func GenerateClientID() string {
	return uuid.New().String()
}

// WithClientID возвращает копию логгера с полем client_id, если оно есть в контексте.
func (l *Logger) WithClientID(ctx context.Context) *Logger {
	if id, ok := GetClientID(ctx); ok {
		return l.With(zap.String(ClientID, id))
	}
	return l
}
