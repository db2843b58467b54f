// Package services содержит реализации внешних сервисов витрины.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"gogetmarket/internal/storefront/domain/entities"
	"gogetmarket/internal/storefront/ports/services"
	"gogetmarket/pkg/logger"
)

const (
	methodExpiresAt    = "JWTInspector.ExpiresAt"
	msgInspectingToken = "inspecting access token"
	msgErrParsingToken = "error parsing token" //nolint:gosec
	msgTokenWithoutExp = "token has no exp claim"
	errCtxInspecting   = "inspecting token"
)

// JWTInspector читает claim exp из JWT. Подпись не проверяется:
// токен выдан и проверяется бэкендом, витрине нужен только срок.
type JWTInspector struct {
	parser *jwt.Parser
}

var _ services.TokenInspector = (*JWTInspector)(nil)

// NewJWTInspector создает инспектор.
func NewJWTInspector() *JWTInspector {
	return &JWTInspector{parser: jwt.NewParser()}
}

// ExpiresAt возвращает момент истечения токена.
func (i *JWTInspector) ExpiresAt(ctx context.Context, tokenString string) (time.Time, error) {
	log := logger.Log(ctx).With(zap.String("method", methodExpiresAt))
	log.Debug(ctx, msgInspectingToken)

	claims := &jwt.RegisteredClaims{}
	if _, _, err := i.parser.ParseUnverified(tokenString, claims); err != nil {
		log.Debug(ctx, msgErrParsingToken, zap.Error(err))
		return time.Time{}, fmt.Errorf("%s: %w: %w", errCtxInspecting, services.ErrMalformedToken, err)
	}

	if claims.ExpiresAt == nil {
		log.Debug(ctx, msgTokenWithoutExp)
		return time.Time{}, fmt.Errorf("%s: %w", errCtxInspecting, entities.ErrTokenWithoutExp)
	}

	return claims.ExpiresAt.Time, nil
}
