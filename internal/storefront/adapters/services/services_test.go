package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gogetmarket/internal/storefront/adapters/services"
	"gogetmarket/internal/storefront/domain/entities"
	portservices "gogetmarket/internal/storefront/ports/services"
	"gogetmarket/pkg/logger"
)

func signedToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("any-secret"))
	require.NoError(t, err)
	return signed
}

func TestJWTInspector_ExpiresAt(t *testing.T) {
	ctx := logger.NewContext(context.Background(), logger.NewNop())
	inspector := services.NewJWTInspector()

	t.Run("reads exp claim", func(t *testing.T) {
		exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
		token := signedToken(t, jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		})

		got, err := inspector.ExpiresAt(ctx, token)

		require.NoError(t, err)
		assert.True(t, exp.Equal(got))
	})

	t.Run("expired token is still readable", func(t *testing.T) {
		exp := time.Now().Add(-time.Hour).Truncate(time.Second)
		token := signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

		got, err := inspector.ExpiresAt(ctx, token)

		require.NoError(t, err)
		assert.True(t, exp.Equal(got))
	})

	t.Run("missing exp", func(t *testing.T) {
		token := signedToken(t, jwt.RegisteredClaims{Subject: "user-1"})

		_, err := inspector.ExpiresAt(ctx, token)

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrTokenWithoutExp)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := inspector.ExpiresAt(ctx, "not-a-jwt")

		require.Error(t, err)
		assert.ErrorIs(t, err, portservices.ErrMalformedToken)
	})
}
