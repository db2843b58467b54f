// Package entities определяет сущности домена витрины: сессию, корзину, избранное, уведомления и состояние сети.
package entities

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Ошибки домена.
var (
	ErrValidation       = errors.New("validation failed")
	ErrEmptyProductID   = errors.New("product ID cannot be empty")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrCartOutOfRange   = errors.New("quantity or cart total is too large")
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrInvalidTTL       = errors.New("session TTL must be positive")
	ErrNoActiveSession  = errors.New("no active session")
	ErrTokenWithoutExp  = errors.New("token has no expiry claim")
	ErrTokenAlreadyDead = errors.New("token already expired")
)

// ValidationError описывает ошибки по полям формы. Ключ - имя поля в JSON.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError создает ошибку с одним полем.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

// Unwrap позволяет проверять errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
