package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gogetmarket/internal/storefront/domain/entities"
	"gogetmarket/internal/storefront/ports/services"
	"gogetmarket/pkg/logger"
)

const (
	ErrorInvalidRequest  = "invalid request"
	ErrorNotFound        = "not found"
	ErrorInternal        = "failed to serve request"
	ErrorInvalidClientID = "invalid client id"
)

func respond(c fiber.Ctx, status int, body any) error {
	if err := c.Status(status).JSON(body); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

func respondError(c fiber.Ctx, status int, message string) error {
	return respond(c, status, fiber.Map{"error": message})
}

// bind разбирает тело запроса. При ошибке ответ уже отправлен и ok == false.
func bind(ctx context.Context, c fiber.Ctx, dst any) (bool, error) {
	if err := c.Bind().JSON(dst); err != nil {
		logger.Log(ctx).Debug(ctx, ErrorInvalidRequest, zap.Error(err))
		return false, respondError(c, fiber.StatusBadRequest, ErrorInvalidRequest)
	}
	return true, nil
}

// respondStoreError переводит ошибку хранилища в HTTP-ответ.
func respondStoreError(ctx context.Context, c fiber.Ctx, err error) error {
	var ve *entities.ValidationError
	switch {
	case errors.As(err, &ve):
		return respond(c, fiber.StatusUnprocessableEntity, fiber.Map{
			"error":  entities.ErrValidation.Error(),
			"fields": ve.Fields,
		})
	case errors.Is(err, entities.ErrValidation):
		return respondError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, entities.ErrNoActiveSession):
		return respondError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, entities.ErrTokenAlreadyDead),
		errors.Is(err, entities.ErrTokenWithoutExp),
		errors.Is(err, services.ErrMalformedToken):
		return respondError(c, fiber.StatusBadRequest, err.Error())
	default:
		logger.Log(ctx).Error(ctx, ErrorInternal, zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, ErrorInternal)
	}
}
