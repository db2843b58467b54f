package http

import (
	"context"
	"fmt"
	"regexp"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gogetmarket/internal/storefront/metrics"
	"gogetmarket/pkg/logger"
)

// HeaderClientID - заголовок с идентификатором клиента витрины.
const HeaderClientID = "X-Client-ID"

const localsClientID = "client_id"

// clientIDPattern ограничивает идентификатор, который входит в ключи снимков.
var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// requestContext возвращает контекст запроса с логгером и идентификатором клиента.
func requestContext(c fiber.Ctx) context.Context {
	var ctx context.Context = c.Context()
	if id, ok := c.Locals(localsClientID).(string); ok {
		ctx = logger.NewClientIDContext(ctx, id)
	}
	return ctx
}

// NewClientMiddleware читает X-Client-ID. Если заголовка нет, выдает новый
// идентификатор и возвращает его в ответе. Идентификатор длиннее 64 символов
// или с символами вне [A-Za-z0-9_-] отклоняется с 400.
func NewClientMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Get(HeaderClientID)
		switch {
		case id == "":
			id = logger.GenerateClientID()
		case !clientIDPattern.MatchString(id):
			return respondError(c, fiber.StatusBadRequest, ErrorInvalidClientID)
		}
		c.Set(HeaderClientID, id)
		c.Locals(localsClientID, id)
		return c.Next()
	}
}

// NewLoggerMiddleware логирует запросы и учитывает их в метриках.
func NewLoggerMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(c fiber.Ctx) error {
		requestCtx := requestContext(c)
		start := time.Now()

		log := logger.Log(requestCtx).With(
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.String("ip", c.IP()),
		)

		err := c.Next()

		status := c.Response().StatusCode()
		latency := time.Since(start)
		m.ObserveRequest(c.Method(), c.Route().Path, status, latency)

		fields := []zap.Field{zap.Int("status", status), zap.Duration("latency", latency)}
		if err != nil {
			log.Error(requestCtx, "request failed", append(fields, zap.Error(err))...)
			return fmt.Errorf("request processing error: %w", err)
		}

		log.Debug(requestCtx, "request completed", fields...)
		return nil
	}
}

// NewRecoveryMiddleware превращает панику обработчика в ответ 500.
func NewRecoveryMiddleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		requestCtx := requestContext(c)

		defer func() {
			if r := recover(); r != nil {
				logger.Log(requestCtx).Error(requestCtx, "server panic",
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(debug.Stack())),
				)
				err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "internal server error",
				})
			}
		}()

		return c.Next()
	}
}
