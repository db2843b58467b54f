package http

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// Handlers обслуживает API витрины поверх реестра клиентов.
type Handlers struct {
	clients *Registry
}

// NewHandlers создает обработчики.
func NewHandlers(clients *Registry) *Handlers {
	return &Handlers{clients: clients}
}

func (h *Handlers) client(c fiber.Ctx) (*Client, context.Context) {
	requestCtx := requestContext(c)
	id, _ := c.Locals(localsClientID).(string)
	return h.clients.Get(requestCtx, id), requestCtx
}

// Health отвечает на проверку живости.
func (h *Handlers) Health(c fiber.Ctx) error {
	return respond(c, fiber.StatusOK, fiber.Map{"status": "ok", "clients": h.clients.Len()})
}
