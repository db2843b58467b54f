package http

import (
	"github.com/gofiber/fiber/v3"

	"gogetmarket/internal/storefront/domain/entities"
)

type pushToastRequest struct {
	Type    entities.ToastType `json:"type"`
	Message string             `json:"message"`
}

// GetToasts возвращает видимые уведомления.
func (h *Handlers) GetToasts(c fiber.Ctx) error {
	cl, _ := h.client(c)
	return respond(c, fiber.StatusOK, fiber.Map{"toasts": cl.Stores.Toasts.Toasts()})
}

// PushToast добавляет уведомление. Неизвестный тип становится info.
func (h *Handlers) PushToast(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)

	var req pushToastRequest
	if ok, err := bind(requestCtx, c, &req); !ok {
		return err
	}
	if req.Message == "" {
		return respondStoreError(requestCtx, c, entities.NewValidationError("message", "is required"))
	}

	id := cl.Stores.Toasts.Push(requestCtx, req.Type, req.Message)
	return respond(c, fiber.StatusCreated, fiber.Map{
		"id":     id,
		"toasts": cl.Stores.Toasts.Toasts(),
	})
}

// DismissToast закрывает уведомление досрочно.
func (h *Handlers) DismissToast(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)
	if !cl.Stores.Toasts.Remove(requestCtx, c.Params("id")) {
		return respondError(c, fiber.StatusNotFound, ErrorNotFound)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"toasts": cl.Stores.Toasts.Toasts()})
}

// ClearToasts закрывает все уведомления.
func (h *Handlers) ClearToasts(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)
	cl.Stores.Toasts.Clear(requestCtx)
	return respond(c, fiber.StatusOK, fiber.Map{"toasts": cl.Stores.Toasts.Toasts()})
}
