package http

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gogetmarket/internal/storefront/adapters/apiboundary"
	"gogetmarket/internal/storefront/ports/bus"
)

type outcomeRequest struct {
	Operation  string  `json:"operation"`
	HTTPStatus int     `json:"http_status"`
	GRPCCode   *uint32 `json:"grpc_code"`
	Message    string  `json:"message"`
}

// err восстанавливает ошибку вызова бэкенда по описанию исхода.
func (r outcomeRequest) err() error {
	switch {
	case r.HTTPStatus >= http.StatusBadRequest:
		return &apiboundary.StatusError{StatusCode: r.HTTPStatus}
	case r.GRPCCode != nil && codes.Code(*r.GRPCCode) != codes.OK:
		return status.Error(codes.Code(*r.GRPCCode), r.Message)
	case r.Message != "":
		return errors.New(r.Message)
	default:
		return nil
	}
}

func networkBody(cl *Client) fiber.Map {
	state := cl.Stores.Network.State()
	return fiber.Map{
		"is_offline":             state.IsOffline,
		"transient_error_active": state.TransientErrorActive,
		"display":                state.Display(),
	}
}

// GetNetwork возвращает состояние сети и решение о баннере.
func (h *Handlers) GetNetwork(c fiber.Ctx) error {
	cl, _ := h.client(c)
	return respond(c, fiber.StatusOK, networkBody(cl))
}

// SetOnline публикует сигнал online.
func (h *Handlers) SetOnline(c fiber.Ctx) error {
	cl, _ := h.client(c)
	cl.Stores.Bus.Publish(bus.SignalOnline, nil)
	return respond(c, fiber.StatusOK, networkBody(cl))
}

// SetOffline публикует сигнал offline.
func (h *Handlers) SetOffline(c fiber.Ctx) error {
	cl, _ := h.client(c)
	cl.Stores.Bus.Publish(bus.SignalOffline, nil)
	return respond(c, fiber.StatusOK, networkBody(cl))
}

// ReportNetworkError публикует сигнал network-error.
func (h *Handlers) ReportNetworkError(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)

	var req outcomeRequest
	if len(c.Body()) > 0 {
		if ok, err := bind(requestCtx, c, &req); !ok {
			return err
		}
	}

	cl.Stores.Bus.Publish(bus.SignalNetworkError, apiboundary.NetworkErrorPayload{
		Operation: req.Operation,
		Error:     req.Message,
	})
	return respond(c, fiber.StatusOK, networkBody(cl))
}

// ReportOutcome передает исход вызова бэкенда на границу: 401 истекает сессию,
// прочие сбои включают временную ошибку сети.
func (h *Handlers) ReportOutcome(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)

	var req outcomeRequest
	if ok, err := bind(requestCtx, c, &req); !ok {
		return err
	}

	cl.Boundary.Observe(requestCtx, req.Operation, req.err())
	return respond(c, fiber.StatusOK, fiber.Map{
		"session": cl.Stores.Session.Session(),
		"network": networkBody(cl),
	})
}
