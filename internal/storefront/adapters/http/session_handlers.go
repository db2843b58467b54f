package http

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"gogetmarket/internal/storefront/app"
	"gogetmarket/internal/storefront/domain/entities"
)

type loginRequest struct {
	User       entities.User `json:"user"`
	TTLSeconds int           `json:"ttl_seconds"`
	Token      string        `json:"token"`
}

type refreshRequest struct {
	TTLSeconds int `json:"ttl_seconds"`
}

type expireRequest struct {
	Reason string `json:"reason"`
}

func ttlOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// GetSession возвращает текущее состояние сессии.
func (h *Handlers) GetSession(c fiber.Ctx) error {
	cl, _ := h.client(c)
	return respond(c, fiber.StatusOK, cl.Stores.Session.Session())
}

// Login выполняет вход по профилю и TTL либо по токену доступа.
func (h *Handlers) Login(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)

	var req loginRequest
	if ok, err := bind(requestCtx, c, &req); !ok {
		return err
	}

	var err error
	if req.Token != "" {
		err = cl.Stores.Session.LoginWithToken(requestCtx, req.User, req.Token)
	} else {
		ttl := ttlOrDefault(req.TTLSeconds, cl.Stores.Settings.SessionTTL)
		err = cl.Stores.Session.Login(requestCtx, req.User, ttl)
	}
	if err != nil {
		return respondStoreError(requestCtx, c, err)
	}

	return respond(c, fiber.StatusOK, cl.Stores.Session.Session())
}

// Logout завершает сессию.
func (h *Handlers) Logout(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)
	cl.Stores.Session.Logout(requestCtx)
	return respond(c, fiber.StatusOK, cl.Stores.Session.Session())
}

// Refresh продлевает активную сессию.
func (h *Handlers) Refresh(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)

	var req refreshRequest
	if len(c.Body()) > 0 {
		if ok, err := bind(requestCtx, c, &req); !ok {
			return err
		}
	}

	ttl := ttlOrDefault(req.TTLSeconds, cl.Stores.Settings.SessionTTL)
	if err := cl.Stores.Session.Refresh(requestCtx, ttl); err != nil {
		return respondStoreError(requestCtx, c, err)
	}
	return respond(c, fiber.StatusOK, cl.Stores.Session.Session())
}

// ContinueAsGuest переводит клиента в гостевой режим.
func (h *Handlers) ContinueAsGuest(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)
	cl.Stores.Session.ContinueAsGuest(requestCtx)
	return respond(c, fiber.StatusOK, cl.Stores.Session.Session())
}

// ExpireSession принудительно истекает сессию.
func (h *Handlers) ExpireSession(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)

	var req expireRequest
	if len(c.Body()) > 0 {
		if ok, err := bind(requestCtx, c, &req); !ok {
			return err
		}
	}
	if req.Reason == "" {
		req.Reason = app.ReasonExpired
	}

	expired := cl.Stores.Session.MarkExpired(requestCtx, req.Reason)
	return respond(c, fiber.StatusOK, fiber.Map{
		"expired": expired,
		"session": cl.Stores.Session.Session(),
	})
}

// CheckExpiry сверяет срок сессии с часами.
func (h *Handlers) CheckExpiry(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)
	expired := cl.Stores.Session.CheckExpiry(requestCtx)
	return respond(c, fiber.StatusOK, fiber.Map{
		"expired": expired,
		"session": cl.Stores.Session.Session(),
	})
}
