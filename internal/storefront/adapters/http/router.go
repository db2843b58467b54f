// Package http предоставляет HTTP API витрины поверх хранилищ клиента.
package http

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gogetmarket/internal/storefront/metrics"
)

// RouterDeps - зависимости маршрутизатора.
type RouterDeps struct {
	Handlers    *Handlers
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	MetricsPath string
}

// SetupRouter регистрирует маршруты API.
func SetupRouter(app *fiber.App, deps RouterDeps) {
	app.Use(NewRecoveryMiddleware())
	app.Use(NewClientMiddleware())
	app.Use(NewLoggerMiddleware(deps.Metrics))

	h := deps.Handlers

	app.Get("/healthz", h.Health)
	if deps.Gatherer != nil && deps.MetricsPath != "" {
		app.Get(deps.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api/v1")

	session := api.Group("/session")
	session.Get("/", h.GetSession)
	session.Post("/login", h.Login)
	session.Post("/logout", h.Logout)
	session.Post("/refresh", h.Refresh)
	session.Post("/guest", h.ContinueAsGuest)
	session.Post("/expire", h.ExpireSession)
	session.Post("/check", h.CheckExpiry)

	cart := api.Group("/cart")
	cart.Get("/", h.GetCart)
	cart.Delete("/", h.ClearCart)
	cart.Post("/items", h.AddCartItem)
	cart.Patch("/items/:productID", h.UpdateCartItem)
	cart.Delete("/items/:productID", h.RemoveCartItem)

	wishlist := api.Group("/wishlist")
	wishlist.Get("/", h.GetWishlist)
	wishlist.Post("/items", h.AddWishlistItem)
	wishlist.Delete("/items/:productID", h.RemoveWishlistItem)
	wishlist.Post("/prices", h.ApplyPrices)

	compare := api.Group("/compare")
	compare.Get("/", h.GetCompare)
	compare.Post("/", h.AddCompareItem)
	compare.Delete("/", h.ClearCompare)
	compare.Delete("/:productID", h.RemoveCompareItem)

	toasts := api.Group("/toasts")
	toasts.Get("/", h.GetToasts)
	toasts.Post("/", h.PushToast)
	toasts.Delete("/", h.ClearToasts)
	toasts.Delete("/:id", h.DismissToast)

	network := api.Group("/network")
	network.Get("/", h.GetNetwork)
	network.Post("/online", h.SetOnline)
	network.Post("/offline", h.SetOffline)
	network.Post("/error", h.ReportNetworkError)

	api.Post("/boundary/outcome", h.ReportOutcome)

	app.Use(func(c fiber.Ctx) error {
		return respondError(c, fiber.StatusNotFound, ErrorNotFound)
	})
}
