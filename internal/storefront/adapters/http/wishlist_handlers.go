package http

import (
	"github.com/gofiber/fiber/v3"

	"gogetmarket/internal/storefront/domain/entities"
)

type applyPricesRequest struct {
	Prices map[string]entities.Money `json:"prices"`
}

func compareBody(cl *Client) fiber.Map {
	return fiber.Map{
		"items":       cl.Stores.Wishlist.CompareItems(),
		"can_add":     cl.Stores.Wishlist.CanAddToCompare(),
		"max_compare": entities.MaxCompareItems,
	}
}

// GetWishlist возвращает избранное вместе с выбором для сравнения.
func (h *Handlers) GetWishlist(c fiber.Ctx) error {
	cl, _ := h.client(c)
	return respond(c, fiber.StatusOK, cl.Stores.Wishlist.State())
}

// AddWishlistItem откладывает товар. Повторное добавление ничего не меняет.
func (h *Handlers) AddWishlistItem(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)

	var product entities.Product
	if ok, err := bind(requestCtx, c, &product); !ok {
		return err
	}

	added, err := cl.Stores.Wishlist.AddToWishlist(requestCtx, product)
	if err != nil {
		return respondStoreError(requestCtx, c, err)
	}

	status := fiber.StatusOK
	if added {
		status = fiber.StatusCreated
		cl.Stores.Toasts.Success(requestCtx, MsgSavedWishlist)
	}
	return respond(c, status, cl.Stores.Wishlist.State())
}

// RemoveWishlistItem убирает товар из избранного и из сравнения.
func (h *Handlers) RemoveWishlistItem(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)
	cl.Stores.Wishlist.RemoveFromWishlist(requestCtx, c.Params("productID"))
	return respond(c, fiber.StatusOK, cl.Stores.Wishlist.State())
}

// ApplyPrices применяет свежие цены каталога к избранному.
func (h *Handlers) ApplyPrices(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)

	var req applyPricesRequest
	if ok, err := bind(requestCtx, c, &req); !ok {
		return err
	}

	updated, err := cl.Boundary.ApplyPrices(requestCtx, req.Prices)
	if err != nil {
		return respondStoreError(requestCtx, c, err)
	}

	return respond(c, fiber.StatusOK, fiber.Map{
		"updated":  updated,
		"wishlist": cl.Stores.Wishlist.State(),
	})
}

// GetCompare возвращает выбор для сравнения.
func (h *Handlers) GetCompare(c fiber.Ctx) error {
	cl, _ := h.client(c)
	return respond(c, fiber.StatusOK, compareBody(cl))
}

// AddCompareItem добавляет товар к сравнению, если не достигнут предел.
func (h *Handlers) AddCompareItem(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)

	var product entities.Product
	if ok, err := bind(requestCtx, c, &product); !ok {
		return err
	}
	if product.ID == "" {
		return respondStoreError(requestCtx, c, entities.NewValidationError("id", "is required"))
	}

	added := cl.Stores.Wishlist.AddToCompare(requestCtx, product)
	if !added && !cl.Stores.Wishlist.IsInCompare(product.ID) {
		cl.Stores.Toasts.Warning(requestCtx, MsgCompareFull)
		return respond(c, fiber.StatusConflict, fiber.Map{
			"error":   MsgCompareFull,
			"compare": compareBody(cl),
		})
	}
	return respond(c, fiber.StatusOK, compareBody(cl))
}

// RemoveCompareItem убирает товар из сравнения.
func (h *Handlers) RemoveCompareItem(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)
	cl.Stores.Wishlist.RemoveFromCompare(requestCtx, c.Params("productID"))
	return respond(c, fiber.StatusOK, compareBody(cl))
}

// ClearCompare очищает сравнение.
func (h *Handlers) ClearCompare(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)
	cl.Stores.Wishlist.ClearCompare(requestCtx)
	return respond(c, fiber.StatusOK, compareBody(cl))
}
