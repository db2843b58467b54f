package http

import (
	"github.com/gofiber/fiber/v3"

	"gogetmarket/internal/storefront/domain/entities"
)

type addCartItemRequest struct {
	ProductID string           `json:"product_id"`
	Product   entities.Product `json:"product"`
	Quantity  *int             `json:"quantity"`
	UnitPrice *entities.Money  `json:"unit_price"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// GetCart возвращает корзину.
func (h *Handlers) GetCart(c fiber.Ctx) error {
	cl, _ := h.client(c)
	return respond(c, fiber.StatusOK, cl.Stores.Cart.State())
}

// AddCartItem добавляет товар или увеличивает количество существующей строки.
func (h *Handlers) AddCartItem(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)

	var req addCartItemRequest
	if ok, err := bind(requestCtx, c, &req); !ok {
		return err
	}
	if req.ProductID == "" {
		req.ProductID = req.Product.ID
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	price := req.Product.Price
	if req.UnitPrice != nil {
		price = *req.UnitPrice
	}

	if err := cl.Stores.Cart.AddItem(requestCtx, req.ProductID, req.Product, quantity, price); err != nil {
		return respondStoreError(requestCtx, c, err)
	}

	cl.Stores.Toasts.Success(requestCtx, MsgAddedToCart)
	return respond(c, fiber.StatusOK, cl.Stores.Cart.State())
}

// UpdateCartItem меняет количество. Ноль или меньше удаляет строку.
func (h *Handlers) UpdateCartItem(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)

	var req updateQuantityRequest
	if ok, err := bind(requestCtx, c, &req); !ok {
		return err
	}

	if req.Quantity == nil {
		return respondStoreError(requestCtx, c, entities.NewValidationError("quantity", "is required"))
	}

	if err := cl.Stores.Cart.UpdateQuantity(requestCtx, c.Params("productID"), *req.Quantity); err != nil {
		return respondStoreError(requestCtx, c, err)
	}
	return respond(c, fiber.StatusOK, cl.Stores.Cart.State())
}

// RemoveCartItem удаляет строку корзины.
func (h *Handlers) RemoveCartItem(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)
	cl.Stores.Cart.RemoveItem(requestCtx, c.Params("productID"))
	return respond(c, fiber.StatusOK, cl.Stores.Cart.State())
}

// ClearCart очищает корзину.
func (h *Handlers) ClearCart(c fiber.Ctx) error {
	cl, requestCtx := h.client(c)
	cl.Stores.Cart.Clear(requestCtx)
	return respond(c, fiber.StatusOK, cl.Stores.Cart.State())
}
