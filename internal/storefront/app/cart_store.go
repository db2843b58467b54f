package app

import (
	"context"
	"errors"
	"math"
	"slices"
	"sync"

	"go.uber.org/zap"

	"gogetmarket/internal/storefront/domain/entities"
	"gogetmarket/pkg/logger"
)

const (
	LogCartItemAdded     = "cart item added"
	LogCartItemRemoved   = "cart item removed"
	LogCartQuantitySet   = "cart quantity updated"
	LogCartCleared       = "cart cleared"
	LogCartRejected      = "cart mutation rejected"
	LogCartDriftRepaired = "cart line total drifted, recalculated"
)

// CartState - снимок корзины для слушателей и API.
type CartState struct {
	Items     []entities.CartItem `json:"items"`
	Subtotal  entities.Money      `json:"subtotal"`
	ItemCount int                 `json:"item_count"`
}

type cartSnapshot struct {
	Items []entities.CartItem `json:"items"`
}

type addItemInput struct {
	ProductID string         `json:"product_id" validate:"required"`
	Quantity  int            `json:"quantity" validate:"gt=0"`
	UnitPrice entities.Money `json:"unit_price" validate:"gte=0"`
}

type updateQuantityInput struct {
	ProductID string `json:"product_id" validate:"required"`
}

// CartStore хранит строки корзины в порядке добавления.
type CartStore struct {
	mu     sync.Mutex
	items  []entities.CartItem
	errors map[string]string

	snap      snapshotter
	log       *logger.Logger
	listeners listeners[CartState]
}

// NewCartStore создает корзину и восстанавливает сохраненные строки.
// Некорректные строки снимка отбрасываются.
func NewCartStore(ctx context.Context, deps Deps) *CartStore {
	log := deps.logger("cart_store")
	c := &CartStore{log: log}
	c.snap = deps.snapshot(SnapshotCart, log)

	var saved cartSnapshot
	if c.snap.hydrate(ctx, &saved) {
		for _, item := range saved.Items {
			if item.ProductID == "" || item.Quantity < 1 || item.UnitPrice < 0 || c.indexLocked(item.ProductID) >= 0 ||
				!c.fitsLocked(-1, item.Quantity, item.UnitPrice) {
				continue
			}
			item.Recalculate()
			c.items = append(c.items, item)
		}
	}
	return c
}

// AddItem добавляет строку или увеличивает количество существующей.
// Повторное добавление берет новую цену за единицу для всей строки.
func (c *CartStore) AddItem(ctx context.Context, productID string, product entities.Product, quantity int, unitPrice entities.Money) error {
	if err := c.reject(ctx, validateStruct(addItemInput{ProductID: productID, Quantity: quantity, UnitPrice: unitPrice})); err != nil {
		return err
	}

	c.mu.Lock()
	i := c.indexLocked(productID)
	merged := quantity
	if i >= 0 {
		if c.items[i].Quantity > math.MaxInt-quantity {
			merged = -1
		} else {
			merged += c.items[i].Quantity
		}
	}
	if merged < 0 || !c.fitsLocked(i, merged, unitPrice) {
		c.mu.Unlock()
		return c.reject(ctx, outOfRange())
	}

	if i >= 0 {
		item := &c.items[i]
		item.Product = product
		item.Quantity = merged
		item.UnitPrice = unitPrice
		item.Recalculate()
	} else {
		c.items = append(c.items, entities.NewCartItem(productID, product, quantity, unitPrice))
	}
	state := c.commitLocked(ctx)
	c.mu.Unlock()

	c.log.Debug(ctx, LogCartItemAdded, zap.String("product_id", productID), zap.Int("quantity", quantity))
	c.listeners.notify(c.log, state)
	return nil
}

// RemoveItem удаляет строку. Отсутствующая строка - не ошибка.
func (c *CartStore) RemoveItem(ctx context.Context, productID string) {
	c.mu.Lock()
	i := c.indexLocked(productID)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	c.items = slices.Delete(c.items, i, i+1)
	state := c.commitLocked(ctx)
	c.mu.Unlock()

	c.log.Debug(ctx, LogCartItemRemoved, zap.String("product_id", productID))
	c.listeners.notify(c.log, state)
}

// UpdateQuantity задает количество. quantity <= 0 удаляет строку.
func (c *CartStore) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if err := c.reject(ctx, validateStruct(updateQuantityInput{ProductID: productID})); err != nil {
		return err
	}
	if quantity <= 0 {
		c.RemoveItem(ctx, productID)
		return nil
	}

	c.mu.Lock()
	i := c.indexLocked(productID)
	if i < 0 {
		c.mu.Unlock()
		return nil
	}
	if !c.fitsLocked(i, quantity, c.items[i].UnitPrice) {
		c.mu.Unlock()
		return c.reject(ctx, outOfRange())
	}
	c.items[i].Quantity = quantity
	c.items[i].Recalculate()
	state := c.commitLocked(ctx)
	c.mu.Unlock()

	c.log.Debug(ctx, LogCartQuantitySet, zap.String("product_id", productID), zap.Int("quantity", quantity))
	c.listeners.notify(c.log, state)
	return nil
}

// Clear очищает корзину, например после оформления заказа.
func (c *CartStore) Clear(ctx context.Context) {
	c.mu.Lock()
	c.items = nil
	state := c.commitLocked(ctx)
	c.mu.Unlock()

	c.log.Debug(ctx, LogCartCleared)
	c.listeners.notify(c.log, state)
}

// Subtotal - сумма итогов строк.
func (c *CartStore) Subtotal() entities.Money {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked()
}

// ItemCount - сумма количеств.
func (c *CartStore) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemCountLocked()
}

// Items возвращает копию строк.
func (c *CartStore) Items() []entities.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshotOf(c.items)
}

// Item возвращает строку по товару.
func (c *CartStore) Item(productID string) (entities.CartItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexLocked(productID); i >= 0 {
		return c.items[i], true
	}
	return entities.CartItem{}, false
}

// State возвращает снимок корзины.
func (c *CartStore) State() CartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// ValidationErrors возвращает ошибки полей последней отклоненной операции.
// Успешная операция их сбрасывает.
func (c *CartStore) ValidationErrors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// Subscribe регистрирует слушателя изменений корзины.
func (c *CartStore) Subscribe(fn func(CartState)) func() {
	return c.listeners.add(fn)
}

func (c *CartStore) reject(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	c.mu.Lock()
	var ve *entities.ValidationError
	if errors.As(err, &ve) {
		c.errors = ve.Fields
	}
	c.mu.Unlock()

	c.log.Warn(ctx, LogCartRejected, zap.Error(err))
	return err
}

// commitLocked проверяет инвариант итогов, сохраняет корзину и возвращает снимок.
func (c *CartStore) commitLocked(ctx context.Context) CartState {
	c.errors = nil
	for i := range c.items {
		item := &c.items[i]
		if item.TotalPrice != item.UnitPrice*entities.Money(item.Quantity) {
			c.log.Error(ctx, LogCartDriftRepaired, zap.String("product_id", item.ProductID))
			item.Recalculate()
		}
	}
	c.snap.persist(ctx, cartSnapshot{Items: c.items})
	return c.stateLocked()
}

func (c *CartStore) stateLocked() CartState {
	return CartState{
		Items:     snapshotOf(c.items),
		Subtotal:  c.subtotalLocked(),
		ItemCount: c.itemCountLocked(),
	}
}

func (c *CartStore) subtotalLocked() entities.Money {
	var total entities.Money
	for _, item := range c.items {
		total += item.TotalPrice
	}
	return total
}

func (c *CartStore) itemCountLocked() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

func outOfRange() error {
	return entities.NewValidationError("quantity", entities.ErrCartOutOfRange.Error())
}

// fitsLocked сообщает, останутся ли сумма строки, подытог и число единиц
// в диапазоне, если строка index получит quantity и unitPrice. index < 0 - новая строка.
func (c *CartStore) fitsLocked(index, quantity int, unitPrice entities.Money) bool {
	subtotal, ok := unitPrice.Times(quantity)
	if !ok {
		return false
	}
	count := quantity
	for i, item := range c.items {
		if i == index {
			continue
		}
		if subtotal, ok = subtotal.Plus(item.TotalPrice); !ok {
			return false
		}
		if count > math.MaxInt-item.Quantity {
			return false
		}
		count += item.Quantity
	}
	return true
}

func (c *CartStore) indexLocked(productID string) int {
	return slices.IndexFunc(c.items, func(item entities.CartItem) bool {
		return item.ProductID == productID
	})
}
