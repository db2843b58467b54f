package app

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gogetmarket/internal/storefront/domain/entities"
	"gogetmarket/internal/storefront/ports/scheduler"
	"gogetmarket/pkg/logger"
)

const (
	LogWishlistAdded    = "product saved to wishlist"
	LogWishlistRemoved  = "product removed from wishlist"
	LogWishlistRejected = "wishlist mutation rejected"
	LogPriceRefreshed   = "wishlist price refreshed"
	LogCompareAdded     = "product added to compare"
	LogCompareRejected  = "compare selection refused"
	LogCompareRemoved   = "product removed from compare"
	LogCompareCleared   = "compare selection cleared"
)

// WishlistState - снимок избранного и выбора для сравнения.
type WishlistState struct {
	Items   []entities.WishlistItem `json:"items"`
	Compare []entities.Product      `json:"compare"`
}

type wishlistSnapshot struct {
	Items   []entities.WishlistItem `json:"items"`
	Compare []entities.Product      `json:"compare"`
}

type refreshPriceInput struct {
	ProductID string         `json:"product_id" validate:"required"`
	Price     entities.Money `json:"price" validate:"gte=0"`
}

// WishlistStore хранит отложенные товары с отслеживанием цены
// и ограниченный выбор для сравнения.
type WishlistStore struct {
	mu      sync.Mutex
	items   []entities.WishlistItem
	compare []entities.Product

	clock     scheduler.Scheduler
	snap      snapshotter
	log       *logger.Logger
	listeners listeners[WishlistState]
}

// NewWishlistStore создает хранилище и восстанавливает снимок.
// Флаг снижения цены пересчитывается. Товары сравнения сверх предела
// отбрасываются с предупреждением.
func NewWishlistStore(ctx context.Context, deps Deps) *WishlistStore {
	log := deps.logger("wishlist_store")
	w := &WishlistStore{clock: deps.Scheduler, log: log}
	w.snap = deps.snapshot(SnapshotWishlist, log)

	var saved wishlistSnapshot
	if !w.snap.hydrate(ctx, &saved) {
		return w
	}

	for _, item := range saved.Items {
		if item.ProductID == "" || w.itemIndexLocked(item.ProductID) >= 0 {
			continue
		}
		item.SetCurrentPrice(item.CurrentPrice)
		w.items = append(w.items, item)
	}
	for _, p := range saved.Compare {
		if p.ID == "" || w.compareIndexLocked(p.ID) >= 0 {
			continue
		}
		if len(w.compare) == entities.MaxCompareItems {
			log.Warn(ctx, LogCompareRejected, zap.String("product_id", p.ID))
			continue
		}
		w.compare = append(w.compare, p)
	}
	return w
}

// AddToWishlist сохраняет товар по его текущей цене. Если товар уже сохранен,
// возвращает false и ничего не меняет.
func (w *WishlistStore) AddToWishlist(ctx context.Context, product entities.Product) (bool, error) {
	if err := validateStruct(product); err != nil {
		w.log.Warn(ctx, LogWishlistRejected, zap.Error(err))
		return false, err
	}

	w.mu.Lock()
	if w.itemIndexLocked(product.ID) >= 0 {
		w.mu.Unlock()
		return false, nil
	}
	w.items = append(w.items, entities.WishlistItem{
		ID:           uuid.NewString(),
		ProductID:    product.ID,
		Product:      product,
		PriceAtAdd:   product.Price,
		CurrentPrice: product.Price,
		AddedAt:      w.clock.Now(),
	})
	state := w.commitLocked(ctx)
	w.mu.Unlock()

	w.log.Debug(ctx, LogWishlistAdded, zap.String("product_id", product.ID))
	w.listeners.notify(w.log, state)
	return true, nil
}

// RemoveFromWishlist удаляет товар из избранного и из сравнения.
func (w *WishlistStore) RemoveFromWishlist(ctx context.Context, productID string) {
	w.mu.Lock()
	i := w.itemIndexLocked(productID)
	j := w.compareIndexLocked(productID)
	if i < 0 && j < 0 {
		w.mu.Unlock()
		return
	}
	if i >= 0 {
		w.items = slices.Delete(w.items, i, i+1)
	}
	if j >= 0 {
		w.compare = slices.Delete(w.compare, j, j+1)
	}
	state := w.commitLocked(ctx)
	w.mu.Unlock()

	w.log.Debug(ctx, LogWishlistRemoved, zap.String("product_id", productID))
	w.listeners.notify(w.log, state)
}

// RefreshPrice обновляет текущую цену. PriceAtAdd не меняется.
// Для отсутствующего товара ничего не делает и возвращает false.
func (w *WishlistStore) RefreshPrice(ctx context.Context, productID string, price entities.Money) (bool, error) {
	if err := validateStruct(refreshPriceInput{ProductID: productID, Price: price}); err != nil {
		w.log.Warn(ctx, LogWishlistRejected, zap.Error(err))
		return false, err
	}

	w.mu.Lock()
	i := w.itemIndexLocked(productID)
	if i < 0 {
		w.mu.Unlock()
		return false, nil
	}
	item := &w.items[i]
	item.SetCurrentPrice(price)
	item.Product.Price = price
	dropped := item.PriceDropped
	state := w.commitLocked(ctx)
	w.mu.Unlock()

	w.log.Debug(ctx, LogPriceRefreshed, zap.String("product_id", productID),
		zap.Int64("price", int64(price)), zap.Bool("price_dropped", dropped))
	w.listeners.notify(w.log, state)
	return true, nil
}

// AddToCompare добавляет товар к сравнению. Возвращает false без изменений,
// если выбор полон или товар уже выбран.
func (w *WishlistStore) AddToCompare(ctx context.Context, product entities.Product) bool {
	if product.ID == "" {
		return false
	}

	w.mu.Lock()
	if len(w.compare) >= entities.MaxCompareItems || w.compareIndexLocked(product.ID) >= 0 {
		size := len(w.compare)
		w.mu.Unlock()
		w.log.Debug(ctx, LogCompareRejected, zap.String("product_id", product.ID), zap.Int("size", size))
		return false
	}
	w.compare = append(w.compare, product)
	state := w.commitLocked(ctx)
	w.mu.Unlock()

	w.log.Debug(ctx, LogCompareAdded, zap.String("product_id", product.ID))
	w.listeners.notify(w.log, state)
	return true
}

// RemoveFromCompare убирает товар из сравнения.
func (w *WishlistStore) RemoveFromCompare(ctx context.Context, productID string) {
	w.mu.Lock()
	j := w.compareIndexLocked(productID)
	if j < 0 {
		w.mu.Unlock()
		return
	}
	w.compare = slices.Delete(w.compare, j, j+1)
	state := w.commitLocked(ctx)
	w.mu.Unlock()

	w.log.Debug(ctx, LogCompareRemoved, zap.String("product_id", productID))
	w.listeners.notify(w.log, state)
}

// ClearCompare очищает выбор для сравнения.
func (w *WishlistStore) ClearCompare(ctx context.Context) {
	w.mu.Lock()
	if len(w.compare) == 0 {
		w.mu.Unlock()
		return
	}
	w.compare = nil
	state := w.commitLocked(ctx)
	w.mu.Unlock()

	w.log.Debug(ctx, LogCompareCleared)
	w.listeners.notify(w.log, state)
}

func (w *WishlistStore) CanAddToCompare() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.compare) < entities.MaxCompareItems
}

func (w *WishlistStore) IsInCompare(productID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.compareIndexLocked(productID) >= 0
}

func (w *WishlistStore) IsInWishlist(productID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.itemIndexLocked(productID) >= 0
}

func (w *WishlistStore) Items() []entities.WishlistItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	return snapshotOf(w.items)
}

func (w *WishlistStore) Item(productID string) (entities.WishlistItem, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if i := w.itemIndexLocked(productID); i >= 0 {
		return w.items[i], true
	}
	return entities.WishlistItem{}, false
}

func (w *WishlistStore) CompareItems() []entities.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	return snapshotOf(w.compare)
}

// State возвращает снимок избранного и сравнения.
func (w *WishlistStore) State() WishlistState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

// Subscribe регистрирует слушателя изменений.
func (w *WishlistStore) Subscribe(fn func(WishlistState)) func() {
	return w.listeners.add(fn)
}

func (w *WishlistStore) commitLocked(ctx context.Context) WishlistState {
	w.snap.persist(ctx, wishlistSnapshot{Items: w.items, Compare: w.compare})
	return w.stateLocked()
}

func (w *WishlistStore) stateLocked() WishlistState {
	return WishlistState{
		Items:   snapshotOf(w.items),
		Compare: snapshotOf(w.compare),
	}
}

func (w *WishlistStore) itemIndexLocked(productID string) int {
	return slices.IndexFunc(w.items, func(item entities.WishlistItem) bool {
		return item.ProductID == productID
	})
}

func (w *WishlistStore) compareIndexLocked(productID string) int {
	return slices.IndexFunc(w.compare, func(p entities.Product) bool {
		return p.ID == productID
	})
}
