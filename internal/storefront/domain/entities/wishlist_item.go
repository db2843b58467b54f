package entities

import "time"

// MaxCompareItems - предел выбора для сравнения.
const MaxCompareItems = 4

// WishlistItem - товар, отложенный покупателем, с отслеживанием цены.
type WishlistItem struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	Product      Product   `json:"product"`
	PriceAtAdd   Money     `json:"price_at_add"`
	CurrentPrice Money     `json:"current_price"`
	AddedAt      time.Time `json:"added_at"`
	PriceDropped bool      `json:"price_dropped"`
}

// SetCurrentPrice обновляет текущую цену и флаг снижения. PriceAtAdd не меняется.
func (w *WishlistItem) SetCurrentPrice(price Money) {
	w.CurrentPrice = price
	w.PriceDropped = w.CurrentPrice < w.PriceAtAdd
}

// PriceDelta - на сколько цена снизилась с момента добавления. Отрицательна при росте.
func (w WishlistItem) PriceDelta() Money {
	return w.PriceAtAdd - w.CurrentPrice
}

// PriceIncreased - строгое сравнение: равные цены не считаются ни ростом, ни снижением.
func (w WishlistItem) PriceIncreased() bool {
	return w.CurrentPrice > w.PriceAtAdd
}
