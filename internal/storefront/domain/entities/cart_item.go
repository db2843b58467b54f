package entities

// CartItem - строка корзины. TotalPrice всегда пересчитывается из UnitPrice и Quantity.
type CartItem struct {
	ProductID  string  `json:"product_id"`
	Product    Product `json:"product"`
	Quantity   int     `json:"quantity"`
	UnitPrice  Money   `json:"unit_price"`
	TotalPrice Money   `json:"total_price"`
}

// NewCartItem создает строку с рассчитанной суммой.
func NewCartItem(productID string, product Product, quantity int, unitPrice Money) CartItem {
	item := CartItem{
		ProductID: productID,
		Product:   product,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	item.Recalculate()
	return item
}

// Recalculate пересчитывает TotalPrice.
func (i *CartItem) Recalculate() {
	i.TotalPrice = i.UnitPrice * Money(i.Quantity)
}
