package entities

// Product - снимок карточки товара на момент действия пользователя.
type Product struct {
	ID            string  `json:"id" validate:"required"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug,omitempty"`
	ImageURL      string  `json:"image_url,omitempty"`
	Price         Money   `json:"price" validate:"gte=0"`
	OriginalPrice Money   `json:"original_price,omitempty"`
	SellerID      string  `json:"seller_id,omitempty"`
	Category      string  `json:"category,omitempty"`
	Rating        float64 `json:"rating,omitempty"`
	InStock       bool    `json:"in_stock"`
}
