package readmodel

import "time"

// DiscountTier is a bulk-purchase discount threshold: buying at least
// Quantity units applies Rate to the whole line.
type DiscountTier struct {
	Quantity int     `json:"quantity"`
	Rate     float64 `json:"rate"`
}

// ProductReadModel is the read model for products
type ProductReadModel struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Price     int            `json:"price"`
	Stock     int            `json:"stock"`
	Discounts []DiscountTier `json:"discounts"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CouponReadModel is the read model for coupons
type CouponReadModel struct {
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue int       `json:"discount_value"`
	CreatedAt     time.Time `json:"created_at"`
}

// CartItemReadModel represents an item in the cart
type CartItemReadModel struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartReadModel is the read model for shopping carts. Items keep insertion
// order and are unique by product ID.
type CartReadModel struct {
	ID         string              `json:"id"`
	Session    string              `json:"session"`
	Items      []CartItemReadModel `json:"items"`
	CouponCode string              `json:"coupon_code,omitempty"`
}
