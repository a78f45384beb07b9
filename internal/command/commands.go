package command

// Product Commands
type CreateProduct struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
	Stock int    `json:"stock"`
}

type UpdateProductName struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
}

type UpdateProductPrice struct {
	ProductID string `json:"product_id"`
	Price     int    `json:"price"`
}

type UpdateProductStock struct {
	ProductID string `json:"product_id"`
	Stock     int    `json:"stock"`
}

type AddDiscountTier struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Rate      float64 `json:"rate"`
}

type RemoveDiscountTier struct {
	ProductID string `json:"product_id"`
	Index     int    `json:"index"`
}

type DeleteProduct struct {
	ProductID string `json:"product_id"`
}

// Coupon Commands
type CreateCoupon struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	DiscountType  string `json:"discount_type"`
	DiscountValue int    `json:"discount_value"`
}

// Cart Commands
type AddToCart struct {
	Session   string `json:"session"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type SetCartQuantity struct {
	Session   string `json:"session"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type RemoveFromCart struct {
	Session   string `json:"session"`
	ProductID string `json:"product_id"`
}

type ApplyCoupon struct {
	Session string `json:"session"`
	Code    string `json:"code"`
}

type RemoveCoupon struct {
	Session string `json:"session"`
}

type ClearCart struct {
	Session string `json:"session"`
}
