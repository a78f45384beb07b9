package query

import (
	"github.com/example/storefront/internal/pricing"
	"github.com/example/storefront/internal/readmodel"
)

// ProductView is a product enriched with the figures the shop page shows
// next to it: how many units the session can still add, and the best rate
// any tier offers ("up to X% off").
type ProductView struct {
	*readmodel.ProductReadModel
	RemainingStock  int     `json:"remaining_stock"`
	MaxDiscountRate float64 `json:"max_discount_rate"`
}

// CartLineView is one priced cart line
type CartLineView struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     int     `json:"price"`
	Quantity  int     `json:"quantity"`
	Rate      float64 `json:"rate"`
	Subtotal  int     `json:"subtotal"`
}

// CartView is the full order summary: lines, the applied coupon and the
// three headline totals, recomputed from scratch on every query.
type CartView struct {
	ID      string                     `json:"id"`
	Session string                     `json:"session"`
	Lines   []CartLineView             `json:"lines"`
	Coupon  *readmodel.CouponReadModel `json:"coupon,omitempty"`
	Totals  pricing.Totals             `json:"totals"`
}
