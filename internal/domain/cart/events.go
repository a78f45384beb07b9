package cart

import "time"

const (
	EventItemAdded           = "ItemAddedToCart"
	EventItemQuantityChanged = "CartItemQuantityChanged"
	EventItemRemoved         = "ItemRemovedFromCart"
	EventCouponApplied       = "CouponAppliedToCart"
	EventCouponRemoved       = "CouponRemovedFromCart"
	EventCartCleared         = "CartCleared"
)

type ItemAddedToCart struct {
	CartID    string    `json:"cart_id"`
	Session   string    `json:"session"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// CartItemQuantityChanged sets the absolute quantity of a line
type CartItemQuantityChanged struct {
	CartID    string    `json:"cart_id"`
	Session   string    `json:"session"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	ChangedAt time.Time `json:"changed_at"`
}

type ItemRemovedFromCart struct {
	CartID    string    `json:"cart_id"`
	Session   string    `json:"session"`
	ProductID string    `json:"product_id"`
	RemovedAt time.Time `json:"removed_at"`
}

// CouponAppliedToCart replaces any previously applied coupon; a cart holds
// at most one.
type CouponAppliedToCart struct {
	CartID    string    `json:"cart_id"`
	Session   string    `json:"session"`
	Code      string    `json:"code"`
	AppliedAt time.Time `json:"applied_at"`
}

type CouponRemovedFromCart struct {
	CartID    string    `json:"cart_id"`
	Session   string    `json:"session"`
	RemovedAt time.Time `json:"removed_at"`
}

type CartCleared struct {
	CartID    string    `json:"cart_id"`
	Session   string    `json:"session"`
	ClearedAt time.Time `json:"cleared_at"`
}
