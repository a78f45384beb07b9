package coupon

import "time"

const (
	EventCouponCreated = "CouponCreated"
)

type CouponCreated struct {
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue int       `json:"discount_value"`
	CreatedAt     time.Time `json:"created_at"`
}
