// Package pricing is the pure computation core of the storefront: it turns
// catalog read models, cart quantities and an optional coupon into remaining
// stock figures and order totals. It never mutates its inputs, touches no
// store and is deterministic for identical inputs.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/example/storefront/internal/domain/coupon"
	"github.com/example/storefront/internal/readmodel"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrUnknownCouponType = errors.New("unknown coupon discount type")
)

// CartLine is one cart entry joined with the current catalog state of its
// product.
type CartLine struct {
	Product  *readmodel.ProductReadModel
	Quantity int
}

// Totals are the three headline amounts for a cart. They always satisfy
// TotalBeforeDiscount == TotalAfterDiscount + TotalDiscount.
type Totals struct {
	TotalBeforeDiscount int `json:"total_before_discount"`
	TotalAfterDiscount  int `json:"total_after_discount"`
	TotalDiscount       int `json:"total_discount"`
}

// LineTotal is the per-line breakdown displayed alongside each cart entry
type LineTotal struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Subtotal  int     `json:"subtotal"` // price * quantity, before any discount
	Rate      float64 `json:"rate"`     // applied tier rate, 0 when none
}

// RemainingStock returns how many units of the product can still be added
// to the cart: stock minus the quantity already reserved by the cart line
// for this product, or the full stock when the cart has no such line. The
// result may be negative when callers have over-committed; clamping for
// display is the caller's concern.
func RemainingStock(product *readmodel.ProductReadModel, cart *readmodel.CartReadModel) int {
	reserved := 0
	if cart != nil {
		for _, item := range cart.Items {
			if item.ProductID == product.ID {
				reserved = item.Quantity
				break
			}
		}
	}
	return product.Stock - reserved
}

// ApplicableRate resolves the discount rate for a quantity: the maximum
// rate among all tiers whose threshold is met, 0 when none is. Picking the
// maximum rate rather than the largest threshold keeps the result sane when
// tier data is unsorted or non-monotonic, which catalog editing permits.
func ApplicableRate(tiers []readmodel.DiscountTier, quantity int) float64 {
	rate := 0.0
	for _, tier := range tiers {
		if quantity >= tier.Quantity && tier.Rate > rate {
			rate = tier.Rate
		}
	}
	return rate
}

// MaxDiscount returns the maximum rate across all tiers regardless of
// quantity. Informational only ("up to X% off"); not the applied rate.
func MaxDiscount(tiers []readmodel.DiscountTier) float64 {
	max := 0.0
	for _, tier := range tiers {
		if tier.Rate > max {
			max = tier.Rate
		}
	}
	return max
}

// ApplyCoupon computes the post-coupon amount. Amount coupons never push
// the result below zero; an unrecognized discount type is a contract
// violation and fails rather than silently ignoring the coupon.
func ApplyCoupon(c *readmodel.CouponReadModel, amount float64) (float64, error) {
	switch c.DiscountType {
	case coupon.TypePercentage:
		return amount * (1 - float64(c.DiscountValue)/100), nil
	case coupon.TypeAmount:
		result := amount - float64(c.DiscountValue)
		if result < 0 {
			return 0, nil
		}
		return result, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCouponType, c.DiscountType)
	}
}

// ComputeTotals runs the full cart calculation from scratch: per-line tier
// discounts, then the coupon once on the aggregate. It either returns a
// consistent Totals or an error, never a partial result.
func ComputeTotals(lines []CartLine, appliedCoupon *readmodel.CouponReadModel) (Totals, error) {
	if err := validateLines(lines); err != nil {
		return Totals{}, err
	}

	before := 0
	after := 0.0
	for _, line := range lines {
		lineBefore := line.Product.Price * line.Quantity
		rate := ApplicableRate(line.Product.Discounts, line.Quantity)
		before += lineBefore
		after += float64(lineBefore) * (1 - rate)
	}

	if appliedCoupon != nil {
		var err error
		after, err = ApplyCoupon(appliedCoupon, after)
		if err != nil {
			return Totals{}, err
		}
	}
	if after < 0 {
		after = 0
	}

	afterRounded := int(math.Round(after))
	return Totals{
		TotalBeforeDiscount: before,
		TotalAfterDiscount:  afterRounded,
		TotalDiscount:       before - afterRounded,
	}, nil
}

// Breakdown returns the per-line rates and subtotals together with the cart
// totals, the full display payload for the order summary.
func Breakdown(lines []CartLine, appliedCoupon *readmodel.CouponReadModel) ([]LineTotal, Totals, error) {
	totals, err := ComputeTotals(lines, appliedCoupon)
	if err != nil {
		return nil, Totals{}, err
	}

	lineTotals := make([]LineTotal, 0, len(lines))
	for _, line := range lines {
		lineTotals = append(lineTotals, LineTotal{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			Subtotal:  line.Product.Price * line.Quantity,
			Rate:      ApplicableRate(line.Product.Discounts, line.Quantity),
		})
	}
	return lineTotals, totals, nil
}

func validateLines(lines []CartLine) error {
	for _, line := range lines {
		if line.Quantity < 1 {
			return fmt.Errorf("%w: product %s", ErrInvalidQuantity, line.Product.ID)
		}
		for _, tier := range line.Product.Discounts {
			if tier.Quantity < 1 {
				return fmt.Errorf("%w: discount tier on product %s", ErrInvalidQuantity, line.Product.ID)
			}
		}
	}
	return nil
}
