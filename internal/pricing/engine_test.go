package pricing

import (
	"testing"

	"github.com/example/storefront/internal/domain/coupon"
	"github.com/example/storefront/internal/readmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id string, price, stock int, tiers ...readmodel.DiscountTier) *readmodel.ProductReadModel {
	return &readmodel.ProductReadModel{
		ID:        id,
		Name:      "product " + id,
		Price:     price,
		Stock:     stock,
		Discounts: tiers,
	}
}

// ============================================
// RemainingStock Tests
// ============================================

func TestRemainingStock(t *testing.T) {
	product := testProduct("p1", 1000, 20)

	tests := []struct {
		name     string
		cart     *readmodel.CartReadModel
		expected int
	}{
		{"nil cart", nil, 20},
		{"empty cart", &readmodel.CartReadModel{}, 20},
		{
			"product not in cart",
			&readmodel.CartReadModel{Items: []readmodel.CartItemReadModel{
				{ProductID: "p2", Quantity: 5},
			}},
			20,
		},
		{
			"product partially reserved",
			&readmodel.CartReadModel{Items: []readmodel.CartItemReadModel{
				{ProductID: "p1", Quantity: 7},
			}},
			13,
		},
		{
			"product fully reserved",
			&readmodel.CartReadModel{Items: []readmodel.CartItemReadModel{
				{ProductID: "p1", Quantity: 20},
			}},
			0,
		},
		{
			"over-committed cart is not clamped",
			&readmodel.CartReadModel{Items: []readmodel.CartItemReadModel{
				{ProductID: "p1", Quantity: 25},
			}},
			-5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RemainingStock(product, tt.cart))
		})
	}
}

// ============================================
// ApplicableRate Tests
// ============================================

func TestApplicableRate(t *testing.T) {
	tests := []struct {
		name     string
		tiers    []readmodel.DiscountTier
		quantity int
		expected float64
	}{
		{"no tiers", nil, 10, 0},
		{"below every threshold", []readmodel.DiscountTier{{Quantity: 10, Rate: 0.1}}, 9, 0},
		{"exactly at threshold", []readmodel.DiscountTier{{Quantity: 10, Rate: 0.1}}, 10, 0.1},
		{
			"unsorted tiers resolve to max eligible rate",
			[]readmodel.DiscountTier{{Quantity: 10, Rate: 0.1}, {Quantity: 5, Rate: 0.05}},
			10,
			0.1,
		},
		{
			"only lower tier eligible",
			[]readmodel.DiscountTier{{Quantity: 10, Rate: 0.1}, {Quantity: 5, Rate: 0.05}},
			7,
			0.05,
		},
		{
			"non-monotonic tiers pick max rate, not nearest threshold",
			[]readmodel.DiscountTier{{Quantity: 5, Rate: 0.2}, {Quantity: 10, Rate: 0.1}},
			12,
			0.2,
		},
		{
			"duplicate thresholds tolerated",
			[]readmodel.DiscountTier{{Quantity: 5, Rate: 0.1}, {Quantity: 5, Rate: 0.15}},
			5,
			0.15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ApplicableRate(tt.tiers, tt.quantity))
		})
	}
}

func TestMaxDiscount(t *testing.T) {
	tiers := []readmodel.DiscountTier{
		{Quantity: 10, Rate: 0.1},
		{Quantity: 20, Rate: 0.25},
		{Quantity: 5, Rate: 0.05},
	}

	assert.Equal(t, 0.25, MaxDiscount(tiers))
	assert.Equal(t, 0.0, MaxDiscount(nil))

	// MaxDiscount ignores quantity thresholds entirely, ApplicableRate does not
	assert.Equal(t, 0.1, ApplicableRate(tiers, 10))
}

// ============================================
// ApplyCoupon Tests
// ============================================

func TestApplyCoupon_Percentage(t *testing.T) {
	c := &readmodel.CouponReadModel{Code: "PERCENT10", DiscountType: coupon.TypePercentage, DiscountValue: 10}

	result, err := ApplyCoupon(c, 9000)

	require.NoError(t, err)
	assert.Equal(t, 8100.0, result)
}

func TestApplyCoupon_Amount(t *testing.T) {
	c := &readmodel.CouponReadModel{Code: "AMOUNT5000", DiscountType: coupon.TypeAmount, DiscountValue: 5000}

	result, err := ApplyCoupon(c, 12000)

	require.NoError(t, err)
	assert.Equal(t, 7000.0, result)
}

func TestApplyCoupon_AmountClampedAtZero(t *testing.T) {
	c := &readmodel.CouponReadModel{Code: "AMOUNT1000", DiscountType: coupon.TypeAmount, DiscountValue: 1000}

	result, err := ApplyCoupon(c, 500)

	require.NoError(t, err)
	assert.Equal(t, 0.0, result)
}

func TestApplyCoupon_ZeroValueLeavesAmountUnchanged(t *testing.T) {
	tests := []struct {
		name string
		c    *readmodel.CouponReadModel
	}{
		{"zero percentage", &readmodel.CouponReadModel{DiscountType: coupon.TypePercentage, DiscountValue: 0}},
		{"zero amount", &readmodel.CouponReadModel{DiscountType: coupon.TypeAmount, DiscountValue: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ApplyCoupon(tt.c, 4000)
			require.NoError(t, err)
			assert.Equal(t, 4000.0, result)
		})
	}
}

func TestApplyCoupon_UnknownTypeFailsFast(t *testing.T) {
	c := &readmodel.CouponReadModel{Code: "BROKEN", DiscountType: "bogus", DiscountValue: 10}

	_, err := ApplyCoupon(c, 1000)

	assert.ErrorIs(t, err, ErrUnknownCouponType)
}

// ============================================
// ComputeTotals Tests
// ============================================

func TestComputeTotals_TierDiscountScenario(t *testing.T) {
	// price 1000, tiers [{10, 0.1}, {5, 0.05}], quantity 10 -> rate 0.1, line total 9000
	p := testProduct("p1", 1000, 20,
		readmodel.DiscountTier{Quantity: 10, Rate: 0.1},
		readmodel.DiscountTier{Quantity: 5, Rate: 0.05},
	)
	lines := []CartLine{{Product: p, Quantity: 10}}

	totals, err := ComputeTotals(lines, nil)

	require.NoError(t, err)
	assert.Equal(t, 10000, totals.TotalBeforeDiscount)
	assert.Equal(t, 9000, totals.TotalAfterDiscount)
	assert.Equal(t, 1000, totals.TotalDiscount)
}

func TestComputeTotals_NoDiscountsNoCoupon(t *testing.T) {
	lines := []CartLine{
		{Product: testProduct("p1", 1000, 10), Quantity: 2},
		{Product: testProduct("p2", 2000, 10), Quantity: 1},
	}

	totals, err := ComputeTotals(lines, nil)

	require.NoError(t, err)
	assert.Equal(t, 4000, totals.TotalBeforeDiscount)
	assert.Equal(t, 4000, totals.TotalAfterDiscount)
	assert.Equal(t, 0, totals.TotalDiscount)
}

func TestComputeTotals_PercentageCouponOnDiscountedSubtotal(t *testing.T) {
	// subtotal after line discounts = 9000, 10% coupon -> 8100
	p := testProduct("p1", 1000, 20, readmodel.DiscountTier{Quantity: 10, Rate: 0.1})
	lines := []CartLine{{Product: p, Quantity: 10}}
	c := &readmodel.CouponReadModel{Code: "PERCENT10", DiscountType: coupon.TypePercentage, DiscountValue: 10}

	totals, err := ComputeTotals(lines, c)

	require.NoError(t, err)
	assert.Equal(t, 10000, totals.TotalBeforeDiscount)
	assert.Equal(t, 8100, totals.TotalAfterDiscount)
	assert.Equal(t, 1900, totals.TotalDiscount)
}

func TestComputeTotals_OversizedAmountCoupon(t *testing.T) {
	lines := []CartLine{{Product: testProduct("p1", 500, 10), Quantity: 1}}
	c := &readmodel.CouponReadModel{Code: "AMOUNT1000", DiscountType: coupon.TypeAmount, DiscountValue: 1000}

	totals, err := ComputeTotals(lines, c)

	require.NoError(t, err)
	assert.Equal(t, 500, totals.TotalBeforeDiscount)
	assert.Equal(t, 0, totals.TotalAfterDiscount)
	assert.Equal(t, 500, totals.TotalDiscount)
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	totals, err := ComputeTotals(nil, nil)

	require.NoError(t, err)
	assert.Equal(t, Totals{}, totals)
}

func TestComputeTotals_InvalidLineQuantity(t *testing.T) {
	lines := []CartLine{{Product: testProduct("p1", 1000, 10), Quantity: 0}}

	_, err := ComputeTotals(lines, nil)

	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestComputeTotals_InvalidTierQuantity(t *testing.T) {
	p := testProduct("p1", 1000, 10, readmodel.DiscountTier{Quantity: 0, Rate: 0.1})
	lines := []CartLine{{Product: p, Quantity: 2}}

	_, err := ComputeTotals(lines, nil)

	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestComputeTotals_UnknownCouponTypeProducesNoPartialResult(t *testing.T) {
	lines := []CartLine{{Product: testProduct("p1", 1000, 10), Quantity: 1}}
	c := &readmodel.CouponReadModel{Code: "BROKEN", DiscountType: "mystery", DiscountValue: 5}

	totals, err := ComputeTotals(lines, c)

	assert.ErrorIs(t, err, ErrUnknownCouponType)
	assert.Equal(t, Totals{}, totals)
}

func TestComputeTotals_InvariantHolds(t *testing.T) {
	p1 := testProduct("p1", 1234, 50,
		readmodel.DiscountTier{Quantity: 3, Rate: 0.07},
		readmodel.DiscountTier{Quantity: 7, Rate: 0.13},
	)
	p2 := testProduct("p2", 999, 50)
	coupons := []*readmodel.CouponReadModel{
		nil,
		{Code: "P23", DiscountType: coupon.TypePercentage, DiscountValue: 23},
		{Code: "A777", DiscountType: coupon.TypeAmount, DiscountValue: 777},
		{Code: "A999999", DiscountType: coupon.TypeAmount, DiscountValue: 999999},
	}

	for _, c := range coupons {
		for _, qty := range []int{1, 3, 7, 11} {
			lines := []CartLine{{Product: p1, Quantity: qty}, {Product: p2, Quantity: qty}}
			totals, err := ComputeTotals(lines, c)
			require.NoError(t, err)

			assert.Equal(t, totals.TotalBeforeDiscount, totals.TotalAfterDiscount+totals.TotalDiscount)
			assert.LessOrEqual(t, totals.TotalAfterDiscount, totals.TotalBeforeDiscount)
			assert.GreaterOrEqual(t, totals.TotalAfterDiscount, 0)
		}
	}
}

func TestComputeTotals_Idempotent(t *testing.T) {
	p := testProduct("p1", 1000, 20, readmodel.DiscountTier{Quantity: 10, Rate: 0.1})
	lines := []CartLine{{Product: p, Quantity: 10}}
	c := &readmodel.CouponReadModel{Code: "PERCENT10", DiscountType: coupon.TypePercentage, DiscountValue: 10}

	first, err := ComputeTotals(lines, c)
	require.NoError(t, err)
	second, err := ComputeTotals(lines, c)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeTotals_DoesNotMutateInputs(t *testing.T) {
	p := testProduct("p1", 1000, 20, readmodel.DiscountTier{Quantity: 10, Rate: 0.1})
	lines := []CartLine{{Product: p, Quantity: 10}}

	_, err := ComputeTotals(lines, nil)

	require.NoError(t, err)
	assert.Equal(t, 1000, p.Price)
	assert.Equal(t, 20, p.Stock)
	assert.Equal(t, []readmodel.DiscountTier{{Quantity: 10, Rate: 0.1}}, p.Discounts)
	assert.Equal(t, 10, lines[0].Quantity)
}

// ============================================
// Breakdown Tests
// ============================================

func TestBreakdown(t *testing.T) {
	p1 := testProduct("p1", 1000, 20, readmodel.DiscountTier{Quantity: 10, Rate: 0.1})
	p2 := testProduct("p2", 2000, 20)
	lines := []CartLine{
		{Product: p1, Quantity: 10},
		{Product: p2, Quantity: 1},
	}

	lineTotals, totals, err := Breakdown(lines, nil)

	require.NoError(t, err)
	require.Len(t, lineTotals, 2)
	assert.Equal(t, LineTotal{ProductID: "p1", Quantity: 10, Subtotal: 10000, Rate: 0.1}, lineTotals[0])
	assert.Equal(t, LineTotal{ProductID: "p2", Quantity: 1, Subtotal: 2000, Rate: 0.0}, lineTotals[1])
	assert.Equal(t, 12000, totals.TotalBeforeDiscount)
	assert.Equal(t, 11000, totals.TotalAfterDiscount)
}

func TestBreakdown_ErrorProducesNoLines(t *testing.T) {
	lines := []CartLine{{Product: testProduct("p1", 1000, 10), Quantity: -1}}

	lineTotals, _, err := Breakdown(lines, nil)

	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Nil(t, lineTotals)
}
