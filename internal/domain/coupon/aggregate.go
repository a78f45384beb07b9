package coupon

import (
	"context"
	"errors"
	"time"

	"github.com/example/storefront/internal/infrastructure/store"
)

const AggregateType = "Coupon"

// Discount types form a closed set. Anything else is rejected at creation
// and treated as a contract violation by the pricing engine.
const (
	TypeAmount     = "amount"
	TypePercentage = "percentage"
)

var (
	ErrInvalidName         = errors.New("coupon name is required")
	ErrInvalidCode         = errors.New("coupon code is required")
	ErrUnknownDiscountType = errors.New("discount type must be amount or percentage")
	ErrInvalidAmount       = errors.New("amount discount must be non-negative")
	ErrInvalidPercentage   = errors.New("percentage discount must be between 0 and 100")
)

type Coupon struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	DiscountType  string `json:"discount_type"`
	DiscountValue int    `json:"discount_value"`
}

// GetCouponID returns the aggregate ID for a coupon code. The code is the
// coupon's unique key.
func GetCouponID(code string) string {
	return "coupon-" + code
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Create registers a new coupon. Percentage values are bounded to [0,100],
// amount values to non-negative currency units.
func (s *Service) Create(ctx context.Context, name, code, discountType string, discountValue int) (*Coupon, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if code == "" {
		return nil, ErrInvalidCode
	}
	switch discountType {
	case TypeAmount:
		if discountValue < 0 {
			return nil, ErrInvalidAmount
		}
	case TypePercentage:
		if discountValue < 0 || discountValue > 100 {
			return nil, ErrInvalidPercentage
		}
	default:
		return nil, ErrUnknownDiscountType
	}

	event := CouponCreated{
		Name:          name,
		Code:          code,
		DiscountType:  discountType,
		DiscountValue: discountValue,
		CreatedAt:     time.Now(),
	}

	_, err := s.eventStore.Append(ctx, GetCouponID(code), AggregateType, EventCouponCreated, event)
	if err != nil {
		return nil, err
	}

	return &Coupon{
		Name:          name,
		Code:          code,
		DiscountType:  discountType,
		DiscountValue: discountValue,
	}, nil
}
