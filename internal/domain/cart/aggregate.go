package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/example/storefront/internal/domain/aggregate"
	"github.com/example/storefront/internal/infrastructure/store"
)

const AggregateType = "Cart"

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidProduct  = errors.New("product_id is required")
	ErrInvalidCoupon   = errors.New("coupon code is required")
)

// CartItem is one line of the cart: a product reference and how many units
// of it are reserved.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart holds the items of one shopping session in insertion order, unique
// by product ID, plus the applied coupon code if any.
type Cart struct {
	ID         string     `json:"id"`
	Session    string     `json:"session"`
	Items      []CartItem `json:"items"`
	CouponCode string     `json:"coupon_code,omitempty"`
	Version    int        `json:"version"`
}

func (c *Cart) GetID() string    { return c.ID }
func (c *Cart) GetVersion() int  { return c.Version }
func (c *Cart) SetVersion(v int) { c.Version = v }

// GetCartID returns the cart ID for a session (one cart per session)
func GetCartID(session string) string {
	return "cart-" + session
}

func (c *Cart) itemIndex(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// ApplyEvent applies a single event to the cart state
func (c *Cart) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventItemAdded:
		var data ItemAddedToCart
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.ID = data.CartID
		c.Session = data.Session
		if i := c.itemIndex(data.ProductID); i >= 0 {
			c.Items[i].Quantity += data.Quantity
		} else {
			c.Items = append(c.Items, CartItem{ProductID: data.ProductID, Quantity: data.Quantity})
		}
	case EventItemQuantityChanged:
		var data CartItemQuantityChanged
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if i := c.itemIndex(data.ProductID); i >= 0 {
			c.Items[i].Quantity = data.Quantity
		}
	case EventItemRemoved:
		var data ItemRemovedFromCart
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if i := c.itemIndex(data.ProductID); i >= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		}
	case EventCouponApplied:
		var data CouponAppliedToCart
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.CouponCode = data.Code
	case EventCouponRemoved:
		var data CouponRemovedFromCart
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.CouponCode = ""
	case EventCartCleared:
		var data CartCleared
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.Items = nil
		c.CouponCode = ""
	}
	c.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

func (s *Service) loadCart(ctx context.Context, session string) (*Cart, error) {
	cartID := GetCartID(session)
	c, found, err := aggregate.Load(ctx, s.eventStore, cartID, func() *Cart { return &Cart{} })
	if err != nil {
		return nil, err
	}
	if !found {
		return &Cart{ID: cartID, Session: session}, nil
	}
	return c, nil
}

// AddItem adds quantity units of a product to the session's cart, merging
// with an existing line. Stock availability is enforced by the command
// layer, not here.
func (s *Service) AddItem(ctx context.Context, session, productID string, quantity int) error {
	if productID == "" {
		return ErrInvalidProduct
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	return s.append(ctx, session, EventItemAdded, ItemAddedToCart{
		CartID:    GetCartID(session),
		Session:   session,
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	})
}

// SetItemQuantity sets the absolute quantity of a line. Zero removes the
// line; negative quantities are rejected.
func (s *Service) SetItemQuantity(ctx context.Context, session, productID string, quantity int) error {
	if productID == "" {
		return ErrInvalidProduct
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, session, productID)
	}

	return s.append(ctx, session, EventItemQuantityChanged, CartItemQuantityChanged{
		CartID:    GetCartID(session),
		Session:   session,
		ProductID: productID,
		Quantity:  quantity,
		ChangedAt: time.Now(),
	})
}

func (s *Service) RemoveItem(ctx context.Context, session, productID string) error {
	if productID == "" {
		return ErrInvalidProduct
	}

	return s.append(ctx, session, EventItemRemoved, ItemRemovedFromCart{
		CartID:    GetCartID(session),
		Session:   session,
		ProductID: productID,
		RemovedAt: time.Now(),
	})
}

// ApplyCoupon selects the coupon for the session's cart, replacing any
// previous selection. Code existence is checked by the command layer.
func (s *Service) ApplyCoupon(ctx context.Context, session, code string) error {
	if code == "" {
		return ErrInvalidCoupon
	}

	return s.append(ctx, session, EventCouponApplied, CouponAppliedToCart{
		CartID:    GetCartID(session),
		Session:   session,
		Code:      code,
		AppliedAt: time.Now(),
	})
}

func (s *Service) RemoveCoupon(ctx context.Context, session string) error {
	return s.append(ctx, session, EventCouponRemoved, CouponRemovedFromCart{
		CartID:    GetCartID(session),
		Session:   session,
		RemovedAt: time.Now(),
	})
}

func (s *Service) Clear(ctx context.Context, session string) error {
	return s.append(ctx, session, EventCartCleared, CartCleared{
		CartID:    GetCartID(session),
		Session:   session,
		ClearedAt: time.Now(),
	})
}

func (s *Service) append(ctx context.Context, session, eventType string, data any) error {
	c, err := s.loadCart(ctx, session)
	if err != nil {
		c = &Cart{ID: GetCartID(session), Session: session}
	}

	stored, err := s.eventStore.Append(ctx, c.ID, AggregateType, eventType, data)
	if err != nil {
		return err
	}

	if stored != nil {
		if err := c.ApplyEvent(*stored); err != nil {
			return err
		}
	}
	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, c, AggregateType); err != nil {
		log.Printf("[Cart] Failed to create snapshot for cart %s: %v", c.ID, err)
	}
	return nil
}
