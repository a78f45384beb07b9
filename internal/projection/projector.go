package projection

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/coupon"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/readmodel"
)

// Projector applies domain events to the read store. The same handler is
// registered as a synchronous event store subscriber in-process and as the
// Kafka consumer callback in the standalone projector.
type Projector struct {
	readStore store.ReadStoreInterface
}

func NewProjector(readStore store.ReadStoreInterface) *Projector {
	return &Projector{readStore: readStore}
}

func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}

	switch event.AggregateType {
	case product.AggregateType:
		return p.handleProductEvent(event)
	case coupon.AggregateType:
		return p.handleCouponEvent(event)
	case cart.AggregateType:
		return p.handleCartEvent(event)
	}

	return nil
}

func (p *Projector) handleProductEvent(event store.Event) error {
	switch event.EventType {
	case product.EventProductCreated:
		var e product.ProductCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set("products", e.ProductID, &readmodel.ProductReadModel{
			ID:        e.ProductID,
			Name:      e.Name,
			Price:     e.Price,
			Stock:     e.Stock,
			Discounts: []readmodel.DiscountTier{},
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.CreatedAt,
		})

	case product.EventProductNameChanged:
		var e product.ProductNameChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("products", e.ProductID, func(current any) any {
			prod := current.(*readmodel.ProductReadModel)
			prod.Name = e.Name
			prod.UpdatedAt = e.ChangedAt
			return prod
		})

	case product.EventProductPriceChanged:
		var e product.ProductPriceChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("products", e.ProductID, func(current any) any {
			prod := current.(*readmodel.ProductReadModel)
			prod.Price = e.Price
			prod.UpdatedAt = e.ChangedAt
			return prod
		})

	case product.EventProductStockChanged:
		var e product.ProductStockChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("products", e.ProductID, func(current any) any {
			prod := current.(*readmodel.ProductReadModel)
			prod.Stock = e.Stock
			prod.UpdatedAt = e.ChangedAt
			return prod
		})

	case product.EventDiscountTierAdded:
		var e product.DiscountTierAdded
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("products", e.ProductID, func(current any) any {
			prod := current.(*readmodel.ProductReadModel)
			prod.Discounts = append(prod.Discounts, readmodel.DiscountTier{
				Quantity: e.Quantity,
				Rate:     e.Rate,
			})
			prod.UpdatedAt = e.AddedAt
			return prod
		})

	case product.EventDiscountTierRemoved:
		var e product.DiscountTierRemoved
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("products", e.ProductID, func(current any) any {
			prod := current.(*readmodel.ProductReadModel)
			if e.Index >= 0 && e.Index < len(prod.Discounts) {
				prod.Discounts = append(prod.Discounts[:e.Index], prod.Discounts[e.Index+1:]...)
			}
			prod.UpdatedAt = e.RemovedAt
			return prod
		})

	case product.EventProductDeleted:
		var e product.ProductDeleted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Delete("products", e.ProductID)
	}

	return nil
}

func (p *Projector) handleCouponEvent(event store.Event) error {
	switch event.EventType {
	case coupon.EventCouponCreated:
		var e coupon.CouponCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set("coupons", e.Code, &readmodel.CouponReadModel{
			Name:          e.Name,
			Code:          e.Code,
			DiscountType:  e.DiscountType,
			DiscountValue: e.DiscountValue,
			CreatedAt:     e.CreatedAt,
		})
	}

	return nil
}

func (p *Projector) handleCartEvent(event store.Event) error {
	switch event.EventType {
	case cart.EventItemAdded:
		var e cart.ItemAddedToCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		if _, ok := p.readStore.Get("carts", e.CartID); !ok {
			p.readStore.Set("carts", e.CartID, &readmodel.CartReadModel{
				ID:      e.CartID,
				Session: e.Session,
				Items: []readmodel.CartItemReadModel{
					{ProductID: e.ProductID, Quantity: e.Quantity},
				},
			})
			return nil
		}
		p.readStore.Update("carts", e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			for i, item := range c.Items {
				if item.ProductID == e.ProductID {
					c.Items[i].Quantity += e.Quantity
					return c
				}
			}
			c.Items = append(c.Items, readmodel.CartItemReadModel{
				ProductID: e.ProductID,
				Quantity:  e.Quantity,
			})
			return c
		})

	case cart.EventItemQuantityChanged:
		var e cart.CartItemQuantityChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("carts", e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			for i := range c.Items {
				if c.Items[i].ProductID == e.ProductID {
					c.Items[i].Quantity = e.Quantity
					break
				}
			}
			return c
		})

	case cart.EventItemRemoved:
		var e cart.ItemRemovedFromCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("carts", e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			for i := range c.Items {
				if c.Items[i].ProductID == e.ProductID {
					c.Items = append(c.Items[:i], c.Items[i+1:]...)
					break
				}
			}
			return c
		})

	case cart.EventCouponApplied:
		var e cart.CouponAppliedToCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		if _, ok := p.readStore.Get("carts", e.CartID); !ok {
			p.readStore.Set("carts", e.CartID, &readmodel.CartReadModel{
				ID:         e.CartID,
				Session:    e.Session,
				Items:      []readmodel.CartItemReadModel{},
				CouponCode: e.Code,
			})
			return nil
		}
		p.readStore.Update("carts", e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			c.CouponCode = e.Code
			return c
		})

	case cart.EventCouponRemoved:
		var e cart.CouponRemovedFromCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("carts", e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			c.CouponCode = ""
			return c
		})

	case cart.EventCartCleared:
		var e cart.CartCleared
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("carts", e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			c.Items = []readmodel.CartItemReadModel{}
			c.CouponCode = ""
			return c
		})
	}

	return nil
}

// Replay rebuilds the read models from the full event history
func (p *Projector) Replay(ctx context.Context, events []store.Event) {
	for _, event := range events {
		data, err := event.MarshalJSON()
		if err != nil {
			log.Printf("[Projector] Failed to marshal event %s: %v", event.ID, err)
			continue
		}
		if err := p.HandleEvent(ctx, []byte(event.AggregateID), data); err != nil {
			log.Printf("[Projector] Error replaying event %s: %v", event.ID, err)
		}
	}
}
