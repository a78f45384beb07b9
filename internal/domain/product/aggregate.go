package product

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/example/storefront/internal/domain/aggregate"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "Product"

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrInvalidName         = errors.New("name is required")
	ErrInvalidPrice        = errors.New("price must be non-negative")
	ErrInvalidStock        = errors.New("stock must be non-negative")
	ErrInvalidTierQuantity = errors.New("discount tier quantity must be at least 1")
	ErrInvalidTierRate     = errors.New("discount tier rate must be between 0 and 1")
	ErrTierIndexOutOfRange = errors.New("discount tier index out of range")
)

// DiscountTier is a (quantity threshold, rate) pair. A cart line qualifies
// for the tier when its quantity is at least Quantity.
type DiscountTier struct {
	Quantity int     `json:"quantity"`
	Rate     float64 `json:"rate"`
}

type Product struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Price     int            `json:"price"`
	Stock     int            `json:"stock"`
	Discounts []DiscountTier `json:"discounts"`
	Version   int            `json:"version"`
}

func (p *Product) GetID() string    { return p.ID }
func (p *Product) GetVersion() int  { return p.Version }
func (p *Product) SetVersion(v int) { p.Version = v }

// ApplyEvent applies a single event to the product state
func (p *Product) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventProductCreated:
		var data ProductCreated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.ID = data.ProductID
		p.Name = data.Name
		p.Price = data.Price
		p.Stock = data.Stock
	case EventProductNameChanged:
		var data ProductNameChanged
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.Name = data.Name
	case EventProductPriceChanged:
		var data ProductPriceChanged
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.Price = data.Price
	case EventProductStockChanged:
		var data ProductStockChanged
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.Stock = data.Stock
	case EventDiscountTierAdded:
		var data DiscountTierAdded
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.Discounts = append(p.Discounts, DiscountTier{Quantity: data.Quantity, Rate: data.Rate})
	case EventDiscountTierRemoved:
		var data DiscountTierRemoved
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if data.Index >= 0 && data.Index < len(p.Discounts) {
			p.Discounts = append(p.Discounts[:data.Index], p.Discounts[data.Index+1:]...)
		}
	}
	p.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

func (s *Service) load(ctx context.Context, productID string) (*Product, bool, error) {
	return aggregate.Load(ctx, s.eventStore, productID, func() *Product { return &Product{} })
}

// Create registers a new product and assigns it a fresh unique ID
func (s *Service) Create(ctx context.Context, name string, price, stock int) (*Product, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	productID := uuid.New().String()
	now := time.Now()

	event := ProductCreated{
		ProductID: productID,
		Name:      name,
		Price:     price,
		Stock:     stock,
		CreatedAt: now,
	}

	stored, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductCreated, event)
	if err != nil {
		return nil, err
	}

	p := &Product{
		ID:    productID,
		Name:  name,
		Price: price,
		Stock: stock,
	}
	if stored != nil {
		p.Version = stored.Version
	}
	return p, nil
}

// UpdateName renames a product. Invalid input is rejected and the stored
// name stays untouched.
func (s *Service) UpdateName(ctx context.Context, productID, name string) error {
	if name == "" {
		return ErrInvalidName
	}
	return s.append(ctx, productID, EventProductNameChanged, ProductNameChanged{
		ProductID: productID,
		Name:      name,
		ChangedAt: time.Now(),
	})
}

func (s *Service) UpdatePrice(ctx context.Context, productID string, price int) error {
	if price < 0 {
		return ErrInvalidPrice
	}
	return s.append(ctx, productID, EventProductPriceChanged, ProductPriceChanged{
		ProductID: productID,
		Price:     price,
		ChangedAt: time.Now(),
	})
}

func (s *Service) UpdateStock(ctx context.Context, productID string, stock int) error {
	if stock < 0 {
		return ErrInvalidStock
	}
	return s.append(ctx, productID, EventProductStockChanged, ProductStockChanged{
		ProductID: productID,
		Stock:     stock,
		ChangedAt: time.Now(),
	})
}

// AddDiscountTier appends a tier to the product's discount sequence. The
// tier itself is validated; duplicate quantity thresholds and ordering are
// deliberately not enforced here, the pricing engine tolerates both.
func (s *Service) AddDiscountTier(ctx context.Context, productID string, tier DiscountTier) error {
	if tier.Quantity < 1 {
		return ErrInvalidTierQuantity
	}
	if tier.Rate < 0 || tier.Rate > 1 {
		return ErrInvalidTierRate
	}
	return s.append(ctx, productID, EventDiscountTierAdded, DiscountTierAdded{
		ProductID: productID,
		Quantity:  tier.Quantity,
		Rate:      tier.Rate,
		AddedAt:   time.Now(),
	})
}

// RemoveDiscountTier removes the tier at the given insertion-order index
func (s *Service) RemoveDiscountTier(ctx context.Context, productID string, index int) error {
	p, found, err := s.load(ctx, productID)
	if err != nil {
		return err
	}
	if !found {
		return ErrProductNotFound
	}
	if index < 0 || index >= len(p.Discounts) {
		return ErrTierIndexOutOfRange
	}
	return s.append(ctx, productID, EventDiscountTierRemoved, DiscountTierRemoved{
		ProductID: productID,
		Index:     index,
		RemovedAt: time.Now(),
	})
}

func (s *Service) Delete(ctx context.Context, productID string) error {
	return s.append(ctx, productID, EventProductDeleted, ProductDeleted{
		ProductID: productID,
		DeletedAt: time.Now(),
	})
}

// append verifies the product exists, stores the event and snapshots when due
func (s *Service) append(ctx context.Context, productID, eventType string, data any) error {
	p, found, err := s.load(ctx, productID)
	if err != nil {
		return err
	}
	if !found {
		return ErrProductNotFound
	}

	stored, err := s.eventStore.Append(ctx, productID, AggregateType, eventType, data)
	if err != nil {
		return err
	}

	if stored != nil {
		if err := p.ApplyEvent(*stored); err != nil {
			return err
		}
	}
	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, p, AggregateType); err != nil {
		log.Printf("[Product] Failed to create snapshot for %s: %v", productID, err)
	}
	return nil
}
