package product

import "time"

const (
	EventProductCreated      = "ProductCreated"
	EventProductNameChanged  = "ProductNameChanged"
	EventProductPriceChanged = "ProductPriceChanged"
	EventProductStockChanged = "ProductStockChanged"
	EventDiscountTierAdded   = "DiscountTierAdded"
	EventDiscountTierRemoved = "DiscountTierRemoved"
	EventProductDeleted      = "ProductDeleted"
)

type ProductCreated struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     int       `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductNameChanged struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	ChangedAt time.Time `json:"changed_at"`
}

type ProductPriceChanged struct {
	ProductID string    `json:"product_id"`
	Price     int       `json:"price"`
	ChangedAt time.Time `json:"changed_at"`
}

type ProductStockChanged struct {
	ProductID string    `json:"product_id"`
	Stock     int       `json:"stock"`
	ChangedAt time.Time `json:"changed_at"`
}

// DiscountTierAdded is emitted when a discount tier is appended to a product.
// Tiers are appended in insertion order; the order carries no pricing meaning.
type DiscountTierAdded struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Rate      float64   `json:"rate"`
	AddedAt   time.Time `json:"added_at"`
}

// DiscountTierRemoved is emitted when the tier at Index is removed
type DiscountTierRemoved struct {
	ProductID string    `json:"product_id"`
	Index     int       `json:"index"`
	RemovedAt time.Time `json:"removed_at"`
}

type ProductDeleted struct {
	ProductID string    `json:"product_id"`
	DeletedAt time.Time `json:"deleted_at"`
}
