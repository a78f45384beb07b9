package command

import (
	"context"
	"errors"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/coupon"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/pricing"
	"github.com/example/storefront/internal/readmodel"
)

var (
	ErrOutOfStock          = errors.New("not enough stock remaining")
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrDuplicateCouponCode = errors.New("coupon code already exists")
)

type Handler struct {
	productSvc *product.Service
	couponSvc  *coupon.Service
	cartSvc    *cart.Service
	readStore  store.ReadStoreInterface
}

func NewHandler(
	productSvc *product.Service,
	couponSvc *coupon.Service,
	cartSvc *cart.Service,
	readStore store.ReadStoreInterface,
) *Handler {
	return &Handler{
		productSvc: productSvc,
		couponSvc:  couponSvc,
		cartSvc:    cartSvc,
		readStore:  readStore,
	}
}

// Product commands

func (h *Handler) CreateProduct(ctx context.Context, cmd CreateProduct) (*product.Product, error) {
	return h.productSvc.Create(ctx, cmd.Name, cmd.Price, cmd.Stock)
}

func (h *Handler) UpdateProductName(ctx context.Context, cmd UpdateProductName) error {
	return h.productSvc.UpdateName(ctx, cmd.ProductID, cmd.Name)
}

func (h *Handler) UpdateProductPrice(ctx context.Context, cmd UpdateProductPrice) error {
	return h.productSvc.UpdatePrice(ctx, cmd.ProductID, cmd.Price)
}

func (h *Handler) UpdateProductStock(ctx context.Context, cmd UpdateProductStock) error {
	return h.productSvc.UpdateStock(ctx, cmd.ProductID, cmd.Stock)
}

func (h *Handler) AddDiscountTier(ctx context.Context, cmd AddDiscountTier) error {
	return h.productSvc.AddDiscountTier(ctx, cmd.ProductID, product.DiscountTier{
		Quantity: cmd.Quantity,
		Rate:     cmd.Rate,
	})
}

func (h *Handler) RemoveDiscountTier(ctx context.Context, cmd RemoveDiscountTier) error {
	return h.productSvc.RemoveDiscountTier(ctx, cmd.ProductID, cmd.Index)
}

func (h *Handler) DeleteProduct(ctx context.Context, cmd DeleteProduct) error {
	return h.productSvc.Delete(ctx, cmd.ProductID)
}

// Coupon commands

func (h *Handler) CreateCoupon(ctx context.Context, cmd CreateCoupon) (*coupon.Coupon, error) {
	// The code is the coupon's unique key
	if _, ok := h.readStore.Get("coupons", cmd.Code); ok {
		return nil, ErrDuplicateCouponCode
	}
	return h.couponSvc.Create(ctx, cmd.Name, cmd.Code, cmd.DiscountType, cmd.DiscountValue)
}

// Cart commands

// AddToCart reserves quantity units of a product. The boundary rule from the
// pricing engine applies here: adding is rejected once remaining stock is
// exhausted; the engine itself only reports the number.
func (h *Handler) AddToCart(ctx context.Context, cmd AddToCart) error {
	p, err := h.getProduct(cmd.ProductID)
	if err != nil {
		return err
	}

	remaining := pricing.RemainingStock(p, h.getCart(cmd.Session))
	if remaining <= 0 || cmd.Quantity > remaining {
		return ErrOutOfStock
	}

	return h.cartSvc.AddItem(ctx, cmd.Session, cmd.ProductID, cmd.Quantity)
}

// SetCartQuantity sets the absolute quantity of a cart line; zero removes it
func (h *Handler) SetCartQuantity(ctx context.Context, cmd SetCartQuantity) error {
	p, err := h.getProduct(cmd.ProductID)
	if err != nil {
		return err
	}

	if cmd.Quantity > p.Stock {
		return ErrOutOfStock
	}

	return h.cartSvc.SetItemQuantity(ctx, cmd.Session, cmd.ProductID, cmd.Quantity)
}

func (h *Handler) RemoveFromCart(ctx context.Context, cmd RemoveFromCart) error {
	return h.cartSvc.RemoveItem(ctx, cmd.Session, cmd.ProductID)
}

// ApplyCoupon selects a coupon for the cart. Unknown codes are rejected so
// a mistyped code never silently prices as "no coupon".
func (h *Handler) ApplyCoupon(ctx context.Context, cmd ApplyCoupon) error {
	if _, ok := h.readStore.Get("coupons", cmd.Code); !ok {
		return ErrCouponNotFound
	}
	return h.cartSvc.ApplyCoupon(ctx, cmd.Session, cmd.Code)
}

func (h *Handler) RemoveCoupon(ctx context.Context, cmd RemoveCoupon) error {
	return h.cartSvc.RemoveCoupon(ctx, cmd.Session)
}

func (h *Handler) ClearCart(ctx context.Context, cmd ClearCart) error {
	return h.cartSvc.Clear(ctx, cmd.Session)
}

func (h *Handler) getProduct(productID string) (*readmodel.ProductReadModel, error) {
	p, ok := h.readStore.Get("products", productID)
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return p.(*readmodel.ProductReadModel), nil
}

func (h *Handler) getCart(session string) *readmodel.CartReadModel {
	c, ok := h.readStore.Get("carts", cart.GetCartID(session))
	if !ok {
		return nil
	}
	return c.(*readmodel.CartReadModel)
}
