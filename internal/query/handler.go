package query

import (
	"log"
	"sort"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/pricing"
	"github.com/example/storefront/internal/readmodel"
)

type Handler struct {
	readStore store.ReadStoreInterface
}

func NewHandler(readStore store.ReadStoreInterface) *Handler {
	return &Handler{readStore: readStore}
}

// Products

func (h *Handler) GetProduct(id, session string) (*ProductView, bool) {
	data, ok := h.readStore.Get("products", id)
	if !ok {
		return nil, false
	}
	p := data.(*readmodel.ProductReadModel)
	return h.productView(p, h.cartModel(session)), true
}

// ListProducts returns all products with their session-relative remaining
// stock, sorted by creation time for a stable shop page.
func (h *Handler) ListProducts(session string) []*ProductView {
	items := h.readStore.GetAll("products")
	c := h.cartModel(session)

	products := make([]*ProductView, 0, len(items))
	for _, item := range items {
		products = append(products, h.productView(item.(*readmodel.ProductReadModel), c))
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID < products[j].ID
		}
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})
	return products
}

// Coupons

func (h *Handler) GetCoupon(code string) (*readmodel.CouponReadModel, bool) {
	data, ok := h.readStore.Get("coupons", code)
	if !ok {
		return nil, false
	}
	return data.(*readmodel.CouponReadModel), true
}

func (h *Handler) ListCoupons() []*readmodel.CouponReadModel {
	items := h.readStore.GetAll("coupons")
	coupons := make([]*readmodel.CouponReadModel, 0, len(items))
	for _, item := range items {
		coupons = append(coupons, item.(*readmodel.CouponReadModel))
	}
	sort.Slice(coupons, func(i, j int) bool {
		if coupons[i].CreatedAt.Equal(coupons[j].CreatedAt) {
			return coupons[i].Code < coupons[j].Code
		}
		return coupons[i].CreatedAt.Before(coupons[j].CreatedAt)
	})
	return coupons
}

// Cart

// GetCart assembles the priced cart view for a session. Lines are joined
// against the current catalog, so tier or price edits show up on the next
// call. Either the whole view computes, or an error is returned.
func (h *Handler) GetCart(session string) (*CartView, error) {
	cartID := cart.GetCartID(session)
	view := &CartView{
		ID:      cartID,
		Session: session,
		Lines:   []CartLineView{},
	}

	c := h.cartModel(session)
	if c == nil {
		return view, nil
	}

	var lines []pricing.CartLine
	for _, item := range c.Items {
		data, ok := h.readStore.Get("products", item.ProductID)
		if !ok {
			// Product was removed from the catalog while in the cart
			log.Printf("[Query] Dropping cart line for missing product %s", item.ProductID)
			continue
		}
		lines = append(lines, pricing.CartLine{
			Product:  data.(*readmodel.ProductReadModel),
			Quantity: item.Quantity,
		})
	}

	if c.CouponCode != "" {
		if applied, ok := h.GetCoupon(c.CouponCode); ok {
			view.Coupon = applied
		}
	}

	lineTotals, totals, err := pricing.Breakdown(lines, view.Coupon)
	if err != nil {
		return nil, err
	}

	for i, lt := range lineTotals {
		view.Lines = append(view.Lines, CartLineView{
			ProductID: lt.ProductID,
			Name:      lines[i].Product.Name,
			Price:     lines[i].Product.Price,
			Quantity:  lt.Quantity,
			Rate:      lt.Rate,
			Subtotal:  lt.Subtotal,
		})
	}
	view.Totals = totals
	return view, nil
}

func (h *Handler) cartModel(session string) *readmodel.CartReadModel {
	data, ok := h.readStore.Get("carts", cart.GetCartID(session))
	if !ok {
		return nil
	}
	return data.(*readmodel.CartReadModel)
}

func (h *Handler) productView(p *readmodel.ProductReadModel, c *readmodel.CartReadModel) *ProductView {
	return &ProductView{
		ProductReadModel: p,
		RemainingStock:   pricing.RemainingStock(p, c),
		MaxDiscountRate:  pricing.MaxDiscount(p.Discounts),
	}
}
