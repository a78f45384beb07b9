package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/example/storefront/internal/command"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/coupon"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/pricing"
	"github.com/example/storefront/internal/query"
)

// DefaultSession is used when the client sends no X-Session-ID header. The
// storefront is single-session by design; the header exists so tests and
// multiple browser tabs can keep separate carts.
const DefaultSession = "default"

// DefaultMaxBodySize limits request bodies to 1MB
const DefaultMaxBodySize = 1 << 20

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
	maxBodySize  int64
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
		maxBodySize:  DefaultMaxBodySize,
	}
}

// WithMaxBodySize overrides the request body size limit. Non-positive values
// keep the default.
func (h *Handlers) WithMaxBodySize(size int64) *Handlers {
	if size > 0 {
		h.maxBodySize = size
	}
	return h
}

// Product Handlers

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateProduct
	if !h.decode(w, r, &cmd) {
		return
	}

	p, err := h.cmdHandler.CreateProduct(r.Context(), cmd)
	if err != nil {
		h.respondError(w, statusForError(err), err)
		return
	}

	h.respondJSON(w, http.StatusCreated, p)
}

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	products := h.queryHandler.ListProducts(getSession(r))
	h.respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.queryHandler.GetProduct(id, getSession(r))
	if !ok {
		h.respondError(w, http.StatusNotFound, product.ErrProductNotFound)
		return
	}
	h.respondJSON(w, http.StatusOK, p)
}

// UpdateProduct applies partial field updates. Each field is validated
// independently; a rejected field leaves the stored value untouched.
func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Name  *string `json:"name"`
		Price *int    `json:"price"`
		Stock *int    `json:"stock"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	if req.Name != nil {
		if err := h.cmdHandler.UpdateProductName(ctx, command.UpdateProductName{ProductID: id, Name: *req.Name}); err != nil {
			h.respondError(w, statusForError(err), err)
			return
		}
	}
	if req.Price != nil {
		if err := h.cmdHandler.UpdateProductPrice(ctx, command.UpdateProductPrice{ProductID: id, Price: *req.Price}); err != nil {
			h.respondError(w, statusForError(err), err)
			return
		}
	}
	if req.Stock != nil {
		if err := h.cmdHandler.UpdateProductStock(ctx, command.UpdateProductStock{ProductID: id, Stock: *req.Stock}); err != nil {
			h.respondError(w, statusForError(err), err)
			return
		}
	}

	p, ok := h.queryHandler.GetProduct(id, getSession(r))
	if !ok {
		h.respondError(w, http.StatusNotFound, product.ErrProductNotFound)
		return
	}
	h.respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.cmdHandler.DeleteProduct(r.Context(), command.DeleteProduct{ProductID: id}); err != nil {
		h.respondError(w, statusForError(err), err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

func (h *Handlers) AddDiscountTier(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var cmd command.AddDiscountTier
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.ProductID = id

	if err := h.cmdHandler.AddDiscountTier(r.Context(), cmd); err != nil {
		h.respondError(w, statusForError(err), err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{"message": "Discount tier added"})
}

func (h *Handlers) RemoveDiscountTier(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, errors.New("index must be an integer"))
		return
	}

	cmd := command.RemoveDiscountTier{ProductID: id, Index: index}
	if err := h.cmdHandler.RemoveDiscountTier(r.Context(), cmd); err != nil {
		h.respondError(w, statusForError(err), err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Discount tier removed"})
}

// Coupon Handlers

func (h *Handlers) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateCoupon
	if !h.decode(w, r, &cmd) {
		return
	}

	c, err := h.cmdHandler.CreateCoupon(r.Context(), cmd)
	if err != nil {
		h.respondError(w, statusForError(err), err)
		return
	}
	h.respondJSON(w, http.StatusCreated, c)
}

func (h *Handlers) GetCoupons(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.queryHandler.ListCoupons())
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.queryHandler.GetCart(getSession(r))
	if err != nil {
		h.respondError(w, statusForError(err), err)
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var cmd command.AddToCart
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.Session = getSession(r)

	if err := h.cmdHandler.AddToCart(r.Context(), cmd); err != nil {
		h.respondError(w, statusForError(err), err)
		return
	}
	h.getCartResponse(w, cmd.Session)
}

func (h *Handlers) SetCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	cmd := command.SetCartQuantity{
		Session:   getSession(r),
		ProductID: chi.URLParam(r, "product_id"),
		Quantity:  req.Quantity,
	}
	if err := h.cmdHandler.SetCartQuantity(r.Context(), cmd); err != nil {
		h.respondError(w, statusForError(err), err)
		return
	}
	h.getCartResponse(w, cmd.Session)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	cmd := command.RemoveFromCart{
		Session:   getSession(r),
		ProductID: chi.URLParam(r, "product_id"),
	}
	if err := h.cmdHandler.RemoveFromCart(r.Context(), cmd); err != nil {
		h.respondError(w, statusForError(err), err)
		return
	}
	h.getCartResponse(w, cmd.Session)
}

func (h *Handlers) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var cmd command.ApplyCoupon
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.Session = getSession(r)

	if err := h.cmdHandler.ApplyCoupon(r.Context(), cmd); err != nil {
		h.respondError(w, statusForError(err), err)
		return
	}
	h.getCartResponse(w, cmd.Session)
}

func (h *Handlers) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	session := getSession(r)
	if err := h.cmdHandler.RemoveCoupon(r.Context(), command.RemoveCoupon{Session: session}); err != nil {
		h.respondError(w, statusForError(err), err)
		return
	}
	h.getCartResponse(w, session)
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	session := getSession(r)
	if err := h.cmdHandler.ClearCart(r.Context(), command.ClearCart{Session: session}); err != nil {
		h.respondError(w, statusForError(err), err)
		return
	}
	h.getCartResponse(w, session)
}

// Helpers

func getSession(r *http.Request) string {
	if s := r.Header.Get("X-Session-ID"); s != "" {
		return s
	}
	return DefaultSession
}

// getCartResponse returns the freshly recomputed cart view after a mutation
func (h *Handlers) getCartResponse(w http.ResponseWriter, session string) {
	view, err := h.queryHandler.GetCart(session)
	if err != nil {
		h.respondError(w, statusForError(err), err)
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if err == io.EOF {
			h.respondError(w, http.StatusBadRequest, errors.New("request body is required"))
			return false
		}
		h.respondError(w, http.StatusBadRequest, errors.New("invalid JSON in request body"))
		return false
	}
	return true
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, err error) {
	h.respondJSON(w, status, map[string]string{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, command.ErrCouponNotFound):
		return http.StatusNotFound
	case errors.Is(err, command.ErrOutOfStock),
		errors.Is(err, command.ErrDuplicateCouponCode):
		return http.StatusConflict
	case errors.Is(err, product.ErrInvalidName),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrInvalidStock),
		errors.Is(err, product.ErrInvalidTierQuantity),
		errors.Is(err, product.ErrInvalidTierRate),
		errors.Is(err, product.ErrTierIndexOutOfRange),
		errors.Is(err, coupon.ErrInvalidName),
		errors.Is(err, coupon.ErrInvalidCode),
		errors.Is(err, coupon.ErrUnknownDiscountType),
		errors.Is(err, coupon.ErrInvalidAmount),
		errors.Is(err, coupon.ErrInvalidPercentage),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidProduct),
		errors.Is(err, cart.ErrInvalidCoupon),
		errors.Is(err, pricing.ErrInvalidQuantity),
		errors.Is(err, pricing.ErrUnknownCouponType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
