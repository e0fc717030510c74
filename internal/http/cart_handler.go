package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fjod/go_boutique/internal/cart"
	"github.com/fjod/go_boutique/internal/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CartHandler struct {
	catalog Catalog
	store   *cart.CookieStore
	log     *zap.Logger
}

func NewCartHandler(catalog Catalog, store *cart.CookieStore, log *zap.Logger) *CartHandler {
	return &CartHandler{
		catalog: catalog,
		store:   store,
		log:     log,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartItemDTO struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartViewDTO struct {
	Items   []CartItemDTO   `json:"items"`
	Total   decimal.Decimal `json:"total"`
	Message string          `json:"message,omitempty"`
}

type CheckoutResponseDTO struct {
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	Message   string          `json:"message"`
}

func cartView(c cart.Cart, message string) CartViewDTO {
	items := make([]CartItemDTO, len(c))
	for i, li := range c {
		items[i] = CartItemDTO{
			ProductID: li.ProductID,
			Name:      li.Name,
			UnitPrice: li.UnitPrice,
			Quantity:  li.Quantity,
			LineTotal: li.LineTotal(),
		}
	}
	return CartViewDTO{Items: items, Total: c.Total(), Message: message}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, cartView(h.store.Load(r), ""))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	// The name/price snapshot is taken here, at the boundary. The cart
	// engine itself never talks to the catalog.
	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		h.log.Error("catalog lookup failed", zap.Int64("product_id", req.ProductID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to look up product")
		return
	}

	c := h.store.Load(r)
	c, _ = cart.Add(c, product.ID, product.Name, product.Price, req.Quantity)

	if err := h.store.Save(w, c); err != nil {
		h.log.Error("failed to save cart", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save cart")
		return
	}

	respondJSON(w, http.StatusCreated, cartView(c, fmt.Sprintf("%s added to cart", product.Name)))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must not exceed 99")
		return
	}

	c := h.store.Load(r)
	item, _ := c.Find(productID)

	// a quantity <= 0 removes the line, the cart never stores one
	c, change := cart.SetQuantity(c, productID, req.Quantity)

	var message string
	switch change {
	case cart.ItemRemoved:
		message = fmt.Sprintf("%s removed from cart", item.Name)
	case cart.ItemUpdated:
		message = fmt.Sprintf("%s quantity updated", item.Name)
	}

	if change != cart.NoChange {
		if err := h.store.Save(w, c); err != nil {
			h.log.Error("failed to save cart", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to save cart")
			return
		}
	}

	respondJSON(w, http.StatusOK, cartView(c, message))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	c := h.store.Load(r)
	item, _ := c.Find(productID)

	c, change := cart.Remove(c, productID)

	var message string
	if change == cart.ItemRemoved {
		message = fmt.Sprintf("%s removed from cart", item.Name)
		if err := h.store.Save(w, c); err != nil {
			h.log.Error("failed to save cart", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to save cart")
			return
		}
	}

	respondJSON(w, http.StatusOK, cartView(c, message))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.store.Drop(w)
	respondJSON(w, http.StatusOK, cartView(cart.Cart{}, "Cart cleared"))
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	c := h.store.Load(r)

	summary, _, err := cart.Checkout(c)
	if err != nil {
		if errors.Is(err, cart.ErrEmptyCart) {
			// the cart stays as it was, there is nothing to roll back
			respondError(w, http.StatusConflict, "empty_cart", "your cart is empty")
			return
		}
		h.log.Error("checkout failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "checkout failed")
		return
	}

	// checkout and cart-emptying are one step from the client's view
	h.store.Drop(w)

	respondJSON(w, http.StatusOK, CheckoutResponseDTO{
		Total:     summary.Total,
		ItemCount: summary.ItemCount,
		Message: fmt.Sprintf("Order placed: %d item(s) for a total of %s",
			summary.ItemCount, summary.Total.StringFixed(2)),
	})
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}
