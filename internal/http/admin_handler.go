package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_boutique/internal/auth"
	"github.com/fjod/go_boutique/internal/catalog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdminHandler is the role-gated product CRUD surface. Route-level gating:
// listing and editing need Admin or Manager, create and delete need Admin.
type AdminHandler struct {
	catalog Catalog
	log     *zap.Logger
}

func NewAdminHandler(catalog Catalog, log *zap.Logger) *AdminHandler {
	return &AdminHandler{catalog: catalog, log: log}
}

type ProductRequestDTO struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
}

func (dto ProductRequestDTO) validate() (string, bool) {
	switch {
	case dto.Name == "":
		return "name is required", false
	case len(dto.Name) > 100:
		return "name must be at most 100 characters", false
	case len(dto.Category) > 50:
		return "category must be at most 50 characters", false
	case dto.Price.IsNegative():
		return "price must not be negative", false
	case dto.Stock < 0:
		return "stock must not be negative", false
	}
	return "", true
}

// ListProducts shows everything, including out-of-stock items the public
// listing hides.
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAll(r.Context())
	if err != nil {
		h.log.Error("failed to list products", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, toProductDTOs(products))
}

func (h *AdminHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		h.log.Error("failed to get product", zap.Int64("product_id", productID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get product")
		return
	}

	respondJSON(w, http.StatusOK, toProductDTO(*product))
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondError(w, http.StatusBadRequest, "invalid_product", msg)
		return
	}

	product := &catalog.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if err := h.catalog.CreateProduct(r.Context(), product); err != nil {
		h.log.Error("failed to create product", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create product")
		return
	}

	if s, ok := auth.SessionFromContext(r.Context()); ok {
		h.log.Info("product created",
			zap.Int64("product_id", product.ID),
			zap.String("by", s.Username))
	}

	respondJSON(w, http.StatusCreated, toProductDTO(*product))
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondError(w, http.StatusBadRequest, "invalid_product", msg)
		return
	}

	product := &catalog.Product{
		ID:          productID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if err := h.catalog.UpdateProduct(r.Context(), product); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		h.log.Error("failed to update product", zap.Int64("product_id", productID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update product")
		return
	}

	respondJSON(w, http.StatusOK, toProductDTO(*product))
}

// DeleteProduct removes a product; deleting an absent id succeeds quietly.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), productID); err != nil {
		h.log.Error("failed to delete product", zap.Int64("product_id", productID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
