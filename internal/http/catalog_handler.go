package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_boutique/internal/catalog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalog Catalog
	log     *zap.Logger
}

func NewCatalogHandler(catalog Catalog, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log}
}

type ProductDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toProductDTO(p catalog.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
	}
}

func toProductDTOs(products []catalog.Product) []ProductDTO {
	out := make([]ProductDTO, len(products))
	for i, p := range products {
		out[i] = toProductDTO(p)
	}
	return out
}

// ListProducts returns the storefront listing: in-stock products only.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAvailable(r.Context())
	if err != nil {
		h.log.Error("failed to list products", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, toProductDTOs(products))
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
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

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, catalog.Categories())
}
