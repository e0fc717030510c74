package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fjod/go_boutique/internal/catalog"
	"go.uber.org/zap"
)

// Catalog is the slice of the catalog service the handlers consume.
type Catalog interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
	ListAvailable(ctx context.Context) ([]catalog.Product, error)
	ListAll(ctx context.Context) ([]catalog.Product, error)
	CreateProduct(ctx context.Context, p *catalog.Product) error
	UpdateProduct(ctx context.Context, p *catalog.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
