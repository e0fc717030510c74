package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fjod/go_boutique/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAdminListProducts_IncludesOutOfStock(t *testing.T) {
	h := NewAdminHandler(testCatalog(), zap.NewNop())

	rec := httptest.NewRecorder()
	h.ListProducts(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var products []ProductDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&products))
	assert.Len(t, products, 3)
}

func TestAdminCreateProduct(t *testing.T) {
	h := NewAdminHandler(testCatalog(), zap.NewNop())

	body := `{"name":"Raspberry Pi 5","description":"SBC","price":"89.90","stock":12,"category":"Computing"}`
	rec := httptest.NewRecorder()
	h.CreateProduct(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var p ProductDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Raspberry Pi 5", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("89.90")))
}

func TestAdminCreateProduct_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{`},
		{"missing name", `{"price":"1.00"}`},
		{"name too long", `{"name":"` + strings.Repeat("x", 101) + `"}`},
		{"category too long", `{"name":"ok","category":"` + strings.Repeat("x", 51) + `"}`},
		{"negative price", `{"name":"ok","price":"-1.00"}`},
		{"negative stock", `{"name":"ok","stock":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAdminHandler(testCatalog(), zap.NewNop())

			rec := httptest.NewRecorder()
			h.CreateProduct(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAdminUpdateProduct(t *testing.T) {
	c := testCatalog()
	h := NewAdminHandler(c, zap.NewNop())

	body := `{"name":"Widget v2","price":"12.50","stock":4}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/products/1", strings.NewReader(body))
	req = withRouteParam(req, "product_id", "1")

	rec := httptest.NewRecorder()
	h.UpdateProduct(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Widget v2", c.products[1].Name)
	assert.Equal(t, 4, c.products[1].Stock)
}

func TestAdminUpdateProduct_NotFound(t *testing.T) {
	h := NewAdminHandler(testCatalog(), zap.NewNop())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/products/404",
		strings.NewReader(`{"name":"Ghost","price":"1.00"}`))
	req = withRouteParam(req, "product_id", "404")

	rec := httptest.NewRecorder()
	h.UpdateProduct(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminDeleteProduct(t *testing.T) {
	c := testCatalog()
	h := NewAdminHandler(c, zap.NewNop())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/products/1", nil)
	req = withRouteParam(req, "product_id", "1")

	rec := httptest.NewRecorder()
	h.DeleteProduct(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotContains(t, c.products, int64(1))

	// deleting again still succeeds
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/admin/products/1", nil)
	req = withRouteParam(req, "product_id", "1")
	rec = httptest.NewRecorder()
	h.DeleteProduct(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// TestAdminRoutes_RoleGating walks the admin surface through the real
// middleware to pin down which role can do what.
func TestAdminRoutes_RoleGating(t *testing.T) {
	sessions := auth.NewSessionManager("test-secret", false)
	h := NewAdminHandler(testCatalog(), zap.NewNop())

	r := chi.NewRouter()
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(sessions.RequireRole(auth.RoleAdmin, auth.RoleManager))
			r.Get("/products", h.ListProducts)
			r.Put("/products/{product_id}", h.UpdateProduct)
		})
		r.Group(func(r chi.Router) {
			r.Use(sessions.RequireRole(auth.RoleAdmin))
			r.Post("/products", h.CreateProduct)
			r.Delete("/products/{product_id}", h.DeleteProduct)
		})
	})

	login := func(t *testing.T, username string, role auth.Role) *http.Cookie {
		t.Helper()
		rec := httptest.NewRecorder()
		sessions.Issue(rec, username, role)
		return rec.Result().Cookies()[0]
	}

	tests := []struct {
		name   string
		method string
		target string
		body   string
		cookie *http.Cookie
		want   int
	}{
		{"anonymous list", http.MethodGet, "/api/v1/admin/products", "", nil, http.StatusUnauthorized},
		{"user list", http.MethodGet, "/api/v1/admin/products", "", login(t, "user", auth.RoleUser), http.StatusForbidden},
		{"manager list", http.MethodGet, "/api/v1/admin/products", "", login(t, "manager", auth.RoleManager), http.StatusOK},
		{"admin list", http.MethodGet, "/api/v1/admin/products", "", login(t, "admin", auth.RoleAdmin), http.StatusOK},
		{"manager edit", http.MethodPut, "/api/v1/admin/products/1", `{"name":"W","price":"1.00"}`, login(t, "manager", auth.RoleManager), http.StatusOK},
		{"manager create", http.MethodPost, "/api/v1/admin/products", `{"name":"W","price":"1.00"}`, login(t, "manager", auth.RoleManager), http.StatusForbidden},
		{"manager delete", http.MethodDelete, "/api/v1/admin/products/1", "", login(t, "manager", auth.RoleManager), http.StatusForbidden},
		{"admin create", http.MethodPost, "/api/v1/admin/products", `{"name":"W","price":"1.00"}`, login(t, "admin", auth.RoleAdmin), http.StatusCreated},
		{"admin delete", http.MethodDelete, "/api/v1/admin/products/2", "", login(t, "admin", auth.RoleAdmin), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
