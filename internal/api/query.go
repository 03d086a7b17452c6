package api

import (
	"net/http"
	"strings"

	"github.com/craftlink/storefront/internal/catalog"
	"github.com/craftlink/storefront/internal/vision"
)

// GET /api/products?category=...&owner=...&q=...
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	category := r.URL.Query().Get("category")
	owner := r.URL.Query().Get("owner")
	q := strings.ToLower(r.URL.Query().Get("q"))

	products := s.store.ListProducts()
	filtered := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if owner != "" && p.OwnerPhone != owner {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		filtered = append(filtered, p)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"products": filtered})
}

// GET /api/products/{id}
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/products/")
	if id == "" || strings.Contains(id, "/") {
		httpError(w, http.StatusNotFound, "Product not found")
		return
	}

	product, err := s.store.GetProduct(id)
	if err != nil {
		httpError(w, http.StatusNotFound, "Product not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"product": product,
	})
}

// GET /api/categories
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"categories": vision.Categories()})
}
