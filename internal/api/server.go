// Package api exposes the web query/mutation surface used by the shop
// frontend, plus the health endpoint.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/craftlink/storefront/internal/catalog"
	"github.com/craftlink/storefront/internal/vision"
)

// Describer analyzes and enhances listings. Total; the vision package
// degrades to fallback content internally.
type Describer interface {
	Available() bool
	EnhanceListing(ctx context.Context, title, description, category string) vision.Enhancement
}

// Host uploads image bytes and returns public URLs.
type Host interface {
	Available() bool
	HostImage(ctx context.Context, data []byte) []string
}

// Publisher regenerates site pages and deploys.
type Publisher interface {
	Available() bool
	PublishProduct(ctx context.Context, id string) error
	ProductURL(id string) string
}

// Notifier sends outbound WhatsApp messages.
type Notifier interface {
	Configured() bool
	Send(ctx context.Context, to, body string) error
}

// Server holds the API handlers and their collaborators.
type Server struct {
	store     *catalog.Store
	describer Describer
	host      Host
	publisher Publisher
	notifier  Notifier
}

func NewServer(store *catalog.Store, describer Describer, host Host, publisher Publisher, notifier Notifier) *Server {
	return &Server{
		store:     store,
		describer: describer,
		host:      host,
		publisher: publisher,
		notifier:  notifier,
	}
}

// Routes registers the API endpoints on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/products", s.handleListProducts)
	mux.HandleFunc("/api/products/", s.handleGetProduct)
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/create-product", s.handleCreateProduct)
	mux.HandleFunc("/api/edit-product", s.handleEditProduct)
	mux.HandleFunc("/api/ship", s.handleShip)
	mux.HandleFunc("/health", s.handleHealth)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func httpError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"services": map[string]bool{
			"gemini":           s.describer != nil && s.describer.Available(),
			"image_processing": s.host != nil && s.host.Available(),
			"deployment":       s.publisher != nil && s.publisher.Available(),
			"notifications":    s.notifier != nil && s.notifier.Configured(),
			"shipping":         true,
		},
	})
}
