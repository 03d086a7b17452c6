package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/craftlink/storefront/internal/catalog"
	"github.com/craftlink/storefront/internal/vision"
)

type stubHost struct {
	urls []string
}

func (h *stubHost) Available() bool { return true }
func (h *stubHost) HostImage(ctx context.Context, data []byte) []string {
	return h.urls
}

type stubPublisher struct {
	published []string
}

func (p *stubPublisher) Available() bool { return false }
func (p *stubPublisher) PublishProduct(ctx context.Context, id string) error {
	p.published = append(p.published, id)
	return nil
}
func (p *stubPublisher) ProductURL(id string) string {
	return "https://shop.example.com/product/" + id + ".html"
}

type stubNotifier struct {
	sent []string
}

func (n *stubNotifier) Configured() bool { return true }
func (n *stubNotifier) Send(ctx context.Context, to, body string) error {
	n.sent = append(n.sent, body)
	return nil
}

type fixture struct {
	mux       *http.ServeMux
	store     *catalog.Store
	publisher *stubPublisher
	notifier  *stubNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := catalog.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	publisher := &stubPublisher{}
	notifier := &stubNotifier{}
	// A nil Describer exercises the unconfigured fallback path.
	server := NewServer(store, (*vision.Describer)(nil), &stubHost{urls: []string{"https://img.example.com/a.jpg"}}, publisher, notifier)
	mux := http.NewServeMux()
	server.Routes(mux)
	return &fixture{mux: mux, store: store, publisher: publisher, notifier: notifier}
}

func (f *fixture) seed(t *testing.T, id, category, owner, title string) {
	t.Helper()
	err := f.store.UpsertProduct(catalog.Product{
		ID:          id,
		Title:       title,
		Description: "Handmade " + title,
		Price:       350,
		Category:    category,
		OwnerPhone:  owner,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("UpsertProduct: %v", err)
	}
}

func (f *fixture) get(t *testing.T, path string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response not JSON: %v (%s)", err, w.Body.String())
	}
	return w, body
}

func decodeProducts(t *testing.T, raw json.RawMessage) []catalog.Product {
	t.Helper()
	var products []catalog.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	return products
}

func TestListProducts_Filters(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", "pottery", "+911", "Blue Pottery Plate")
	f.seed(t, "p2", "textiles", "+911", "Banarasi Stole")
	f.seed(t, "p3", "pottery", "+922", "Terracotta Diya")

	tests := []struct {
		name string
		path string
		want []string
	}{
		{"all", "/api/products", []string{"p1", "p2", "p3"}},
		{"category", "/api/products?category=pottery", []string{"p1", "p3"}},
		{"owner", "/api/products?owner=%2B911", []string{"p1", "p2"}},
		{"query matches title", "/api/products?q=stole", []string{"p2"}},
		{"query matches description", "/api/products?q=handmade", []string{"p1", "p2", "p3"}},
		{"combined", "/api/products?category=pottery&owner=%2B911", []string{"p1"}},
		{"no match", "/api/products?q=nothing", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, body := f.get(t, tc.path)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			products := decodeProducts(t, body["products"])
			if len(products) != len(tc.want) {
				t.Fatalf("got %d products, want %d", len(products), len(tc.want))
			}
			for i, id := range tc.want {
				if products[i].ID != id {
					t.Errorf("products[%d] = %s, want %s", i, products[i].ID, id)
				}
			}
		})
	}
}

func TestGetProduct(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", "pottery", "+911", "Blue Pottery Plate")

	w, body := f.get(t, "/api/products/p1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var product catalog.Product
	if err := json.Unmarshal(body["product"], &product); err != nil {
		t.Fatalf("decode product: %v", err)
	}
	if product.Title != "Blue Pottery Plate" {
		t.Errorf("title = %q", product.Title)
	}

	w, _ = f.get(t, "/api/products/nope")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCategories(t *testing.T) {
	f := newFixture(t)
	w, body := f.get(t, "/api/categories")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(string(body["categories"]), "pottery") {
		t.Errorf("categories = %s", body["categories"])
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w, body := f.get(t, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var services map[string]bool
	if err := json.Unmarshal(body["services"], &services); err != nil {
		t.Fatalf("decode services: %v", err)
	}
	if services["gemini"] {
		t.Error("gemini must report unavailable with a nil describer")
	}
	if !services["image_processing"] || !services["notifications"] || !services["shipping"] {
		t.Errorf("services = %v", services)
	}
	if services["deployment"] {
		t.Error("deployment must report unavailable with the stub publisher")
	}
}

func multipartBody(t *testing.T, fields map[string]string, fileField string, files int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	for i := 0; i < files; i++ {
		fw, err := mw.CreateFormFile(fileField, "craft.jpg")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write([]byte("jpeg-bytes")); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)
	body, contentType := multipartBody(t, map[string]string{
		"title":           "Blue Pottery Plate",
		"description":     "Hand painted plate",
		"category":        "Pottery",
		"price":           "650",
		"artisan_name":    "Asha",
		"artisan_region":  "Jaipur",
		"whatsapp_number": "+911111111111",
	}, "images", 2)

	req := httptest.NewRequest(http.MethodPost, "/api/create-product", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success   bool   `json:"success"`
		ProductID string `json:"product_id"`
		URL       string `json:"product_url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.ProductID == "" {
		t.Fatalf("resp = %+v", resp)
	}

	p, err := f.store.GetProduct(resp.ProductID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p.Price != 650 || p.Category != "pottery" || p.ArtisanName != "Asha" {
		t.Errorf("product = %+v", p)
	}
	// The unconfigured model falls back to a fixed enhancement of the
	// submitted description.
	if !strings.Contains(p.Description, "Hand painted plate") {
		t.Errorf("description = %q", p.Description)
	}
	if len(p.Tags) == 0 || len(p.Features) == 0 {
		t.Errorf("tags/features missing: %+v", p)
	}
	if len(f.publisher.published) != 1 {
		t.Errorf("published = %v", f.publisher.published)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name   string
		fields map[string]string
		files  int
	}{
		{"missing title", map[string]string{"description": "d", "category": "c", "price": "100"}, 1},
		{"bad price", map[string]string{"title": "t", "description": "d", "category": "c", "price": "cheap"}, 1},
		{"no images", map[string]string{"title": "t", "description": "d", "category": "c", "price": "100"}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tc.fields, "images", tc.files)
			req := httptest.NewRequest(http.MethodPost, "/api/create-product", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			f.mux.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestEditProduct(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", "pottery", "+911", "Blue Pottery Plate")

	form := url.Values{"product_id": {"p1"}, "price": {"900"}, "description": {"Updated text"}}
	req := httptest.NewRequest(http.MethodPost, "/api/edit-product", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	p, _ := f.store.GetProduct("p1")
	if p.Price != 900 || p.Description != "Updated text" {
		t.Errorf("product = %+v", p)
	}
	if len(f.publisher.published) != 1 {
		t.Errorf("published = %v", f.publisher.published)
	}
}

func TestEditProduct_NoChanges(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", "pottery", "+911", "Blue Pottery Plate")

	// A non-numeric price is skipped, not rejected; with nothing else to
	// change the response reports no changes.
	form := url.Values{"product_id": {"p1"}, "price": {"cheap"}}
	req := httptest.NewRequest(http.MethodPost, "/api/edit-product", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No changes were made") {
		t.Errorf("body = %s", w.Body.String())
	}
	p, _ := f.store.GetProduct("p1")
	if p.Price != 350 {
		t.Errorf("price mutated to %d", p.Price)
	}
}

func TestEditProduct_NewImage(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", "pottery", "+911", "Blue Pottery Plate")

	body, contentType := multipartBody(t, map[string]string{"product_id": "p1"}, "image", 1)
	req := httptest.NewRequest(http.MethodPost, "/api/edit-product", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	p, _ := f.store.GetProduct("p1")
	if len(p.Images) != 1 || p.Images[0] != "https://img.example.com/a.jpg" {
		t.Errorf("images = %v", p.Images)
	}
}

func TestShip(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", "pottery", "+911", "Blue Pottery Plate")

	form := url.Values{"product_id": {"p1"}, "to": {"whatsapp:+922222222222"}}
	req := httptest.NewRequest(http.MethodPost, "/api/ship", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		Label   struct {
			AWB string `json:"awb"`
		} `json:"label"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || !strings.HasPrefix(resp.Label.AWB, "DL") {
		t.Errorf("resp = %+v", resp)
	}
	if len(f.notifier.sent) != 1 || !strings.Contains(f.notifier.sent[0], resp.Label.AWB) {
		t.Errorf("notifications = %v", f.notifier.sent)
	}

	form = url.Values{"product_id": {"nope"}}
	req = httptest.NewRequest(http.MethodPost, "/api/ship", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
