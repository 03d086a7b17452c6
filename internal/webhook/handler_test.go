package webhook

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/craftlink/storefront/internal/bot"
	"github.com/craftlink/storefront/internal/catalog"
)

type noopRunner struct {
	imageIntakes int
}

func (r *noopRunner) StartImageIntake(mediaURL, sender string)          { r.imageIntakes++ }
func (r *noopRunner) StartVideoIntake(mediaURL, caption, sender string) {}
func (r *noopRunner) StartRepublish(productID string)                   {}

func newTestHandler(t *testing.T) (*Handler, *catalog.Store, *noopRunner) {
	t.Helper()
	store, err := catalog.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	runner := &noopRunner{}
	dispatcher := bot.NewDispatcher(store, nil, nil, runner, "https://shop.example.com")
	return NewHandler(dispatcher), store, runner
}

func post(t *testing.T, h *Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServeHTTP_TextCommand(t *testing.T) {
	h, store, _ := newTestHandler(t)
	err := store.UpsertProduct(catalog.Product{
		ID:         "abc12345",
		Title:      "Terracotta Diya",
		Price:      350,
		OwnerPhone: "+911111111111",
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("UpsertProduct: %v", err)
	}

	w := post(t, h, url.Values{
		"Body":     {"edit abc12345 price 500"},
		"From":     {"whatsapp:+911111111111"},
		"NumMedia": {"0"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/xml" {
		t.Errorf("content type = %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<Response>") || !strings.Contains(body, "<Message>") {
		t.Errorf("body = %q", body)
	}
	if !strings.Contains(body, "Updated price for product abc12345") {
		t.Errorf("body = %q", body)
	}

	p, err := store.GetProduct("abc12345")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p.Price != 500 {
		t.Errorf("price = %d, want 500", p.Price)
	}
}

func TestServeHTTP_ImageStartsJobAndAcksImmediately(t *testing.T) {
	h, _, runner := newTestHandler(t)

	w := post(t, h, url.Values{
		"Body":              {""},
		"From":              {"whatsapp:+911111111111"},
		"NumMedia":          {"1"},
		"MediaUrl0":         {"https://api.twilio.test/media/1"},
		"MediaContentType0": {"image/jpeg"},
	})

	if !strings.Contains(w.Body.String(), "Got your image!") {
		t.Errorf("body = %q", w.Body.String())
	}
	if runner.imageIntakes != 1 {
		t.Errorf("imageIntakes = %d, want 1", runner.imageIntakes)
	}
}

func TestServeHTTP_GreetingEscapedInTwiML(t *testing.T) {
	h, _, _ := newTestHandler(t)

	w := post(t, h, url.Values{
		"Body":     {"hello"},
		"From":     {"whatsapp:+911111111111"},
		"NumMedia": {"0"},
	})

	body := w.Body.String()
	if !strings.Contains(body, "Welcome to KalaaSaarathi!") {
		t.Errorf("body = %q", body)
	}
	if strings.Contains(body, "<br>") {
		t.Errorf("reply must not contain markup: %q", body)
	}
}

func TestServeHTTP_MethodNotAllowed(t *testing.T) {
	h, _, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/whatsapp", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", w.Code)
	}
}

func TestServeHTTP_PanicProducesErrorReply(t *testing.T) {
	// A nil dispatcher store panics on first use; the handler must still
	// answer with a TwiML error message, not a 500.
	h := NewHandler(nil)
	w := post(t, h, url.Values{
		"Body":     {"myproducts"},
		"From":     {"whatsapp:+911111111111"},
		"NumMedia": {"0"},
	})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Sorry, I encountered an error") {
		t.Errorf("body = %q", w.Body.String())
	}
}
