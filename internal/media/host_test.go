package media

import (
	"context"
	"strings"
	"testing"
)

func TestHostImage_FallbackWhenUnconfigured(t *testing.T) {
	h := NewHost(nil, "", "", "")

	urls := h.HostImage(context.Background(), []byte{0xff, 0xd8})
	if len(urls) != ImageURLCount {
		t.Fatalf("expected %d URLs, got %d", ImageURLCount, len(urls))
	}
	for i, u := range urls {
		if !strings.Contains(u, "fallback") {
			t.Errorf("urls[%d] = %q, want placeholder", i, u)
		}
		if !strings.Contains(u, "?t=") {
			t.Errorf("urls[%d] = %q, want cache-busting suffix", i, u)
		}
	}

	// All four placeholders in one set share the same suffix.
	suffix := urls[0][strings.Index(urls[0], "?t="):]
	for _, u := range urls[1:] {
		if !strings.HasSuffix(u, suffix) {
			t.Errorf("placeholder suffixes differ within a set: %v", urls)
		}
	}
}

func TestHostVideo_FallbackWhenUnconfigured(t *testing.T) {
	h := NewHost(nil, "", "", "")

	url := h.HostVideo(context.Background(), []byte{0x00})
	found := false
	for _, fb := range fallbackVideoURLs {
		if url == fb {
			found = true
		}
	}
	if !found {
		t.Errorf("HostVideo = %q, want one of the fixed sample videos", url)
	}
}

func TestHost_Availability(t *testing.T) {
	if NewHost(nil, "imgs", "vids", "").Available() {
		t.Error("Host without a client must report unavailable")
	}
	var h *Host
	if h.Available() {
		t.Error("nil Host must report unavailable")
	}
}
