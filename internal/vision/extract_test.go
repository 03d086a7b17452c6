package vision

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"band with rupee signs", "A lovely pot. Price: ₹200-₹400. Tags: #pot", 300},
		{"band without signs", "Suggested 250 - 450 for this piece", 350},
		{"single price", "Worth every bit of ₹399", 399},
		{"no price at all", "A lovely pot with no numbers named here", DefaultPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractPrice(tt.text); got != tt.want {
				t.Errorf("ExtractPrice(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractTitle(t *testing.T) {
	got := ExtractTitle("A graceful terracotta water pot shaped by hand. It holds memories of the village well.")
	if got != "A graceful terracotta water pot shaped by hand" {
		t.Errorf("ExtractTitle = %q", got)
	}

	if got := ExtractTitle("Short."); got != DefaultTitle {
		t.Errorf("short first sentence: got %q, want default", got)
	}

	long := strings.Repeat("a", 80) + ". rest"
	if got := ExtractTitle(long); len(got) != 50 {
		t.Errorf("long title not capped: len = %d", len(got))
	}
}

func TestExtractTitle_DevanagariCapsOnRunes(t *testing.T) {
	long := "A यह सुंदर हस्तनिर्मित मिट्टी का दीया है जो त्योहारों के लिए एकदम सही है. और भी"
	got := ExtractTitle(long)
	if !utf8.ValidString(got) {
		t.Fatalf("title is not valid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n > 50 {
		t.Errorf("title rune count = %d, want at most 50", n)
	}
}

func TestExtractTitle_ShortDevanagariFirstSentence(t *testing.T) {
	// Four characters of meaning, twelve bytes of encoding.
	if got := ExtractTitle("दीया. A handmade lamp for festivals."); got != DefaultTitle {
		t.Errorf("short first sentence: got %q, want default", got)
	}
}

func TestExtractTitle_StripsNoise(t *testing.T) {
	got := ExtractTitle("A beautiful silk weave Price: ₹500-900 and more. Second sentence.")
	if strings.Contains(got, "Price") {
		t.Errorf("title retains price noise: %q", got)
	}
}

func TestExtractCategory(t *testing.T) {
	if got := ExtractCategory("This Pottery piece shines"); got != "pottery" {
		t.Errorf("ExtractCategory = %q, want pottery", got)
	}
	if got := ExtractCategory("a mystery object"); got != DefaultCategory {
		t.Errorf("ExtractCategory fallback = %q, want %q", got, DefaultCategory)
	}
}

func TestDescribeImage_UnconfiguredFallback(t *testing.T) {
	// A Describer without a client degrades to the fixed fallback analysis
	// rather than failing.
	var d *Describer
	got := d.DescribeImage(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")

	if got.Description != FallbackDescription {
		t.Errorf("Description = %q, want fallback", got.Description)
	}
	if got.Price != 325 {
		// Midpoint of the fallback's ₹250-400 band.
		t.Errorf("Price = %d, want 325", got.Price)
	}
	if got.Category != DefaultCategory {
		t.Errorf("Category = %q, want %q", got.Category, DefaultCategory)
	}
	if got.Title == "" {
		t.Error("Title empty, want derived title")
	}
}

func TestEnhanceListing_UnconfiguredFallback(t *testing.T) {
	var d *Describer
	got := d.EnhanceListing(context.Background(), "Vase", "A clay vase.", "pottery")

	if !strings.Contains(got.EnhancedDescription, "A clay vase.") {
		t.Errorf("EnhancedDescription = %q, want original text embedded", got.EnhancedDescription)
	}
	if len(got.PriceSuggestions) != 3 {
		t.Errorf("PriceSuggestions = %v, want three tiers", got.PriceSuggestions)
	}
	found := false
	for _, tag := range got.Tags {
		if tag == "pottery" {
			found = true
		}
	}
	if !found {
		t.Errorf("Tags = %v, want category included", got.Tags)
	}
}
