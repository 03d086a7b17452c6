package vision

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Defaults used when the model text yields nothing extractable.
const (
	DefaultTitle    = "Beautiful Handmade Craft"
	DefaultPrice    = 350
	DefaultCategory = "handmade"
)

var (
	priceBandRe   = regexp.MustCompile(`₹?\s*(\d+)\s*-\s*₹?\s*(\d+)`)
	singlePriceRe = regexp.MustCompile(`₹?\s*(\d+)`)
	titleNoiseRe  = regexp.MustCompile(`Hindi:.*|Price:.*|Tags:.*`)
)

// knownCategories is the fixed category keyword list scanned for in
// description text, in priority order.
var knownCategories = []string{
	"pottery", "textiles", "jewelry", "paintings", "wooden",
	"metalwork", "leather", "papercraft", "home-decor", "accessories",
}

// ExtractPrice mines a price from description text: the midpoint of a
// ₹low-high band, a single ₹ amount, or DefaultPrice.
func ExtractPrice(description string) int {
	if m := priceBandRe.FindStringSubmatch(description); m != nil {
		low, err1 := strconv.Atoi(m[1])
		high, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			return (low + high) / 2
		}
	}
	if m := singlePriceRe.FindStringSubmatch(description); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return v
		}
	}
	return DefaultPrice
}

// ExtractTitle derives a listing title from the first sentence of the
// description, stripped of price and tag noise and capped at 50 characters.
func ExtractTitle(description string) string {
	first, _, _ := strings.Cut(description, ".")
	if utf8.RuneCountInString(first) <= 10 {
		return DefaultTitle
	}
	title := strings.TrimSpace(titleNoiseRe.ReplaceAllString(first, ""))
	if utf8.RuneCountInString(title) <= 5 {
		return DefaultTitle
	}
	// Cap on runes, not bytes, so Devanagari text is never cut mid-character.
	if runes := []rune(title); len(runes) > 50 {
		title = string(runes[:50])
	}
	return title
}

// ExtractCategory scans the description for a known category keyword.
func ExtractCategory(description string) string {
	lower := strings.ToLower(description)
	for _, c := range knownCategories {
		if strings.Contains(lower, c) {
			return c
		}
	}
	return DefaultCategory
}

// Categories returns the fixed category list plus the default bucket, for
// the read-only API surface.
func Categories() []string {
	out := make([]string, 0, len(knownCategories)+1)
	out = append(out, knownCategories...)
	return append(out, DefaultCategory)
}
