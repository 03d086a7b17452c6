// Package vision wraps the Gemini vision/description model behind total
// operations. Every call degrades to fixed fallback content on failure,
// so a model outage lowers content quality but never blocks the pipeline,
// and no error ever propagates to a caller.
package vision

import (
	"context"
	"fmt"

	"github.com/craftlink/storefront/internal/jsonutil"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// FallbackDescription is the canned description used when the model is
// unavailable or its call fails.
const FallbackDescription = "Beautiful handmade craft with traditional artistry. Price band: ₹250-400 #handmade #craft #artisan"

// describePrompt asks for a warm sixty-word description with a price band
// and hashtags, which the extraction helpers then mine for structure.
const describePrompt = `You are a nostalgic Indian grandparent who appreciates handmade crafts.
In 60 words describe this craft with love and emotion.
Suggest 5 SEO hashtags.
Price: ₹price_low-price_high. Tags: #tag1 #tag2 #tag3 #tag4 #tag5`

// Analysis is the structured result of describing a product photo.
type Analysis struct {
	Description string
	Title       string
	Price       int
	Category    string
}

// Describer calls the Gemini API for image descriptions and listing
// enhancement. A nil Describer (or one without a client) is valid and
// always returns fallback content.
type Describer struct {
	client *genai.Client
	model  string
}

// NewDescriber creates a Describer backed by the given Gemini API key.
func NewDescriber(ctx context.Context, apiKey string) (*Describer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &Describer{client: client, model: ModelName()}, nil
}

// Available reports whether the model collaborator is configured.
func (d *Describer) Available() bool {
	return d != nil && d.client != nil
}

// DescribeImage sends the image to Gemini and returns a structured analysis.
// The call is total: any failure yields the fixed fallback analysis.
func (d *Describer) DescribeImage(ctx context.Context, data []byte, mimeType string) Analysis {
	text := FallbackDescription

	if d.Available() {
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		contents := []*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
				{Text: describePrompt},
			},
		}}

		resp, err := d.client.Models.GenerateContent(ctx, d.model, contents, nil)
		switch {
		case err != nil:
			log.Error().Err(err).Msg("Image description failed, using fallback")
		case resp == nil || resp.Text() == "":
			log.Warn().Msg("Empty description response, using fallback")
		default:
			text = resp.Text()
			log.Debug().Int("length", len(text)).Msg("Image description generated")
		}
	} else {
		log.Debug().Msg("Vision model not configured, using fallback description")
	}

	return Analysis{
		Description: text,
		Title:       ExtractTitle(text),
		Price:       ExtractPrice(text),
		Category:    ExtractCategory(text),
	}
}

// Enhancement is the structured output of the text-enhancement model.
type Enhancement struct {
	EnhancedDescription string   `json:"enhanced_description"`
	PriceSuggestions    []int    `json:"price_suggestions"`
	Features            []string `json:"features"`
	Tags                []string `json:"tags"`
}

// fallbackEnhancement builds the fixed substitute returned when the
// enhancement call fails.
func fallbackEnhancement(description, category string) Enhancement {
	return Enhancement{
		EnhancedDescription: fmt.Sprintf("✨ %s Beautiful handmade %s crafted with care and tradition.", description, category),
		PriceSuggestions:    []int{299, 499, 799},
		Features:            []string{"Handmade", "Eco-friendly", "Traditional craftsmanship"},
		Tags:                []string{"handmade", category, "artisan"},
	}
}

// EnhanceListing asks the text model to improve a listing and suggest
// prices, features, and tags. Total: failures return the fixed fallback.
func (d *Describer) EnhanceListing(ctx context.Context, title, description, category string) Enhancement {
	if !d.Available() {
		return fallbackEnhancement(description, category)
	}

	prompt := fmt.Sprintf(`Analyze this handmade product and enhance the description:

Title: %s
Category: %s
Initial Description: %s

Please provide:
1. An emotional, grandmother-style description in English with Hindi words
2. 3 appropriate price suggestions (budget, standard, premium)
3. Key features and specifications
4. SEO-friendly tags

Format as JSON with: enhanced_description, price_suggestions, features, tags`, title, category, description)

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	resp, err := d.client.Models.GenerateContent(ctx, d.model, contents, nil)
	if err != nil || resp == nil || resp.Text() == "" {
		log.Error().Err(err).Msg("Listing enhancement failed, using fallback")
		return fallbackEnhancement(description, category)
	}

	enhancement, err := jsonutil.ParseJSON[Enhancement](resp.Text())
	if err != nil {
		log.Warn().Err(err).Msg("Enhancement response was not valid JSON, using fallback")
		return fallbackEnhancement(description, category)
	}
	if enhancement.EnhancedDescription == "" {
		enhancement.EnhancedDescription = description
	}
	return enhancement
}
