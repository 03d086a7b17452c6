package vision

import "os"

// Gemini model IDs. Flash is the default: listing descriptions are short
// and latency matters more than reasoning depth here.
const (
	ModelGemini25Pro   = "gemini-2.5-pro"
	ModelGemini25Flash = "gemini-2.5-flash"
)

// DefaultModelName is the default Gemini model to use.
// Can be overridden via the GEMINI_MODEL environment variable.
const DefaultModelName = ModelGemini25Flash

// ModelName returns the Gemini model to use, resolved from the GEMINI_MODEL
// environment variable when set, otherwise DefaultModelName.
func ModelName() string {
	if env := os.Getenv("GEMINI_MODEL"); env != "" {
		return env
	}
	return DefaultModelName
}
