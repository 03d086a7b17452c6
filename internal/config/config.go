// Package config loads server configuration from the environment at startup.
// Every collaborator credential is optional: a missing credential flips the
// corresponding collaborator into fallback mode instead of failing startup,
// so a partially configured server still answers chat messages.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds the full server configuration. It is built once in main and
// passed explicitly to every component; no package reads the environment
// after startup.
type Config struct {
	Port    int
	DataDir string

	// Messaging transport (Twilio WhatsApp).
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string

	// Vision/description model.
	GeminiAPIKey string
	GeminiModel  string

	// Object storage.
	S3Region      string
	ImageBucket   string
	VideoBucket   string
	PublicBaseURL string

	// Static site hosting.
	ShopBaseURL  string
	DeployTarget string
}

// Load reads configuration from the environment, loading a local .env file
// first when one exists. Missing keys fall back to their defaults.
func Load() *Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Warn().Err(err).Msg("Failed to load .env file")
		} else {
			log.Debug().Msg(".env file loaded")
		}
	}

	return &Config{
		Port:             8080,
		DataDir:          getEnv("CRAFTLINK_DATA_DIR", "data"),
		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:       getEnv("TWILIO_WHATSAPP_FROM", "whatsapp:+14155238886"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      os.Getenv("GEMINI_MODEL"),
		S3Region:         getEnv("AWS_REGION", "ap-south-1"),
		ImageBucket:      getEnv("CRAFTLINK_IMAGE_BUCKET", ""),
		VideoBucket:      getEnv("CRAFTLINK_VIDEO_BUCKET", ""),
		PublicBaseURL:    os.Getenv("CRAFTLINK_MEDIA_BASE_URL"),
		ShopBaseURL:      getEnv("CRAFTLINK_SHOP_BASE_URL", "https://neethi-saarathi-ids.web.app"),
		DeployTarget:     os.Getenv("CRAFTLINK_DEPLOY_DIR"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
