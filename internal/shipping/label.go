// Package shipping creates demo shipping labels. Real carrier integration
// (Delhivery, Shippo) would replace CreateLabel; the AWB format and the
// tracking notification text are already what sellers see in production.
package shipping

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Label is a generated shipping label. The AWB (air waybill number) is the
// seller-facing tracking reference.
type Label struct {
	AWB         string `json:"awb"`
	LabelURL    string `json:"label_url"`
	TrackingURL string `json:"tracking_url"`
}

// Notifier sends an outbound message to a phone identifier.
type Notifier interface {
	Send(ctx context.Context, to, body string) error
}

// CreateLabel generates a demo label with a random AWB.
func CreateLabel(orderID string) Label {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		log.Fatal().Err(err).Msg("Failed to generate AWB")
	}
	awb := "DL" + strings.ToUpper(hex.EncodeToString(b))
	log.Info().Str("orderId", orderID).Str("awb", awb).Msg("Shipping label created")
	return Label{
		AWB:         awb,
		LabelURL:    "https://demo.delhivery.com/label/sample",
		TrackingURL: "https://demo.delhivery.com/track/" + awb,
	}
}

// SendTracking notifies the buyer that the order shipped, in Hindi, with
// the AWB for tracking. Best-effort: a send failure is logged and dropped.
func SendTracking(ctx context.Context, notifier Notifier, to, awb string) {
	body := fmt.Sprintf("आपका ऑर्डर भेज दिया गया है। ट्रैकिंग: %s", awb)
	if err := notifier.Send(ctx, to, body); err != nil {
		log.Error().Err(err).Str("to", to).Msg("Failed to send tracking notification")
	}
}
