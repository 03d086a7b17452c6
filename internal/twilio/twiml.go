package twilio

import (
	"encoding/xml"

	"github.com/rs/zerolog/log"
)

// messagingResponse is the TwiML document returned from the inbound
// webhook. Zero Message elements is a valid, empty reply.
type messagingResponse struct {
	XMLName  xml.Name `xml:"Response"`
	Messages []string `xml:"Message"`
}

// RenderTwiML builds the TwiML reply document carrying the given message
// bodies, in order.
func RenderTwiML(bodies []string) []byte {
	doc := messagingResponse{Messages: bodies}
	out, err := xml.Marshal(doc)
	if err != nil {
		// Marshalling a string slice cannot realistically fail; fall back
		// to an empty reply rather than an invalid document.
		log.Error().Err(err).Msg("TwiML marshal failed")
		return []byte(xml.Header + "<Response></Response>")
	}
	return append([]byte(xml.Header), out...)
}
