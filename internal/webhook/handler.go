// Package webhook provides the HTTP handler for inbound Twilio WhatsApp
// messages.
//
// Twilio posts an application/x-www-form-urlencoded form for each inbound
// message (Body, From, NumMedia, MediaUrl0, MediaContentType0) and expects
// a TwiML document in response; each <Message> element in the document is
// sent back to the user. The handler must reply quickly, so anything slow
// is handed off as a background job before responding.
//
// The X-Twilio-Signature header is not verified; deployments that expose
// the endpoint publicly should put signature validation in front of it.
//
// Reference: https://www.twilio.com/docs/messaging/guides/webhook-request
package webhook

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/craftlink/storefront/internal/bot"
	"github.com/craftlink/storefront/internal/command"
	"github.com/craftlink/storefront/internal/metrics"
	"github.com/craftlink/storefront/internal/twilio"
)

const replyInternalError = "⚠️ Sorry, I encountered an error. Please try sending the photo again."

// Handler parses inbound Twilio form posts into commands and renders the
// dispatcher's replies as TwiML.
type Handler struct {
	dispatcher *bot.Dispatcher
}

// NewHandler creates a webhook handler backed by the given dispatcher.
func NewHandler(dispatcher *bot.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// ServeHTTP handles one inbound message. Whatever happens, the response is
// a valid TwiML document; a malformed request or a panic downstream still
// produces a user-facing reply rather than an opaque transport error.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	replies := h.process(r)
	w.Header().Set("Content-Type", "application/xml")
	if _, err := w.Write(twilio.RenderTwiML(replies)); err != nil {
		log.Error().Err(err).Msg("Failed to write TwiML response")
	}
}

func (h *Handler) process(r *http.Request) (replies []string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("Webhook handler panicked")
			replies = []string{replyInternalError}
		}
	}()

	if err := r.ParseForm(); err != nil {
		log.Warn().Err(err).Msg("Failed to parse webhook form")
		return []string{replyInternalError}
	}

	body := r.PostFormValue("Body")
	sender := r.PostFormValue("From")
	att := bot.AttachmentFromForm(
		r.PostFormValue("NumMedia"),
		r.PostFormValue("MediaUrl0"),
		r.PostFormValue("MediaContentType0"),
	)

	log.Info().
		Str("from", sender).
		Str("body", body).
		Str("numMedia", r.PostFormValue("NumMedia")).
		Msg("Inbound message")

	cmd := command.Parse(body, att, sender)
	started := time.Now()
	replies = h.dispatcher.Handle(r.Context(), cmd)

	metrics.New().
		Dimension("Command", cmd.Kind.String()).
		Count("MessagesProcessed").
		Duration("HandleLatencyMs", time.Since(started)).
		Flush()
	return replies
}
