// Package twilio provides the messaging transport: fetching inbound media
// attachments, sending outbound WhatsApp messages, and rendering TwiML
// webhook replies.
//
// Outbound sends are at-most-once. No delivery confirmation is tracked and
// there are no retries; callers log failures and move on.
package twilio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// defaultBaseURL is the Twilio REST API base URL.
	defaultBaseURL = "https://api.twilio.com"

	// defaultTimeout is the HTTP client timeout for API calls.
	defaultTimeout = 30 * time.Second

	// maxMediaSize bounds an inbound attachment download (16 MB, the
	// WhatsApp media ceiling).
	maxMediaSize = 16 << 20
)

// ErrAuth indicates the transport rejected our credentials while fetching
// an attachment. Fatal to the job that hit it, not to the process.
var ErrAuth = errors.New("twilio: authentication failed")

// Client calls the Twilio REST API for media download and message send.
type Client struct {
	httpClient *http.Client
	accountSID string
	authToken  string
	from       string
	baseURL    string
}

// NewClient creates a Twilio client. from is the WhatsApp sender address,
// e.g. "whatsapp:+14155238886".
func NewClient(accountSID, authToken, from string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    defaultBaseURL,
	}
}

// Configured reports whether transport credentials are present.
func (c *Client) Configured() bool {
	return c != nil && c.accountSID != "" && c.authToken != ""
}

// FetchMedia downloads an inbound attachment from its Twilio media URL
// using HTTP basic auth. A 401/403 wraps ErrAuth.
func (c *Client) FetchMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("fetch media: %w", ErrAuth)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build media request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch media: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("fetch media: status %d: %w", resp.StatusCode, ErrAuth)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch media: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaSize))
	if err != nil {
		return nil, fmt.Errorf("read media body: %w", err)
	}

	log.Debug().Int("bytes", len(data)).Msg("Inbound media fetched")
	return data, nil
}

// Send delivers one outbound WhatsApp message. At-most-once: the caller
// gets the error for logging, nothing retries.
func (c *Client) Send(ctx context.Context, to, body string) error {
	if !c.Configured() {
		log.Warn().Str("to", to).Msg("Notification transport not configured, dropping message")
		return nil
	}

	form := url.Values{
		"From": {c.from},
		"To":   {to},
		"Body": {body},
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("send message: status %d: %s", resp.StatusCode, respBody)
	}

	log.Debug().Str("to", to).Int("bodyLength", len(body)).Msg("Outbound message sent")
	return nil
}
