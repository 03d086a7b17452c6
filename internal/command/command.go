// Package command turns raw inbound WhatsApp message text plus attachment
// metadata into one typed Command value.
//
// Parsing is pure and total: every input maps to exactly one variant and
// never panics or returns an error. A malformed edit is itself a variant
// (KindEditUsage) so the dispatcher can render usage help, and an edit of
// the image field without an attachment is a valid parse whose failure is
// a handler concern. The usage text and the field-specific error text
// differ on purpose.
package command

import "strings"

// AttachmentKind classifies an inbound media attachment.
type AttachmentKind int

const (
	AttachmentNone AttachmentKind = iota
	AttachmentImage
	AttachmentVideo
)

// Attachment describes the media attached to an inbound message, if any.
// Ref is an opaque handle (a Twilio media URL) used to fetch the bytes.
type Attachment struct {
	Kind AttachmentKind
	Ref  string
}

// Kind identifies the command variant.
type Kind int

const (
	// KindGreet is a greeting; reply with the welcome text.
	KindGreet Kind = iota
	// KindEdit is a well-formed edit command.
	KindEdit
	// KindEditUsage is an edit command with too few tokens and no
	// attachment; reply with usage help.
	KindEditUsage
	// KindListMyProducts lists the sender's products.
	KindListMyProducts
	// KindProfileView shows the sender's seller profile.
	KindProfileView
	// KindProfileSet updates one field of the sender's seller profile.
	KindProfileSet
	// KindReelSubmit publishes an attached video as a reel.
	KindReelSubmit
	// KindReelPrompt asks the sender to resend a bare video with the
	// "reel" prefix. Bare videos are never auto-processed.
	KindReelPrompt
	// KindImageSubmit starts image intake for an attached photo.
	KindImageSubmit
	// KindUnrecognized is the fallback; reply with help text.
	KindUnrecognized
)

var kindNames = map[Kind]string{
	KindGreet:          "greet",
	KindEdit:           "edit",
	KindEditUsage:      "edit_usage",
	KindListMyProducts: "list_my_products",
	KindProfileView:    "profile_view",
	KindProfileSet:     "profile_set",
	KindReelSubmit:     "reel_submit",
	KindReelPrompt:     "reel_prompt",
	KindImageSubmit:    "image_submit",
	KindUnrecognized:   "unrecognized",
}

// String returns the stable name of the variant, used in logs and metrics.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command is one parsed inbound message.
type Command struct {
	Kind   Kind
	Sender string

	// Edit fields.
	ProductID string
	Field     string
	Value     string

	// Reel caption.
	Caption string

	Attachment Attachment
}

// greetings is the case-insensitive greeting set.
var greetings = map[string]bool{
	"hi":      true,
	"hello":   true,
	"hey":     true,
	"start":   true,
	"नमस्ते":  true,
}

// listSynonyms is the fixed synonym set for listing the sender's products.
var listSynonyms = map[string]bool{
	"myproducts": true,
	"mylist":     true,
	"my items":   true,
}

// Parse maps one inbound message to exactly one Command variant.
func Parse(rawText string, att Attachment, sender string) Command {
	cmd := Command{Sender: sender, Attachment: att}
	trimmed := strings.TrimSpace(rawText)
	lower := strings.ToLower(trimmed)

	switch {
	case greetings[lower]:
		cmd.Kind = KindGreet

	case strings.HasPrefix(lower, "edit"):
		parseEdit(&cmd, trimmed)

	case listSynonyms[lower]:
		cmd.Kind = KindListMyProducts

	case strings.HasPrefix(lower, "profile"):
		parseProfile(&cmd, trimmed)

	case strings.HasPrefix(lower, "reel") && att.Kind == AttachmentVideo:
		cmd.Kind = KindReelSubmit
		cmd.Caption = strings.TrimSpace(trimmed[4:])

	case att.Kind == AttachmentVideo:
		cmd.Kind = KindReelPrompt

	case att.Kind == AttachmentImage:
		cmd.Kind = KindImageSubmit

	default:
		cmd.Kind = KindUnrecognized
	}
	return cmd
}

// parseEdit tokenizes "edit PRODUCT_ID FIELD VALUE...". Fewer than four
// tokens without an attachment is the usage-help variant. With an
// attachment, a missing field defaults to "image" and a missing value is
// allowed.
func parseEdit(cmd *Command, text string) {
	parts := strings.Fields(text)
	if len(parts) < 4 && cmd.Attachment.Kind == AttachmentNone {
		cmd.Kind = KindEditUsage
		return
	}

	cmd.Kind = KindEdit
	if len(parts) > 1 {
		cmd.ProductID = parts[1]
	}
	if len(parts) > 2 {
		cmd.Field = strings.ToLower(parts[2])
	} else {
		cmd.Field = "image"
	}
	if len(parts) > 3 {
		cmd.Value = strings.Join(parts[3:], " ")
	}
}

// parseProfile handles "profile view" and "profile set FIELD VALUE...".
func parseProfile(cmd *Command, text string) {
	parts := strings.Fields(text)
	switch {
	case len(parts) == 2:
		cmd.Kind = KindProfileView
	case len(parts) >= 4 && strings.EqualFold(parts[1], "set"):
		cmd.Kind = KindProfileSet
		cmd.Field = strings.ToLower(parts[2])
		cmd.Value = strings.Join(parts[3:], " ")
	default:
		cmd.Kind = KindUnrecognized
	}
}
