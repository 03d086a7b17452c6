// Package bot routes parsed WhatsApp commands to catalog mutations and
// background jobs, and renders the reply messages for the webhook.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/craftlink/storefront/internal/catalog"
	"github.com/craftlink/storefront/internal/command"
)

// listingLimit caps how many products the myproducts reply shows.
const listingLimit = 5

// Fetcher downloads message media from the transport provider.
type Fetcher interface {
	FetchMedia(ctx context.Context, mediaURL string) ([]byte, error)
}

// Pipeline hosts raw image bytes and returns public URLs. It never fails;
// hosting problems degrade to placeholder URLs.
type Pipeline interface {
	HostImage(ctx context.Context, data []byte) []string
}

// Runner starts fire-and-forget background jobs. Handle must never block on
// media or deploy work; anything slow goes through here.
type Runner interface {
	StartImageIntake(mediaURL, sender string)
	StartVideoIntake(mediaURL, caption, sender string)
	StartRepublish(productID string)
}

// Dispatcher executes commands against the catalog. It holds no state of its
// own; every reply is computed from the command and the current catalog.
type Dispatcher struct {
	store    *catalog.Store
	fetcher  Fetcher
	pipeline Pipeline
	runner   Runner
	shopBase string
}

func NewDispatcher(store *catalog.Store, fetcher Fetcher, pipeline Pipeline, runner Runner, shopBase string) *Dispatcher {
	return &Dispatcher{
		store:    store,
		fetcher:  fetcher,
		pipeline: pipeline,
		runner:   runner,
		shopBase: strings.TrimRight(shopBase, "/"),
	}
}

// NormalizePhone strips the transport channel prefix from a sender
// identifier, leaving the bare phone number used as the catalog owner key.
func NormalizePhone(sender string) string {
	return strings.TrimPrefix(sender, "whatsapp:")
}

// AttachmentFromForm maps the webhook form fields to an attachment. A zero
// media count means no attachment regardless of the other fields.
func AttachmentFromForm(numMedia, mediaURL, contentType string) command.Attachment {
	if numMedia == "" || numMedia == "0" || mediaURL == "" {
		return command.Attachment{}
	}
	kind := command.AttachmentImage
	if strings.HasPrefix(contentType, "video/") {
		kind = command.AttachmentVideo
	}
	return command.Attachment{Kind: kind, Ref: mediaURL}
}

// Handle executes one command and returns the reply messages, in order, for
// the transport to send back. Slow work (media fetch for new products, site
// deploys) is handed to the Runner; only edits run inline.
func (d *Dispatcher) Handle(ctx context.Context, cmd command.Command) []string {
	switch cmd.Kind {
	case command.KindGreet:
		return []string{replyWelcome}
	case command.KindEdit:
		return []string{d.handleEdit(ctx, cmd)}
	case command.KindEditUsage:
		return []string{replyEditUsage}
	case command.KindListMyProducts:
		return []string{d.handleListProducts(cmd.Sender)}
	case command.KindProfileView:
		return []string{d.handleProfileView(cmd.Sender)}
	case command.KindProfileSet:
		return []string{d.handleProfileSet(cmd)}
	case command.KindImageSubmit:
		d.runner.StartImageIntake(cmd.Attachment.Ref, cmd.Sender)
		return []string{replyImageAck}
	case command.KindReelSubmit:
		d.runner.StartVideoIntake(cmd.Attachment.Ref, cmd.Caption, cmd.Sender)
		return []string{replyReelAck}
	case command.KindReelPrompt:
		return []string{replyReelPrompt}
	default:
		return []string{replyUnrecognized}
	}
}

func (d *Dispatcher) handleEdit(ctx context.Context, cmd command.Command) string {
	log.Info().
		Str("productId", cmd.ProductID).
		Str("field", cmd.Field).
		Msg("Processing edit command")

	product, err := d.store.GetProduct(cmd.ProductID)
	if errors.Is(err, catalog.ErrNotFound) {
		return replyProductNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("productId", cmd.ProductID).Msg("Edit lookup failed")
		return fmt.Sprintf("❌ Error: %v", err)
	}

	switch cmd.Field {
	case "price":
		price, ok := parsePrice(cmd.Value)
		if !ok {
			return replyPriceNotNumber
		}
		product.Price = price
	case "description":
		product.Description = cmd.Value
	case "title":
		product.Title = cmd.Value
	case "category":
		product.Category = cmd.Value
	case "image":
		if cmd.Attachment.Kind == command.AttachmentNone {
			return replyEditImageNoMedia
		}
		data, err := d.fetcher.FetchMedia(ctx, cmd.Attachment.Ref)
		if err != nil {
			log.Error().Err(err).Str("productId", cmd.ProductID).Msg("Edit image download failed")
			return fmt.Sprintf("❌ Error: %v", err)
		}
		product.Images = d.pipeline.HostImage(ctx, data)
	default:
		return replyInvalidEditField
	}

	if err := d.store.UpsertProduct(*product); err != nil {
		log.Error().Err(err).Str("productId", cmd.ProductID).Msg("Edit write failed")
		return fmt.Sprintf("❌ Error: %v", err)
	}
	d.runner.StartRepublish(product.ID)
	return fmt.Sprintf("✅ Updated %s for product %s", cmd.Field, shortID(cmd.ProductID))
}

// parsePrice accepts whole non-negative rupee amounts only. Anything with a
// sign, decimal point, or stray characters is rejected.
func parsePrice(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	n := 0
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

func (d *Dispatcher) handleListProducts(sender string) string {
	products := d.store.ProductsByOwner(NormalizePhone(sender))
	if len(products) == 0 {
		return replyNoProducts
	}
	if len(products) > listingLimit {
		products = products[len(products)-listingLimit:]
	}

	var b strings.Builder
	b.WriteString("📋 Your Products:\n\n")
	for _, p := range products {
		fmt.Fprintf(&b, "🆔 %s...\n", shortID(p.ID))
		fmt.Fprintf(&b, "📦 %s\n", p.Title)
		fmt.Fprintf(&b, "💰 ₹%d\n", p.Price)
		fmt.Fprintf(&b, "🔗 %s/product/%s.html\n", d.shopBase, p.ID)
		b.WriteString("━━━━━━━━━━━━━━━━━━━━\n")
	}
	b.WriteString("\nTo edit: 'edit PRODUCT_ID field value'\nExample: 'edit abc123 price 500'")
	return b.String()
}

func (d *Dispatcher) handleProfileView(sender string) string {
	seller, err := d.store.GetSeller(NormalizePhone(sender))
	if errors.Is(err, catalog.ErrNotFound) {
		return replyNoProfile
	}
	if err != nil {
		log.Error().Err(err).Msg("Profile lookup failed")
		return fmt.Sprintf("❌ Error: %v", err)
	}

	var b strings.Builder
	b.WriteString("👤 Your Profile:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", orUnset(seller.Name))
	fmt.Fprintf(&b, "Region: %s\n", orUnset(seller.Region))
	fmt.Fprintf(&b, "Bio: %s\n", orUnset(seller.Bio))
	fmt.Fprintf(&b, "Skills: %s\n", orUnset(strings.Join(seller.Skills, ", ")))
	b.WriteString("\nTo update: 'profile set FIELD VALUE'\nFields: name, region, bio, skills")
	return b.String()
}

func (d *Dispatcher) handleProfileSet(cmd command.Command) string {
	upd := catalog.Seller{Phone: NormalizePhone(cmd.Sender)}
	switch cmd.Field {
	case "name":
		upd.Name = cmd.Value
	case "region":
		upd.Region = cmd.Value
	case "bio":
		upd.Bio = cmd.Value
	case "skills":
		upd.Skills = splitSkills(cmd.Value)
	default:
		return replyInvalidProfileField
	}

	if err := d.store.UpsertSeller(upd); err != nil {
		log.Error().Err(err).Msg("Profile write failed")
		return fmt.Sprintf("❌ Error: %v", err)
	}
	return fmt.Sprintf("✅ Profile updated: %s", cmd.Field)
}

func splitSkills(value string) []string {
	var skills []string
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
