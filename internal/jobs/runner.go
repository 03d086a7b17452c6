// Package jobs runs the background intake work started by the webhook.
// Jobs are fire-and-forget: the dispatcher acknowledges the message and
// returns, and everything slow (media download, model calls, uploads,
// deploys) happens here on a fresh goroutine. Progress and failure are
// reported back to the sender over WhatsApp, never to the caller.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/craftlink/storefront/internal/catalog"
	"github.com/craftlink/storefront/internal/metrics"
	"github.com/craftlink/storefront/internal/vision"
)

const (
	errImageIntake = "⚠️ Sorry, I encountered an error processing your image. Please try again."
	errVideoIntake = "⚠️ Sorry, I encountered an error processing your video. Please try again."
)

// Fetcher downloads message media from the transport provider.
type Fetcher interface {
	FetchMedia(ctx context.Context, mediaURL string) ([]byte, error)
}

// Describer produces a structured analysis of a product photo. Total; the
// vision package degrades to fallback content internally.
type Describer interface {
	DescribeImage(ctx context.Context, data []byte, mimeType string) vision.Analysis
}

// Host uploads media bytes and returns public URLs. Total; hosting failures
// degrade to placeholder URLs internally.
type Host interface {
	HostImage(ctx context.Context, data []byte) []string
	HostVideo(ctx context.Context, data []byte) string
}

// Notifier sends an outbound message to a phone identifier.
type Notifier interface {
	Send(ctx context.Context, to, body string) error
}

// Publisher regenerates site pages and deploys.
type Publisher interface {
	PublishProduct(ctx context.Context, id string) error
	PublishAll(ctx context.Context) error
	ProductURL(id string) string
}

// Runner owns the background job goroutines. Wait blocks until all started
// jobs have finished; the server calls it during shutdown so in-flight
// intakes complete before the process exits.
type Runner struct {
	fetcher   Fetcher
	describer Describer
	host      Host
	notifier  Notifier
	publisher Publisher
	store     *catalog.Store

	wg sync.WaitGroup
}

func NewRunner(fetcher Fetcher, describer Describer, host Host, notifier Notifier, publisher Publisher, store *catalog.Store) *Runner {
	return &Runner{
		fetcher:   fetcher,
		describer: describer,
		host:      host,
		notifier:  notifier,
		publisher: publisher,
		store:     store,
	}
}

// Wait blocks until every started job has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// start runs fn on a new goroutine under the job ID. The job's context is
// detached from the originating request so a completed webhook response
// does not cancel the work.
func (r *Runner) start(jobID, kind string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		started := time.Now()
		log.Info().Str("job", jobID).Msg("Job started")

		err := fn(context.Background())

		rec := metrics.New().
			Dimension("Job", kind).
			Duration("JobLatencyMs", time.Since(started)).
			Property("jobId", jobID)
		if err != nil {
			log.Error().Err(err).Str("job", jobID).Msg("Job failed")
			rec.Count("JobsFailed").Flush()
			return
		}
		log.Info().Str("job", jobID).Dur("duration", time.Since(started)).Msg("Job complete")
		rec.Count("JobsCompleted").Flush()
	}()
}

// StartImageIntake begins the photo-to-shop pipeline for one inbound image.
func (r *Runner) StartImageIntake(mediaURL, sender string) {
	r.start(GenerateID("img-"), "image_intake", func(ctx context.Context) error {
		return r.runImageIntake(ctx, mediaURL, sender)
	})
}

// StartVideoIntake begins the reel-publishing pipeline for one inbound video.
func (r *Runner) StartVideoIntake(mediaURL, caption, sender string) {
	r.start(GenerateID("vid-"), "video_intake", func(ctx context.Context) error {
		return r.runVideoIntake(ctx, mediaURL, caption, sender)
	})
}

// StartRepublish regenerates and redeploys pages after a product edit.
func (r *Runner) StartRepublish(productID string) {
	r.start(GenerateID("pub-"), "republish", func(ctx context.Context) error {
		return r.publisher.PublishProduct(ctx, productID)
	})
}

func (r *Runner) runImageIntake(ctx context.Context, mediaURL, sender string) error {
	data, err := r.fetcher.FetchMedia(ctx, mediaURL)
	if err != nil {
		r.notify(ctx, sender, errImageIntake)
		return fmt.Errorf("download image: %w", err)
	}

	analysis := r.describer.DescribeImage(ctx, data, "image/jpeg")
	r.notify(ctx, sender, analysis.Description)

	imageURLs := r.host.HostImage(ctx, data)

	product := catalog.Product{
		ID:            uuid.NewString(),
		Title:         analysis.Title,
		Description:   analysis.Description,
		Price:         analysis.Price,
		Category:      analysis.Category,
		Images:        imageURLs,
		OwnerPhone:    strings.TrimPrefix(sender, "whatsapp:"),
		ArtisanRegion: "India",
		CreatedAt:     time.Now().UTC(),
	}
	if err := r.store.UpsertProduct(product); err != nil {
		r.notify(ctx, sender, errImageIntake)
		return fmt.Errorf("save product: %w", err)
	}

	// The shop URL is valid even when the deploy itself fails; pages are
	// rendered locally and picked up by the next successful deploy.
	if err := r.publisher.PublishProduct(ctx, product.ID); err != nil {
		log.Error().Err(err).Str("productId", product.ID).Msg("Publish failed, shop link sent anyway")
	}

	r.notify(ctx, sender, fmt.Sprintf("🛍️ Your shop is ready: %s", r.publisher.ProductURL(product.ID)))
	r.notify(ctx, sender, editInstructions(product.ID))
	return nil
}

func editInstructions(productID string) string {
	short := productID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("📦 We'll help you with shipping and payments!\n\n"+
		"To edit this product later:\n"+
		"• edit %s price NEW_PRICE\n"+
		"• edit %s description \"NEW_DESCRIPTION\"\n"+
		"• edit %s image + send new photo\n"+
		"• Type 'myproducts' to see all your items", short, short, short)
}

func (r *Runner) runVideoIntake(ctx context.Context, mediaURL, caption, sender string) error {
	data, err := r.fetcher.FetchMedia(ctx, mediaURL)
	if err != nil {
		r.notify(ctx, sender, errVideoIntake)
		return fmt.Errorf("download video: %w", err)
	}

	videoURL := r.host.HostVideo(ctx, data)

	phone := strings.TrimPrefix(sender, "whatsapp:")
	reel := catalog.Reel{
		ID:         uuid.NewString(),
		VideoURL:   videoURL,
		Caption:    caption,
		OwnerPhone: phone,
		CreatedAt:  time.Now().UTC(),
	}
	if seller, err := r.store.GetSeller(phone); err == nil {
		reel.OwnerName = seller.Name
		reel.OwnerRegion = seller.Region
	}
	if err := r.store.AddReel(reel); err != nil {
		r.notify(ctx, sender, errVideoIntake)
		return fmt.Errorf("save reel: %w", err)
	}

	if err := r.publisher.PublishAll(ctx); err != nil {
		log.Error().Err(err).Str("reelId", reel.ID).Msg("Publish failed, reel saved anyway")
	}

	r.notify(ctx, sender, "🎬 Your reel is live on the shop page!")
	return nil
}

// notify sends best-effort: a failed outbound message is logged and dropped
// so one Twilio hiccup does not abort the rest of the pipeline.
func (r *Runner) notify(ctx context.Context, to, body string) {
	if err := r.notifier.Send(ctx, to, body); err != nil {
		log.Error().Err(err).Str("to", to).Msg("Failed to send notification")
	}
}
