// Package media hosts processed product images and reel videos on object
// storage. Like the vision wrapper, every operation is total: a storage
// outage degrades to fixed placeholder URLs so downstream rendering never
// sees an empty media list, and no error propagates to the caller.
package media

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ImageURLCount is the number of URLs HostImage returns. The product page
// gallery renders four slots, filled by the same upload when only one
// image exists.
const ImageURLCount = 4

// fallbackVideoURLs is the fixed rotation returned when video hosting fails.
var fallbackVideoURLs = []string{
	"https://storage.googleapis.com/gtv-videos-bucket/sample/ForBiggerBlazes.mp4",
	"https://storage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
	"https://storage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
}

// Host uploads media bytes to S3 and builds public URLs for them. A Host
// without a client is valid and always returns placeholder URLs.
type Host struct {
	client      *s3.Client
	imageBucket string
	videoBucket string

	// publicBase overrides the default virtual-hosted S3 URL prefix,
	// e.g. a CDN domain. Empty means the bucket URL.
	publicBase string
}

// NewHost creates a Host for the given buckets. client may be nil, which
// puts the Host permanently in fallback mode.
func NewHost(client *s3.Client, imageBucket, videoBucket, publicBase string) *Host {
	return &Host{
		client:      client,
		imageBucket: imageBucket,
		videoBucket: videoBucket,
		publicBase:  publicBase,
	}
}

// Available reports whether the storage collaborator is configured.
func (h *Host) Available() bool {
	return h != nil && h.client != nil && h.imageBucket != ""
}

// publicURL builds the public URL for an uploaded object.
func (h *Host) publicURL(bucket, key string) string {
	if h.publicBase != "" {
		return fmt.Sprintf("%s/%s/%s", h.publicBase, bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
}

// HostImage uploads image bytes and returns ImageURLCount public URLs (the
// uploaded URL repeated). On any failure it returns deterministically
// suffixed placeholder URLs instead.
func (h *Host) HostImage(ctx context.Context, data []byte) []string {
	if !h.Available() {
		log.Debug().Msg("Object storage not configured, using placeholder images")
		return fallbackImageURLs()
	}

	key := uuid.NewString() + ".jpg"
	contentType := "image/jpeg"
	_, err := h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &h.imageBucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		log.Error().Err(err).Str("bucket", h.imageBucket).Msg("Image upload failed, using placeholders")
		return fallbackImageURLs()
	}

	url := h.publicURL(h.imageBucket, key)
	log.Info().Str("url", url).Int("bytes", len(data)).Msg("Image hosted")

	urls := make([]string, ImageURLCount)
	for i := range urls {
		urls[i] = url
	}
	return urls
}

// HostVideo uploads video bytes and returns its public URL. On any failure
// it returns one of the fixed sample videos chosen at random.
func (h *Host) HostVideo(ctx context.Context, data []byte) string {
	if h == nil || h.client == nil || h.videoBucket == "" {
		log.Debug().Msg("Video storage not configured, using sample video")
		return fallbackVideoURL()
	}

	key := uuid.NewString() + ".mp4"
	contentType := "video/mp4"
	_, err := h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &h.videoBucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		log.Error().Err(err).Str("bucket", h.videoBucket).Msg("Video upload failed, using sample video")
		return fallbackVideoURL()
	}

	url := h.publicURL(h.videoBucket, key)
	log.Info().Str("url", url).Int("bytes", len(data)).Msg("Video hosted")
	return url
}

// fallbackImageURLs builds the placeholder set. The shared random suffix
// defeats stale caches that may hold earlier placeholder renders.
func fallbackImageURLs() []string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	suffix := hex.EncodeToString(b)

	urls := make([]string, ImageURLCount)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://storage.googleapis.com/craftlink-images/fallback%d.jpg?t=%s", i+1, suffix)
	}
	return urls
}

func fallbackVideoURL() string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(fallbackVideoURLs))))
	if err != nil {
		return fallbackVideoURLs[0]
	}
	return fallbackVideoURLs[n.Int64()]
}
