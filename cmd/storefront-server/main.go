package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/craftlink/storefront/internal/api"
	"github.com/craftlink/storefront/internal/bot"
	"github.com/craftlink/storefront/internal/catalog"
	"github.com/craftlink/storefront/internal/config"
	"github.com/craftlink/storefront/internal/jobs"
	"github.com/craftlink/storefront/internal/logging"
	"github.com/craftlink/storefront/internal/media"
	"github.com/craftlink/storefront/internal/site"
	"github.com/craftlink/storefront/internal/twilio"
	"github.com/craftlink/storefront/internal/vision"
	"github.com/craftlink/storefront/internal/webhook"
)

// CLI flags
var (
	portFlag    int
	dataDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "storefront-server",
	Short: "WhatsApp storefront generator for artisans",
	Long: `Storefront Server turns WhatsApp messages into online shops: sellers
send a product photo, the server describes it with Gemini, hosts the images,
appends the product to the catalog, renders static shop pages, and redeploys
the site. Chat commands edit products, manage seller profiles, and publish
reels.

Examples:
  storefront-server
  storefront-server --port 9090 --data-dir /var/lib/craftlink`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 0, "Port to listen on (default 8080)")
	rootCmd.Flags().StringVar(&dataDirFlag, "data-dir", "", "Catalog and site data directory")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	logging.Init()
	started := time.Now()

	cfg := config.Load()
	if portFlag != 0 {
		cfg.Port = portFlag
	}
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}

	ctx := context.Background()

	store, err := catalog.NewStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Str("dataDir", cfg.DataDir).Msg("Failed to open catalog store")
	}

	// Each collaborator is optional; an unconfigured one runs in fallback
	// mode instead of blocking startup.
	var describer *vision.Describer
	if cfg.GeminiAPIKey != "" {
		describer, err = vision.NewDescriber(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, using fallback descriptions")
	}

	var s3Client *s3.Client
	if cfg.ImageBucket != "" || cfg.VideoBucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load AWS config")
		}
		s3Client = s3.NewFromConfig(awsCfg)
	} else {
		log.Warn().Msg("No media buckets configured, using placeholder URLs")
	}
	host := media.NewHost(s3Client, cfg.ImageBucket, cfg.VideoBucket, cfg.PublicBaseURL)

	messenger := twilio.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
	if !messenger.Configured() {
		log.Warn().Msg("Twilio credentials not set, outbound messages will be dropped")
	}

	siteDir := filepath.Join(cfg.DataDir, "site")
	renderer, err := site.NewRenderer(siteDir, cfg.ShopBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build site renderer")
	}
	var deployer site.Deployer = site.NoopDeployer{}
	if cfg.DeployTarget != "" {
		deployer = site.NewFirebaseDeployer(cfg.DeployTarget)
	}
	publisher := site.NewPublisher(store, renderer, deployer)

	runner := jobs.NewRunner(messenger, describer, host, messenger, publisher, store)
	dispatcher := bot.NewDispatcher(store, messenger, host, runner, cfg.ShopBaseURL)

	mux := http.NewServeMux()
	mux.Handle("/whatsapp", webhook.NewHandler(dispatcher))
	api.NewServer(store, describer, host, publisher, messenger).Routes(mux)

	logging.NewStartupLogger("storefront-server").
		Bucket("images", cfg.ImageBucket).
		Bucket("videos", cfg.VideoBucket).
		DataFile("products", store.ProductsPath()).
		DataFile("sellers", store.SellersPath()).
		DataFile("reels", store.ReelsPath()).
		Collaborator("model", describer.Available()).
		Collaborator("storage", host.Available()).
		Collaborator("deploy", deployer.Available()).
		Collaborator("notification", messenger.Configured()).
		Config("port", strconv.Itoa(cfg.Port)).
		Config("shopBaseUrl", cfg.ShopBaseURL).
		Config("siteDir", siteDir).
		InitDuration(time.Since(started)).
		Log()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: stop accepting requests, then let in-flight
	// background jobs finish before exiting.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
		runner.Wait()
	}()

	log.Info().Int("port", cfg.Port).Msg("Starting storefront server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
	runner.Wait()
}
