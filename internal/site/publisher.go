package site

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/craftlink/storefront/internal/catalog"
	"github.com/rs/zerolog/log"
)

// Deployer pushes the rendered site directory to the hosting provider.
type Deployer interface {
	Deploy(ctx context.Context) error
	Available() bool
}

// FirebaseDeployer shells out to the Firebase CLI to deploy the hosting
// target rooted at workDir.
type FirebaseDeployer struct {
	workDir string
	timeout time.Duration
}

// NewFirebaseDeployer creates a FirebaseDeployer running `firebase deploy`
// from workDir.
func NewFirebaseDeployer(workDir string) *FirebaseDeployer {
	return &FirebaseDeployer{workDir: workDir, timeout: 5 * time.Minute}
}

// Available reports whether a deploy target is configured.
func (d *FirebaseDeployer) Available() bool {
	return d != nil && d.workDir != ""
}

// Deploy runs the Firebase hosting deploy with a hard timeout.
func (d *FirebaseDeployer) Deploy(ctx context.Context) error {
	if !d.Available() {
		return fmt.Errorf("deploy target not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "firebase", "deploy", "--only", "hosting", "--non-interactive")
	cmd.Dir = d.workDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("firebase deploy: %w: %s", err, out)
	}

	log.Info().Str("workDir", d.workDir).Msg("Site deployed")
	return nil
}

// NoopDeployer renders pages without pushing them anywhere. Used when no
// deploy target is configured, and by tests.
type NoopDeployer struct{}

func (NoopDeployer) Deploy(context.Context) error { return nil }
func (NoopDeployer) Available() bool              { return false }

// Publisher regenerates static pages from the catalog and triggers a
// deploy. Invoked after any catalog mutation that should become publicly
// visible; callers treat failures as log-only.
type Publisher struct {
	catalog  *catalog.Store
	renderer *Renderer
	deployer Deployer
}

// NewPublisher wires a Publisher from its collaborators.
func NewPublisher(store *catalog.Store, renderer *Renderer, deployer Deployer) *Publisher {
	return &Publisher{catalog: store, renderer: renderer, deployer: deployer}
}

// ProductURL returns the public URL of a product page.
func (p *Publisher) ProductURL(id string) string {
	return p.renderer.ProductURL(id)
}

// Available reports whether the deploy collaborator is configured.
func (p *Publisher) Available() bool {
	return p != nil && p.deployer != nil && p.deployer.Available()
}

// PublishProduct regenerates the page for one product plus the shop index
// and snapshot, then deploys. The first render error aborts the remaining
// steps; the deploy error is returned for logging only.
func (p *Publisher) PublishProduct(ctx context.Context, id string) error {
	product, err := p.catalog.GetProduct(id)
	if err != nil {
		return fmt.Errorf("publish product %s: %w", id, err)
	}
	if err := p.renderer.RenderProduct(*product); err != nil {
		return err
	}
	if err := p.refreshIndex(); err != nil {
		return err
	}
	return p.deploy(ctx)
}

// PublishAll regenerates every derived page from the current catalog
// snapshot, then deploys.
func (p *Publisher) PublishAll(ctx context.Context) error {
	products := p.catalog.ListProducts()
	for _, product := range products {
		if err := p.renderer.RenderProduct(product); err != nil {
			return err
		}
	}
	for _, seller := range p.catalog.ListSellers() {
		if err := p.renderer.RenderSeller(seller, p.catalog.ProductsByOwner(seller.Phone)); err != nil {
			return err
		}
	}
	if err := p.refreshIndex(); err != nil {
		return err
	}
	return p.deploy(ctx)
}

func (p *Publisher) refreshIndex() error {
	products := p.catalog.ListProducts()
	if err := p.renderer.RenderIndex(products, p.catalog.ListReels()); err != nil {
		return err
	}
	return p.renderer.RenderSnapshot(products)
}

func (p *Publisher) deploy(ctx context.Context) error {
	if !p.deployer.Available() {
		log.Debug().Msg("No deploy target configured, pages rendered locally only")
		return nil
	}
	if err := p.deployer.Deploy(ctx); err != nil {
		return fmt.Errorf("deploy: %w", err)
	}
	return nil
}
