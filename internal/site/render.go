// Package site regenerates the static shop from the current catalog
// snapshot and pushes it to the hosting provider. Both steps are
// best-effort: a failed render or deploy never rolls back the catalog
// write that triggered it. The catalog document is the source of truth.
package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/craftlink/storefront/internal/catalog"
)

// publicSnapshotSize bounds the products.json snapshot published with the
// site; the shop front page shows recent listings only.
const publicSnapshotSize = 20

// Renderer writes static HTML pages and the public catalog snapshot under
// a site directory.
type Renderer struct {
	dir     string
	baseURL string
	tmpl    *template.Template
}

// NewRenderer creates a Renderer writing under dir. baseURL is the public
// root of the hosted site, used for page-to-page links.
func NewRenderer(dir, baseURL string) (*Renderer, error) {
	tmpl, err := template.New("site").Parse(productPageTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse product template: %w", err)
	}
	if _, err := tmpl.New("index").Parse(indexPageTmpl); err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}
	if _, err := tmpl.New("seller").Parse(sellerPageTmpl); err != nil {
		return nil, fmt.Errorf("parse seller template: %w", err)
	}
	return &Renderer{dir: dir, baseURL: baseURL, tmpl: tmpl}, nil
}

// Dir returns the site output directory.
func (r *Renderer) Dir() string { return r.dir }

// ProductURL returns the public URL of a product page.
func (r *Renderer) ProductURL(id string) string {
	return fmt.Sprintf("%s/product/%s.html", r.baseURL, id)
}

// writeFile writes data to a path under the site directory, creating
// parent directories as needed.
func (r *Renderer) writeFile(rel string, data []byte) error {
	path := filepath.Join(r.dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create site dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

type productPageData struct {
	Product catalog.Product
	ShortID string
	BaseURL string
}

// RenderProduct writes the product page for p.
func (r *Renderer) RenderProduct(p catalog.Product) error {
	data := productPageData{Product: p, ShortID: shortID(p.ID), BaseURL: r.baseURL}
	html, err := execute(r.tmpl, "site", data)
	if err != nil {
		return err
	}
	return r.writeFile(filepath.Join("product", p.ID+".html"), html)
}

type indexPageData struct {
	Products []catalog.Product
	Reels    []catalog.Reel
	BaseURL  string
}

// RenderIndex writes the shop index listing all products and reels.
func (r *Renderer) RenderIndex(products []catalog.Product, reels []catalog.Reel) error {
	html, err := execute(r.tmpl, "index", indexPageData{Products: products, Reels: reels, BaseURL: r.baseURL})
	if err != nil {
		return err
	}
	return r.writeFile("index.html", html)
}

type sellerPageData struct {
	Seller   catalog.Seller
	Products []catalog.Product
	BaseURL  string
}

// RenderSeller writes one seller profile page with that seller's products.
func (r *Renderer) RenderSeller(s catalog.Seller, products []catalog.Product) error {
	html, err := execute(r.tmpl, "seller", sellerPageData{Seller: s, Products: products, BaseURL: r.baseURL})
	if err != nil {
		return err
	}
	return r.writeFile(filepath.Join("seller", s.Phone+".html"), html)
}

// RenderSnapshot writes the public products.json snapshot (the most recent
// listings only) consumed by the shop front page.
func (r *Renderer) RenderSnapshot(products []catalog.Product) error {
	if n := len(products); n > publicSnapshotSize {
		products = products[n-publicSnapshotSize:]
	}
	data, err := json.MarshalIndent(struct {
		Products []catalog.Product `json:"products"`
	}{Products: products}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return r.writeFile("products.json", data)
}

func execute(tmpl *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
