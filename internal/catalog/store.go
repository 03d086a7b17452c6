// Package catalog owns the on-disk product, seller, and reel collections.
//
// Each collection is one JSON document with a single named array field
// (products.json, sellers.json, reels.json). Every mutation is a whole
// document load-modify-store under an exclusive per-collection lock, and
// the store is written via a temp file plus rename so a reader never
// observes a partially written document.
//
// An absent or unparsable document is treated as an empty collection rather
// than an error. The catalog is not a system of record for anything
// irrecoverable, so availability wins over strictness here.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when a record with the requested ID or phone does
// not exist in its collection.
var ErrNotFound = errors.New("catalog: record not found")

// Store provides access to the three catalog documents under a data
// directory. All methods are safe for concurrent use; writers to the same
// collection serialize on a per-collection mutex.
type Store struct {
	dir string

	productsMu sync.Mutex
	sellersMu  sync.Mutex
	reelsMu    sync.Mutex
}

// NewStore creates a Store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory the store was created with.
func (s *Store) Dir() string { return s.dir }

// ProductsPath returns the path of the products document.
func (s *Store) ProductsPath() string { return filepath.Join(s.dir, "products.json") }

// SellersPath returns the path of the sellers document.
func (s *Store) SellersPath() string { return filepath.Join(s.dir, "sellers.json") }

// ReelsPath returns the path of the reels document.
func (s *Store) ReelsPath() string { return filepath.Join(s.dir, "reels.json") }

// --- document envelopes ---

type productsDoc struct {
	Products []Product `json:"products"`
}

type sellersDoc struct {
	Sellers []Seller `json:"sellers"`
}

type reelsDoc struct {
	Reels []Reel `json:"reels"`
}

// loadDoc reads and decodes a collection document into out. A missing or
// corrupt file leaves out at its zero value.
func loadDoc(path string, out any) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("Failed to read catalog document")
		}
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Catalog document unparsable, treating as empty")
	}
}

// saveDoc encodes a collection document and replaces path atomically.
func saveDoc(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace catalog document: %w", err)
	}
	return nil
}

// --- products ---

// GetProduct returns the product with the given ID, or ErrNotFound.
func (s *Store) GetProduct(id string) (*Product, error) {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()

	var doc productsDoc
	loadDoc(s.ProductsPath(), &doc)
	for i := range doc.Products {
		if doc.Products[i].ID == id {
			p := doc.Products[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// UpsertProduct inserts p, or replaces the existing record in place when the
// ID is already present, preserving its position. New records append at the
// tail; the oldest records are evicted while the collection exceeds
// MaxProducts.
func (s *Store) UpsertProduct(p Product) error {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()

	var doc productsDoc
	loadDoc(s.ProductsPath(), &doc)

	replaced := false
	for i := range doc.Products {
		if doc.Products[i].ID == p.ID {
			doc.Products[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Products = append(doc.Products, p)
		if n := len(doc.Products); n > MaxProducts {
			doc.Products = doc.Products[n-MaxProducts:]
		}
	}

	if err := saveDoc(s.ProductsPath(), &doc); err != nil {
		return err
	}
	log.Debug().Str("id", p.ID).Bool("replaced", replaced).Int("total", len(doc.Products)).Msg("Product upserted")
	return nil
}

// ListProducts returns all products, oldest first.
func (s *Store) ListProducts() []Product {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()

	var doc productsDoc
	loadDoc(s.ProductsPath(), &doc)
	return doc.Products
}

// ProductsByOwner returns the products owned by the given phone number,
// oldest first.
func (s *Store) ProductsByOwner(phone string) []Product {
	var owned []Product
	for _, p := range s.ListProducts() {
		if p.OwnerPhone == phone {
			owned = append(owned, p)
		}
	}
	return owned
}

// --- sellers ---

// GetSeller returns the profile for the given phone, or ErrNotFound.
func (s *Store) GetSeller(phone string) (*Seller, error) {
	s.sellersMu.Lock()
	defer s.sellersMu.Unlock()

	var doc sellersDoc
	loadDoc(s.SellersPath(), &doc)
	for i := range doc.Sellers {
		if doc.Sellers[i].Phone == phone {
			sl := doc.Sellers[i]
			return &sl, nil
		}
	}
	return nil, ErrNotFound
}

// UpsertSeller merges the non-empty fields of upd into the existing profile
// for upd.Phone, creating the profile when none exists.
func (s *Store) UpsertSeller(upd Seller) error {
	s.sellersMu.Lock()
	defer s.sellersMu.Unlock()

	var doc sellersDoc
	loadDoc(s.SellersPath(), &doc)

	merged := false
	for i := range doc.Sellers {
		if doc.Sellers[i].Phone == upd.Phone {
			mergeSeller(&doc.Sellers[i], upd)
			merged = true
			break
		}
	}
	if !merged {
		doc.Sellers = append(doc.Sellers, upd)
	}

	if err := saveDoc(s.SellersPath(), &doc); err != nil {
		return err
	}
	log.Debug().Str("phone", upd.Phone).Bool("created", !merged).Msg("Seller profile upserted")
	return nil
}

// ListSellers returns all seller profiles.
func (s *Store) ListSellers() []Seller {
	s.sellersMu.Lock()
	defer s.sellersMu.Unlock()

	var doc sellersDoc
	loadDoc(s.SellersPath(), &doc)
	return doc.Sellers
}

func mergeSeller(dst *Seller, upd Seller) {
	if upd.Name != "" {
		dst.Name = upd.Name
	}
	if upd.Region != "" {
		dst.Region = upd.Region
	}
	if upd.Bio != "" {
		dst.Bio = upd.Bio
	}
	if len(upd.Skills) > 0 {
		dst.Skills = upd.Skills
	}
}

// --- reels ---

// AddReel appends r to the reels collection, evicting the oldest reels while
// the collection exceeds MaxReels.
func (s *Store) AddReel(r Reel) error {
	s.reelsMu.Lock()
	defer s.reelsMu.Unlock()

	var doc reelsDoc
	loadDoc(s.ReelsPath(), &doc)
	doc.Reels = append(doc.Reels, r)
	if n := len(doc.Reels); n > MaxReels {
		doc.Reels = doc.Reels[n-MaxReels:]
	}

	if err := saveDoc(s.ReelsPath(), &doc); err != nil {
		return err
	}
	log.Debug().Str("id", r.ID).Int("total", len(doc.Reels)).Msg("Reel added")
	return nil
}

// ListReels returns all reels, oldest first.
func (s *Store) ListReels() []Reel {
	s.reelsMu.Lock()
	defer s.reelsMu.Unlock()

	var doc reelsDoc
	loadDoc(s.ReelsPath(), &doc)
	return doc.Reels
}
