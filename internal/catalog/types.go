package catalog

import "time"

// Retention bounds for the persisted collections. Inserts past the bound
// evict the oldest record.
const (
	MaxProducts = 50
	MaxReels    = 100
)

// Product is one catalog listing. The ID is generated at creation and never
// changes; a given ID has exactly one authoritative record in the document.
type Product struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Price           int       `json:"price"`
	Category        string    `json:"category"`
	Images          []string  `json:"images"`
	OwnerPhone      string    `json:"user_phone"`
	ArtisanName     string    `json:"artisan_name,omitempty"`
	ArtisanRegion   string    `json:"artisan_region,omitempty"`
	Rating          float64   `json:"rating,omitempty"`
	ReviewsCount    int       `json:"reviews_count,omitempty"`
	OrdersCompleted int       `json:"orders_completed,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	Features        []string  `json:"features,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Seller is a seller profile, keyed by phone number. Updates merge into the
// existing record; a profile is created lazily on the first update.
type Seller struct {
	Phone  string   `json:"phone"`
	Name   string   `json:"name,omitempty"`
	Region string   `json:"region,omitempty"`
	Bio    string   `json:"bio,omitempty"`
	Skills []string `json:"skills,omitempty"`
}

// Reel is a published short video. Immutable after creation. The owner name
// and region are snapshotted from the seller profile at creation time.
type Reel struct {
	ID          string    `json:"id"`
	VideoURL    string    `json:"video_url"`
	Caption     string    `json:"caption"`
	OwnerPhone  string    `json:"user_phone"`
	OwnerName   string    `json:"owner_name,omitempty"`
	OwnerRegion string    `json:"owner_region,omitempty"`
	Likes       int       `json:"likes,omitempty"`
	Views       int       `json:"views,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
