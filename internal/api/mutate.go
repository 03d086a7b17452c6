package api

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/craftlink/storefront/internal/catalog"
	"github.com/craftlink/storefront/internal/shipping"
)

const (
	// maxUploadBytes bounds a multipart request body.
	maxUploadBytes = 32 << 20
	// maxProductImages caps the hosted image URLs stored per product.
	maxProductImages = 4
)

// POST /api/create-product (multipart)
//
// Required fields: title, description, category, price, artisan_name,
// artisan_region, whatsapp_number. One or more files under "images".
// The description is enhanced by the model before the product is saved.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	title := r.FormValue("title")
	description := r.FormValue("description")
	category := r.FormValue("category")
	for _, required := range []string{title, description, category} {
		if required == "" {
			httpError(w, http.StatusBadRequest, "title, description, and category are required")
			return
		}
	}
	price, err := strconv.Atoi(r.FormValue("price"))
	if err != nil || price < 0 {
		httpError(w, http.StatusBadRequest, "price must be a non-negative number")
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		httpError(w, http.StatusBadRequest, "at least one image is required")
		return
	}

	log.Info().Str("title", title).Int("images", len(files)).Msg("Web product creation started")

	var imageURLs []string
	for _, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			httpError(w, http.StatusBadRequest, "unreadable image upload")
			return
		}
		imageURLs = append(imageURLs, s.host.HostImage(r.Context(), data)...)
	}
	if len(imageURLs) > maxProductImages {
		imageURLs = imageURLs[:maxProductImages]
	}

	enhancement := s.describer.EnhanceListing(r.Context(), title, description, category)

	product := catalog.Product{
		ID:              uuid.NewString(),
		Title:           title,
		Description:     enhancement.EnhancedDescription,
		Price:           price,
		Category:        strings.ToLower(category),
		Images:          imageURLs,
		OwnerPhone:      r.FormValue("whatsapp_number"),
		ArtisanName:     r.FormValue("artisan_name"),
		ArtisanRegion:   r.FormValue("artisan_region"),
		Rating:          4.5 + float64(rand.Intn(5))/10,
		ReviewsCount:    rand.Intn(25),
		OrdersCompleted: rand.Intn(50),
		Tags:            enhancement.Tags,
		Features:        enhancement.Features,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.UpsertProduct(product); err != nil {
		log.Error().Err(err).Msg("Web product creation failed")
		httpError(w, http.StatusInternalServerError, "Error creating product")
		return
	}
	if err := s.publisher.PublishProduct(r.Context(), product.ID); err != nil {
		log.Error().Err(err).Str("productId", product.ID).Msg("Publish failed, product saved anyway")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Product created successfully!",
		"product_url": s.publisher.ProductURL(product.ID),
		"product_id":  product.ID,
	})
}

// POST /api/edit-product (multipart or form)
//
// product_id plus any of: price, description, an "image" file. Fields
// that fail validation are skipped rather than rejected; the response
// reports whether anything changed.
func (s *Server) handleEditProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && err != http.ErrNotMultipart {
		httpError(w, http.StatusBadRequest, "invalid form")
		return
	}

	id := r.FormValue("product_id")
	product, err := s.store.GetProduct(id)
	if err != nil {
		httpError(w, http.StatusNotFound, "Product not found")
		return
	}

	updated := false
	if price := r.FormValue("price"); price != "" {
		if n, err := strconv.Atoi(price); err == nil && n >= 0 {
			product.Price = n
			updated = true
		}
	}
	if description := r.FormValue("description"); description != "" {
		product.Description = description
		updated = true
	}
	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["image"]; len(files) > 0 {
			data, err := readUpload(files[0])
			if err != nil {
				httpError(w, http.StatusBadRequest, "unreadable image upload")
				return
			}
			product.Images = s.host.HostImage(r.Context(), data)
			updated = true
		}
	}

	if !updated {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "No changes were made",
		})
		return
	}

	if err := s.store.UpsertProduct(*product); err != nil {
		log.Error().Err(err).Str("productId", id).Msg("Web product edit failed")
		httpError(w, http.StatusInternalServerError, "Error updating product")
		return
	}
	if err := s.publisher.PublishProduct(r.Context(), id); err != nil {
		log.Error().Err(err).Str("productId", id).Msg("Publish failed, edit saved anyway")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Product updated successfully",
		"product": map[string]interface{}{
			"id":          id,
			"title":       product.Title,
			"price":       product.Price,
			"description": product.Description,
			"shop_url":    s.publisher.ProductURL(id),
		},
	})
}

// POST /api/ship
//
// product_id and buyer phone ("to"). Creates a demo shipping label and
// sends the tracking number to the buyer.
func (s *Server) handleShip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := r.ParseForm(); err != nil {
		httpError(w, http.StatusBadRequest, "invalid form")
		return
	}

	id := r.PostFormValue("product_id")
	if _, err := s.store.GetProduct(id); err != nil {
		httpError(w, http.StatusNotFound, "Product not found")
		return
	}

	label := shipping.CreateLabel(id)
	if to := r.PostFormValue("to"); to != "" {
		shipping.SendTracking(r.Context(), s.notifier, to, label.AWB)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"label":   label,
	})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadBytes))
}
