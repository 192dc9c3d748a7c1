package handlers

import (
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"github.com/CyberG247/cafebyabujacar/internal/models"
)

const maxUploadBytes = 10 << 20 // 10 MB

var validCategories = map[string]bool{
	"coffee":    true,
	"pastries":  true,
	"meals":     true,
	"beverages": true,
}

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.GetPublicProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

// parseProductForm reads the multipart product form shared by create and
// update.
func (h *AdminHandler) parseProductForm(w http.ResponseWriter, r *http.Request, p *models.Product) bool {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Kind:    "bad_request",
			Message: "Invalid form data.",
		}})
		return false
	}

	p.Name = strings.TrimSpace(r.FormValue("name"))
	p.Description = strings.TrimSpace(r.FormValue("description"))
	p.Category = r.FormValue("category")
	p.Featured = r.FormValue("featured") == "true"

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Kind:    "bad_request",
			Field:   "price",
			Message: "Price must be a non-negative number.",
		}})
		return false
	}
	p.Price = price

	if p.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Kind:    "bad_request",
			Field:   "name",
			Message: "Product name is required.",
		}})
		return false
	}
	if !validCategories[p.Category] {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Kind:    "bad_request",
			Field:   "category",
			Message: "Unknown category.",
		}})
		return false
	}

	if imageURL, ok := h.saveUploadedImage(w, r); ok {
		if imageURL != "" {
			p.ImageURL = imageURL
		}
	} else {
		return false
	}
	return true
}

// saveUploadedImage stores a resized copy of the uploaded product photo and
// returns its public path. An absent file is not an error.
func (h *AdminHandler) saveUploadedImage(w http.ResponseWriter, r *http.Request) (string, bool) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", true
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Kind:    "bad_request",
			Field:   "image",
			Message: "Could not read uploaded image.",
		}})
		return "", false
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Kind:    "bad_request",
			Field:   "image",
			Message: "Image must be a valid JPEG or PNG.",
		}})
		return "", false
	}

	// Cap width at 800px; menu photos never need more.
	resized := resize.Resize(800, 0, img, resize.Lanczos3)

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		writeError(w, err)
		return "", false
	}

	ext := ".jpg"
	if format == "png" {
		ext = ".png"
	}
	filename := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(h.UploadDir, filename))
	if err != nil {
		writeError(w, err)
		return "", false
	}
	defer dst.Close()

	if format == "png" {
		err = png.Encode(dst, resized)
	} else {
		err = jpeg.Encode(dst, resized, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		writeError(w, err)
		return "", false
	}

	slog.Debug("Stored product image", "file", filename, "original", header.Filename)
	return "/static/uploads/" + filename, true
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if !h.parseProductForm(w, r, &p) {
		return
	}

	if err := h.Store.CreateProduct(r.Context(), &p); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("Product created", "id", p.ID, "name", p.Name)
	writeJSON(w, http.StatusCreated, p)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Kind:    "bad_request",
			Message: "Invalid product ID.",
		}})
		return
	}

	existing, err := h.Store.GetProductByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{
			Kind:    "not_found",
			Message: "Product not found.",
		}})
		return
	}

	p := *existing
	if !h.parseProductForm(w, r, &p) {
		return
	}

	if err := h.Store.UpdateProduct(r.Context(), &p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) ArchiveProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Kind:    "bad_request",
			Message: "Invalid product ID.",
		}})
		return
	}

	// Archiving hides a product from the menu; existing order snapshots
	// keep their copied names and prices.
	if err := h.Store.ArchiveProduct(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product archived."})
}
