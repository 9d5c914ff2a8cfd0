package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// AdminHandler handles catalog management requests. Routes are guarded by
// middleware.RequireAdmin.
type AdminHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(service service.CatalogService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("handler", "admin").Logger(),
	}
}

// CreateCategory handles POST /api/admin/categories requests.
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in model.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	created, err := h.service.CreateCategory(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCategory handles PUT /api/admin/categories/{id} requests.
func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	var in model.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	updated, err := h.service.UpdateCategory(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCategory handles DELETE /api/admin/categories/{id} requests.
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.service.DeleteCategory)
}

// CreateSubcategory handles POST /api/admin/subcategories requests.
func (h *AdminHandler) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	var in model.SubcategoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	created, err := h.service.CreateSubcategory(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateSubcategory handles PUT /api/admin/subcategories/{id} requests.
func (h *AdminHandler) UpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	var in model.SubcategoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	updated, err := h.service.UpdateSubcategory(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteSubcategory handles DELETE /api/admin/subcategories/{id} requests.
func (h *AdminHandler) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.service.DeleteSubcategory)
}

// CreateProduct handles POST /api/admin/products requests.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	in, image, err := h.readProduct(w, r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	defer closeImage(image)

	created, err := h.service.CreateProduct(r.Context(), in, image)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateProduct handles PUT /api/admin/products/{id} requests.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	in, image, err := h.readProduct(w, r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	defer closeImage(image)

	updated, err := h.service.UpdateProduct(r.Context(), id, in, image)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /api/admin/products/{id} requests.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.service.DeleteProduct)
}

func (h *AdminHandler) delete(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int64) error) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}
	if err := fn(r.Context(), id); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readProduct accepts either a multipart form with a "product" JSON field and
// an optional "image" file, or a plain JSON body.
func (h *AdminHandler) readProduct(w http.ResponseWriter, r *http.Request) (model.ProductInput, *model.ImageUpload, error) {
	var in model.ProductInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return in, nil, decodeJSON(r, &in)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return in, nil, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid multipart body")
	}

	raw := r.FormValue("product")
	if strings.TrimSpace(raw) == "" {
		return in, nil, model.NewDomainError(model.ErrCodeMissingField, "product is required")
	}
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return in, nil, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid product JSON")
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, nil
	}
	if err != nil {
		return in, nil, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid image part")
	}

	h.logger.Debug().
		Str("filename", header.Filename).
		Int64("size", header.Size).
		Msg("product image received")

	return in, &model.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}, nil
}

func closeImage(image *model.ImageUpload) {
	if image == nil {
		return
	}
	if c, ok := image.Body.(io.Closer); ok {
		c.Close()
	}
}
