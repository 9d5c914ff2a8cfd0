package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/catalog"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CatalogHandler handles catalog browsing requests.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// Categories handles GET /api/categories requests.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// Subcategories handles GET /api/subcategories requests.
func (h *CatalogHandler) Subcategories(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.Subcategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// SubcategoriesByCategory handles GET /api/categories/{id}/subcategories requests.
func (h *CatalogHandler) SubcategoriesByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	subs, err := h.service.SubcategoriesByCategory(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// Products handles GET /api/products?subcategory=&sort= requests.
func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	order := catalog.ParseSortOrder(query.Get("sort"))

	products, err := h.service.Products(r.Context(), query.Get("subcategory"), order)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// pathID parses the {id} URL parameter, writing a 400 when it is not a
// positive integer.
func pathID(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidationFailed, "invalid ID format", logger)
		return 0, false
	}
	return id, true
}
