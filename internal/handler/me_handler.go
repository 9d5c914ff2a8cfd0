package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// MeHandler reports the signed-in user.
type MeHandler struct {
	logger zerolog.Logger
}

// NewMeHandler creates a new me handler.
func NewMeHandler(logger zerolog.Logger) *MeHandler {
	return &MeHandler{logger: logger.With().Str("handler", "me").Logger()}
}

// Get handles GET /api/me requests. The route is guarded by
// middleware.RequireUser.
func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeServiceError(w, r, model.ErrUnauthenticated, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
