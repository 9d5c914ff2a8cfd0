package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/middleware"
	"storefront/internal/model"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// maxUploadSize bounds admin multipart bodies.
const maxUploadSize = 10 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	logger.Error().
		Str("error", message).
		Str("code", code).
		Int("status", status).
		Str("request_id", chimw.GetReqID(r.Context())).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: chimw.GetReqID(r.Context()),
	})
}

// writeServiceError maps a service error to its HTTP response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, r, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}

	var transportErr *catalog.TransportError
	if errors.As(err, &transportErr) {
		if transportErr.StatusCode >= 400 && transportErr.StatusCode < 500 {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeValidationFailed, "Catalog rejected the request", logger)
			return
		}
		logger.Error().
			Err(err).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("catalog unavailable")
		writeJSON(w, http.StatusBadGateway, model.ErrorResponse{
			Error:         model.ErrCodeCatalogUnavailable,
			Message:       "Catalog is unavailable. Please try again.",
			CorrelationID: chimw.GetReqID(r.Context()),
			Retryable:     true,
		})
		return
	}

	if errors.Is(err, cart.ErrSlotUnavailable) {
		logger.Error().
			Err(err).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("cart storage unavailable")
		writeJSON(w, http.StatusServiceUnavailable, model.ErrorResponse{
			Error:         model.ErrCodeCartUnavailable,
			Message:       "Your cart is temporarily unavailable. Please try again.",
			CorrelationID: chimw.GetReqID(r.Context()),
			Retryable:     true,
		})
		return
	}

	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "Not found", logger)
		return
	}

	logger.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", chimw.GetReqID(r.Context())).
		Msg("unhandled service error")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:         model.ErrCodeInternalError,
		Message:       "internal server error",
		CorrelationID: chimw.GetReqID(r.Context()),
	})
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON, model.ErrCodeMissingField, model.ErrCodeInvalidCartQuantity, model.ErrCodeInvalidSession:
		return http.StatusBadRequest
	case model.ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case model.ErrCodeProductNotFound, model.ErrCodeLineNotFound, model.ErrCodeOrderNotFound, model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeEmptyCart, model.ErrCodeCheckoutInProgress:
		return http.StatusConflict
	case model.ErrCodePaymentFailed:
		return http.StatusPaymentRequired
	case model.ErrCodeCatalogUnavailable:
		return http.StatusBadGateway
	case model.ErrCodeCartUnavailable:
		return http.StatusServiceUnavailable
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body")
	}
	return nil
}

// sessionID returns the cart session bound by middleware.CartSession.
func sessionID(r *http.Request) string {
	return middleware.CartSessionID(r.Context())
}
