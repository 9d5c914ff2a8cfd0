package handler

import (
	"net/http"

	"storefront/internal/checkout"
	"storefront/internal/model"
	"storefront/internal/service"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// IdempotencyKeyHeader lets clients retry a checkout submission safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// checkoutResponse is the body of a checkout submission that did not succeed.
type checkoutResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlationId,omitempty"`
	Retryable     bool   `json:"retryable,omitempty"`
	*checkout.Result
}

// CheckoutHandler handles checkout HTTP requests.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Summary handles GET /api/checkout requests.
func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), sessionID(r))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Submit handles POST /api/checkout requests.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var details model.BillingDetails
	if err := decodeJSON(r, &details); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	result, err := h.service.Submit(r.Context(), sessionID(r), details, r.Header.Get(IdempotencyKeyHeader))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	switch {
	case len(result.FieldErrors) > 0:
		writeJSON(w, http.StatusUnprocessableEntity, checkoutResponse{
			Error:         model.ErrCodeValidationFailed,
			CorrelationID: chimw.GetReqID(r.Context()),
			Result:        result,
		})
	case result.State == checkout.StateFailed:
		h.logger.Warn().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("message", result.Message).
			Msg("checkout payment failed")
		writeJSON(w, http.StatusPaymentRequired, checkoutResponse{
			Error:         model.ErrCodePaymentFailed,
			CorrelationID: chimw.GetReqID(r.Context()),
			Retryable:     true,
			Result:        result,
		})
	default:
		writeJSON(w, http.StatusOK, result)
	}
}
