package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/amaralBruno27866/member-platform-test-sub006/internal/recordstore"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/service"
	"github.com/amaralBruno27866/member-platform-test-sub006/pkg/metrics"
)

type CheckoutHandler struct {
	checkout *service.CheckoutService
	metrics  *metrics.ServerMetrics
	logger   zerolog.Logger
}

func NewCheckoutHandler(checkout *service.CheckoutService, m *metrics.ServerMetrics, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, metrics: m, logger: logger}
}

type CheckoutResponseDTO struct {
	ItemsCreated int     `json:"items_created"`
	Total        float64 `json:"total"`
	Status       string  `json:"status"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	result, err := h.checkout.Checkout(r.Context(), orderID)
	if err != nil {
		h.handleCheckoutError(w, orderID, err)
		return
	}

	h.count("completed")
	respondJSON(w, http.StatusOK, CheckoutResponseDTO{
		ItemsCreated: len(result.Lines),
		Total:        result.Total,
		Status:       "SUBMITTED",
	})
}

func (h *CheckoutHandler) handleCheckoutError(w http.ResponseWriter, orderID string, err error) {
	var amountErr *service.AmountValidationError
	var writeErr *service.DurableWriteError

	switch {
	case errors.Is(err, service.ErrEmptyCart):
		h.count("empty_cart")
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, service.ErrCheckoutInProgress):
		h.count("in_progress")
		respondError(w, http.StatusConflict, "checkout_in_progress", err.Error())
	case errors.As(err, &amountErr):
		h.count("validation_failed")
		respondError(w, http.StatusBadRequest, "amount_validation_failed", err.Error())
	case errors.As(err, &writeErr), errors.Is(err, recordstore.ErrUnavailable):
		h.count("write_failed")
		h.logger.Error().Err(err).Str("order_id", orderID).Msg("checkout durable write failed")
		respondError(w, http.StatusBadGateway, "durable_write_failed", "checkout could not be persisted, cart preserved for retry")
	default:
		h.count("error")
		h.logger.Error().Err(err).Str("order_id", orderID).Msg("checkout failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (h *CheckoutHandler) count(outcome string) {
	if h.metrics != nil {
		h.metrics.Checkouts.WithLabelValues(outcome).Inc()
	}
}
