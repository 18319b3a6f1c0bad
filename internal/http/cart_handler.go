package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/amaralBruno27866/member-platform-test-sub006/internal/domain"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/recordstore"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/service"
)

type CartHandler struct {
	cart   *service.CartService
	logger zerolog.Logger
}

func NewCartHandler(cart *service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{cart: cart, logger: logger}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	ActorID   string `json:"actor_id"`
}

type CartResponseDTO struct {
	Items []domain.CartItem `json:"items"`
	Total float64           `json:"total"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}

	item, err := h.cart.AddToCart(r.Context(), orderID, req.ProductID, req.Quantity, req.ActorID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

func (h *CartHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	items, err := h.cart.GetCartItems(r.Context(), orderID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	total, err := h.cart.GetCartTotal(r.Context(), orderID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Items: items, Total: total})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	itemID := chi.URLParam(r, "itemID")

	if err := h.cart.RemoveFromCart(r.Context(), orderID, itemID); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ruleErr *service.RuleViolationError
	var amountErr *service.AmountValidationError

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.As(err, &ruleErr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "business rule violation",
			Code:    "rule_violation",
			Details: ruleErr.Rules,
		})
	case errors.As(err, &amountErr):
		respondError(w, http.StatusBadRequest, "amount_validation_failed", err.Error())
	case errors.Is(err, recordstore.ErrUnavailable):
		respondError(w, http.StatusBadGateway, "record_store_unavailable", "record store unavailable")
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("cart request failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}
