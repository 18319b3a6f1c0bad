package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/amaralBruno27866/member-platform-test-sub006/internal/service"
)

type DraftHandler struct {
	drafts *service.DraftService
	logger zerolog.Logger
}

func NewDraftHandler(drafts *service.DraftService, logger zerolog.Logger) *DraftHandler {
	return &DraftHandler{drafts: drafts, logger: logger}
}

type DraftRequestDTO struct {
	BuyerID        string `json:"buyer_id"`
	OrganizationID string `json:"organization_id"`
}

type DraftResponseDTO struct {
	OrderID string `json:"order_id"`
}

// EnsureDraft returns the buyer's open draft order, creating one if needed.
// The shop UI calls this on entry so add-to-cart always has an anchor.
func (h *DraftHandler) EnsureDraft(w http.ResponseWriter, r *http.Request) {
	var req DraftRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.BuyerID == "" || req.OrganizationID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "buyer_id and organization_id are required")
		return
	}

	orderID, err := h.drafts.GetOrCreateDraft(r.Context(), req.BuyerID, req.OrganizationID)
	if err != nil {
		h.logger.Error().Err(err).Str("buyer_id", req.BuyerID).Msg("draft lookup failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, DraftResponseDTO{OrderID: orderID})
}

type SweepRequestDTO struct {
	MaxAgeHours int `json:"max_age_hours"`
}

type SweepResponseDTO struct {
	Removed int `json:"removed"`
}

// SweepExpiredDrafts is the entry point for the external scheduler that
// retires abandoned drafts. Scheduling policy lives with the caller.
func (h *DraftHandler) SweepExpiredDrafts(w http.ResponseWriter, r *http.Request) {
	var req SweepRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.MaxAgeHours < 1 {
		respondError(w, http.StatusBadRequest, "invalid_request", "max_age_hours must be at least 1")
		return
	}

	removed, err := h.drafts.ClearExpiredDrafts(r.Context(), time.Duration(req.MaxAgeHours)*time.Hour)
	if err != nil {
		h.logger.Error().Err(err).Msg("expired draft sweep failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, SweepResponseDTO{Removed: removed})
}
