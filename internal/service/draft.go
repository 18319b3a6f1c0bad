package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/amaralBruno27866/member-platform-test-sub006/internal/domain"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/recordstore"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/repository"
)

// DraftService hands out the single open DRAFT order a buyer's cart items
// attach to. The one-draft-per-buyer invariant is enforced by get-or-create,
// not by a store constraint.
type DraftService struct {
	orders repository.OrderRepository
	lines  repository.OrderLineRepository
	sfg    singleflight.Group
	logger zerolog.Logger
}

func NewDraftService(orders repository.OrderRepository, lines repository.OrderLineRepository, logger zerolog.Logger) *DraftService {
	return &DraftService{
		orders: orders,
		lines:  lines,
		logger: logger,
	}
}

// GetOrCreateDraft returns the buyer's open draft order id, creating one on
// first visit. Concurrent calls for the same buyer are coalesced so a request
// burst cannot create duplicate drafts.
func (s *DraftService) GetOrCreateDraft(ctx context.Context, buyerID, organizationID string) (string, error) {
	key := buyerID + "|" + organizationID
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		existing, err := s.orders.FindDraftByBuyer(ctx, buyerID, organizationID)
		if err == nil {
			return existing.ID, nil
		}
		if !errors.Is(err, recordstore.ErrNotFound) {
			return "", fmt.Errorf("find draft: %w", err)
		}

		created, err := s.orders.Create(ctx, domain.Order{
			BuyerID:        buyerID,
			OrganizationID: organizationID,
			OrderStatus:    domain.OrderStatusDraft,
			PaymentStatus:  domain.PaymentStatusUnpaid,
			CreatedAt:      time.Now().UTC(),
		})
		if err != nil {
			return "", fmt.Errorf("create draft: %w", err)
		}
		s.logger.Info().
			Str("order_id", created.ID).
			Str("buyer_id", buyerID).
			Str("organization_id", organizationID).
			Msg("draft order created")
		return created.ID, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// ClearExpiredDrafts removes DRAFT orders older than maxAge, cascading to any
// persisted lines first, and returns how many drafts were removed. It is an
// explicit entry point for an external scheduler; nothing here schedules
// itself. Per-draft failures are logged and skipped so one stuck record does
// not block the sweep.
func (s *DraftService) ClearExpiredDrafts(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	drafts, err := s.orders.FindDraftsOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list expired drafts: %w", err)
	}

	removed := 0
	for _, draft := range drafts {
		if err := s.deleteDraft(ctx, draft); err != nil {
			s.logger.Error().Err(err).Str("order_id", draft.ID).Msg("expired draft sweep skipped order")
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info().Int("removed", removed).Time("cutoff", cutoff).Msg("expired drafts cleared")
	}
	return removed, nil
}

func (s *DraftService) deleteDraft(ctx context.Context, draft domain.Order) error {
	lines, err := s.lines.FindByOrderID(ctx, draft.ID)
	if err != nil {
		return fmt.Errorf("list lines: %w", err)
	}
	for _, line := range lines {
		if err := s.lines.Delete(ctx, line.ID); err != nil && !errors.Is(err, recordstore.ErrNotFound) {
			return fmt.Errorf("delete line %s: %w", line.ID, err)
		}
	}
	if err := s.orders.Delete(ctx, draft.ID); err != nil && !errors.Is(err, recordstore.ErrNotFound) {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}
