package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/amaralBruno27866/member-platform-test-sub006/internal/domain"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/events"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/pricing"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/repository"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/session"
)

// checkoutLockTTL bounds how long a crashed checkout can block retries.
const checkoutLockTTL = 30 * time.Second

// publishTimeout bounds the fire-and-forget notification publish.
const publishTimeout = 5 * time.Second

// CheckoutService is the two-phase-commit boundary between the transient
// session and the durable record store. A checkout either persists every
// staged item and clears the session, or persists nothing (already-created
// lines are compensated with deletes) and leaves the session intact for retry.
type CheckoutService struct {
	cart      *CartService
	lines     repository.OrderLineRepository
	orders    repository.OrderRepository
	store     session.Store
	publisher events.Publisher
	logger    zerolog.Logger

	// wg tracks in-flight notification goroutines so tests and shutdown can
	// wait for them.
	wg sync.WaitGroup
}

func NewCheckoutService(
	cart *CartService,
	lines repository.OrderLineRepository,
	orders repository.OrderRepository,
	store session.Store,
	publisher events.Publisher,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		cart:      cart,
		lines:     lines,
		orders:    orders,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Checkout persists every staged item of the order and clears the session.
func (s *CheckoutService) Checkout(ctx context.Context, orderID string) (*domain.CheckoutResult, error) {
	release, err := s.acquireLock(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	result, err := s.run(ctx, orderID)
	if err != nil {
		s.notifyFailed(orderID, err)
		return nil, err
	}
	s.notifyCompleted(orderID, result)
	return result, nil
}

// acquireLock takes the per-order mutual-exclusion key so two concurrent
// checkouts for the same order cannot both pass validation and double-persist.
func (s *CheckoutService) acquireLock(ctx context.Context, orderID string) (func(), error) {
	key := session.CheckoutLockKey(orderID)
	ok, err := s.store.SetNX(ctx, key, uuid.NewString(), checkoutLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire checkout lock: %w", err)
	}
	if !ok {
		return nil, ErrCheckoutInProgress
	}
	return func() {
		if err := s.store.Delete(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn().Err(err).Str("order_id", orderID).Msg("failed to release checkout lock, TTL will reclaim it")
		}
	}, nil
}

func (s *CheckoutService) run(ctx context.Context, orderID string) (*domain.CheckoutResult, error) {
	// Phase 1: read and final-validate. One tampered or drifted item aborts
	// the whole checkout before any durable write.
	items, err := s.cart.GetCartItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, item := range items {
		res := pricing.Validate(item.Quantity, item.UnitPrice, item.TaxRatePercent,
			item.Subtotal, item.TaxAmount, item.Total)
		if !res.Valid {
			return nil, &AmountValidationError{ItemID: item.ItemID, Result: res}
		}
	}

	// Phase 2: concurrent fan-out of per-line creates. The record store has
	// no server-side batch, so on any failure the lines that did land are
	// compensated with deletes.
	created, err := s.persistLines(ctx, orderID, items)
	if err != nil {
		return nil, err
	}

	result := summarize(created)

	// Adjacent workflow step: the anchor leaves DRAFT only through here.
	if err := s.finalizeOrder(ctx, orderID, result); err != nil {
		s.compensate(ctx, orderID, created)
		return nil, &DurableWriteError{OrderID: orderID, Created: len(created), Compensated: true, Err: err}
	}

	// Phase 3: cleanup, only on full success. A failed checkout keeps the
	// session so the buyer can retry without re-adding items.
	if err := s.cart.ClearCart(ctx, orderID); err != nil {
		// Lines are durable; the session will also fall to TTL. Not a
		// checkout failure, but a retry before expiry could double-create.
		s.logger.Error().Err(err).Str("order_id", orderID).Msg("cart clear after successful persist failed")
	}

	s.logger.Info().
		Str("order_id", orderID).
		Int("lines", len(created)).
		Float64("total", result.Total).
		Msg("checkout completed")

	return result, nil
}

func (s *CheckoutService) persistLines(ctx context.Context, orderID string, items []domain.CartItem) ([]domain.OrderLine, error) {
	results := make([]*domain.OrderLine, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			line, err := s.lines.Create(gctx, lineFromItem(item))
			if err != nil {
				return err
			}
			results[i] = line
			return nil
		})
	}
	err := g.Wait()

	created := make([]domain.OrderLine, 0, len(items))
	for _, line := range results {
		if line != nil {
			created = append(created, *line)
		}
	}

	if err != nil {
		s.compensate(ctx, orderID, created)
		return nil, &DurableWriteError{OrderID: orderID, Created: len(created), Compensated: true, Err: err}
	}
	return created, nil
}

// compensate issues best-effort deletes for lines created before a failure.
// Failures here are logged, not surfaced: the checkout error already tells
// the caller the operation did not complete.
func (s *CheckoutService) compensate(ctx context.Context, orderID string, created []domain.OrderLine) {
	ctx = context.WithoutCancel(ctx)
	for _, line := range created {
		if err := s.lines.Delete(ctx, line.ID); err != nil {
			s.logger.Error().Err(err).
				Str("order_id", orderID).
				Str("line_id", line.ID).
				Msg("compensating delete failed, orphaned order line remains")
		}
	}
}

func (s *CheckoutService) finalizeOrder(ctx context.Context, orderID string, result *domain.CheckoutResult) error {
	if err := s.orders.UpdateTotals(ctx, orderID, result.Subtotal, result.Total); err != nil {
		return fmt.Errorf("update order totals: %w", err)
	}
	if err := s.orders.UpdateStatus(ctx, orderID, domain.OrderStatusSubmitted); err != nil {
		return fmt.Errorf("submit order: %w", err)
	}
	return nil
}

func (s *CheckoutService) notifyCompleted(orderID string, result *domain.CheckoutResult) {
	s.publish(events.CheckoutEvent{
		Type:      events.TypeCheckoutCompleted,
		OrderID:   orderID,
		LineCount: len(result.Lines),
		Subtotal:  result.Subtotal,
		Tax:       result.Tax,
		Total:     result.Total,
	})
}

func (s *CheckoutService) notifyFailed(orderID string, cause error) {
	s.publish(events.CheckoutEvent{
		Type:    events.TypeCheckoutFailed,
		OrderID: orderID,
		Reason:  cause.Error(),
	})
}

// publish is fire-and-forget with its own timeout; a broker outage must not
// change the checkout outcome.
func (s *CheckoutService) publish(evt events.CheckoutEvent) {
	evt.OccurredAt = time.Now().UTC()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Warn().Err(err).Str("order_id", evt.OrderID).Str("event", evt.Type).Msg("event publish failed")
		}
	}()
}

// Wait blocks until pending notification publishes settle.
func (s *CheckoutService) Wait() {
	s.wg.Wait()
}

func summarize(lines []domain.OrderLine) *domain.CheckoutResult {
	result := &domain.CheckoutResult{Lines: lines}
	for _, line := range lines {
		result.Subtotal += line.Subtotal
		result.Tax += line.TaxAmount
		result.Total += line.Total
	}
	return result
}

func lineFromItem(item domain.CartItem) domain.OrderLine {
	return domain.OrderLine{
		OrderID:        item.OrderID,
		ProductID:      item.ProductID,
		ProductName:    item.ProductName,
		Category:       item.Category,
		InsuranceType:  item.InsuranceType,
		InsuranceLimit: item.InsuranceLimit,
		AdditionalInfo: item.AdditionalInfo,
		Quantity:       item.Quantity,
		UnitPrice:      item.UnitPrice,
		TaxRatePercent: item.TaxRatePercent,
		Subtotal:       item.Subtotal,
		TaxAmount:      item.TaxAmount,
		Total:          item.Total,
	}
}
