package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amaralBruno27866/member-platform-test-sub006/internal/domain"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/pricing"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/recordstore"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/repository"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/session"
)

// CartService owns every mutation of a cart session. Nothing here touches the
// durable repositories; staged items live only in the session store until
// checkout persists them.
type CartService struct {
	store    session.Store
	products repository.ProductCatalog
	ttl      time.Duration
	logger   zerolog.Logger
}

func NewCartService(store session.Store, products repository.ProductCatalog, logger zerolog.Logger) *CartService {
	return &CartService{
		store:    store,
		products: products,
		ttl:      session.DefaultTTL,
		logger:   logger,
	}
}

// AddToCart validates the request, snapshots the product at this instant and
// stages a new item. On rule violations nothing is written.
func (s *CartService) AddToCart(ctx context.Context, orderID, productID string, quantity int, actorID string) (*domain.CartItem, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("product lookup: %w", err)
	}

	// Inventory is read live here, not snapshotted; stock changes between
	// add-to-cart and checkout are expected and tolerated.
	if err := pricing.CheckQuantity(product.Category, quantity, product.Inventory); err != nil {
		return nil, &RuleViolationError{Rules: []string{err.Error()}}
	}

	amounts := pricing.Compute(quantity, product.Price, product.TaxRatePercent)
	if res := pricing.Validate(quantity, product.Price, product.TaxRatePercent,
		amounts.Subtotal, amounts.TaxAmount, amounts.Total); !res.Valid {
		// Defensive: amounts were just computed, a mismatch means a bug.
		return nil, &AmountValidationError{Result: res}
	}

	item := domain.CartItem{
		ItemID:         uuid.NewString(),
		OrderID:        orderID,
		ProductID:      product.ID,
		ProductName:    product.Name,
		Category:       product.Category,
		InsuranceType:  product.InsuranceType,
		InsuranceLimit: product.InsuranceLimit,
		AdditionalInfo: product.AdditionalInfo,
		Quantity:       quantity,
		UnitPrice:      product.Price,
		TaxRatePercent: product.TaxRatePercent,
		Subtotal:       amounts.Subtotal,
		TaxAmount:      amounts.TaxAmount,
		Total:          amounts.Total,
	}

	if err := s.writeItem(ctx, item); err != nil {
		return nil, err
	}

	ids, err := s.readItemIDs(ctx, orderID)
	if err != nil {
		return nil, err
	}
	ids = append(ids, item.ItemID)
	if err := s.writeItemIDs(ctx, orderID, ids); err != nil {
		return nil, err
	}

	if _, err := s.GetCartTotal(ctx, orderID); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", orderID).
		Str("item_id", item.ItemID).
		Str("product_id", productID).
		Str("actor_id", actorID).
		Int("quantity", quantity).
		Float64("total", item.Total).
		Msg("item staged in cart")

	return &item, nil
}

// GetCartItems returns the staged items in insertion order. Ids whose blob
// has expired out from under the list are silently skipped.
func (s *CartService) GetCartItems(ctx context.Context, orderID string) ([]domain.CartItem, error) {
	ids, err := s.readItemIDs(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.CartItem, 0, len(ids))
	for _, id := range ids {
		blob, err := s.store.Get(ctx, session.ItemKey(orderID, id))
		if errors.Is(err, session.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read item %s: %w", id, err)
		}
		var item domain.CartItem
		if err := json.Unmarshal([]byte(blob), &item); err != nil {
			return nil, fmt.Errorf("decode item %s: %w", id, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// GetCartTotal recomputes the running total from the items actually present
// and persists it back. The cached value is a hint, never the source of truth.
func (s *CartService) GetCartTotal(ctx context.Context, orderID string) (float64, error) {
	items, err := s.GetCartItems(ctx, orderID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, item := range items {
		total += item.Total
	}
	if err := s.store.Set(ctx, session.TotalKey(orderID), fmt.Sprintf("%.2f", total), s.ttl); err != nil {
		return 0, err
	}
	return total, nil
}

// RemoveFromCart deletes a staged item. Removing an item that is already gone
// is a no-op, not an error.
func (s *CartService) RemoveFromCart(ctx context.Context, orderID, itemID string) error {
	if err := s.store.Delete(ctx, session.ItemKey(orderID, itemID)); err != nil {
		return err
	}

	ids, err := s.readItemIDs(ctx, orderID)
	if err != nil {
		return err
	}
	kept := ids[:0]
	for _, id := range ids {
		if id != itemID {
			kept = append(kept, id)
		}
	}
	if err := s.writeItemIDs(ctx, orderID, kept); err != nil {
		return err
	}

	if _, err := s.GetCartTotal(ctx, orderID); err != nil {
		return err
	}

	s.logger.Info().Str("order_id", orderID).Str("item_id", itemID).Msg("item removed from cart")
	return nil
}

// ClearCart deletes every key of the session. Used on successful checkout and
// on explicit abandonment.
func (s *CartService) ClearCart(ctx context.Context, orderID string) error {
	ids, err := s.readItemIDs(ctx, orderID)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(ids)+2)
	for _, id := range ids {
		keys = append(keys, session.ItemKey(orderID, id))
	}
	keys = append(keys, session.ItemIDsKey(orderID), session.TotalKey(orderID))
	if err := s.store.Delete(ctx, keys...); err != nil {
		return err
	}
	s.logger.Info().Str("order_id", orderID).Int("items", len(ids)).Msg("cart session cleared")
	return nil
}

func (s *CartService) writeItem(ctx context.Context, item domain.CartItem) error {
	blob, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode item %s: %w", item.ItemID, err)
	}
	return s.store.Set(ctx, session.ItemKey(item.OrderID, item.ItemID), string(blob), s.ttl)
}

func (s *CartService) readItemIDs(ctx context.Context, orderID string) ([]string, error) {
	blob, err := s.store.Get(ctx, session.ItemIDsKey(orderID))
	if errors.Is(err, session.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read item id list: %w", err)
	}
	var ids []string
	if err := json.Unmarshal([]byte(blob), &ids); err != nil {
		return nil, fmt.Errorf("decode item id list: %w", err)
	}
	return ids, nil
}

func (s *CartService) writeItemIDs(ctx context.Context, orderID string, ids []string) error {
	blob, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode item id list: %w", err)
	}
	return s.store.Set(ctx, session.ItemIDsKey(orderID), string(blob), s.ttl)
}
