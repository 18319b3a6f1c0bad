package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/amaralBruno27866/member-platform-test-sub006/internal/domain"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/recordstore"
)

const orderSet = "orders"

type orderRecord struct {
	ID             string    `json:"id,omitempty"`
	BuyerID        string    `json:"buyer_id"`
	OrganizationID string    `json:"organization_id"`
	OrderStatus    string    `json:"order_status"`
	PaymentStatus  string    `json:"payment_status"`
	Subtotal       float64   `json:"subtotal"`
	Total          float64   `json:"total"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewOrderRepository(client *recordstore.Client) *RecordStoreOrders {
	return &RecordStoreOrders{client: client}
}

type RecordStoreOrders struct {
	client *recordstore.Client
}

// FindDraftByBuyer returns the buyer's open DRAFT order in the organization,
// or recordstore.ErrNotFound if none exists. If the store holds more than
// one (a race the get-or-create path cannot fully prevent), the oldest wins
// so subsequent calls stay stable.
func (r *RecordStoreOrders) FindDraftByBuyer(ctx context.Context, buyerID, organizationID string) (*domain.Order, error) {
	var recs []orderRecord
	filter := fmt.Sprintf("order_status eq '%s' and buyer_id eq '%s' and organization_id eq '%s'",
		domain.OrderStatusDraft, buyerID, organizationID)
	if err := r.client.List(ctx, orderSet, filter, &recs); err != nil {
		return nil, fmt.Errorf("find draft for buyer %s: %w", buyerID, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("draft for buyer %s: %w", buyerID, recordstore.ErrNotFound)
	}
	oldest := recs[0]
	for _, rec := range recs[1:] {
		if rec.CreatedAt.Before(oldest.CreatedAt) {
			oldest = rec
		}
	}
	order := orderToDomain(oldest)
	return &order, nil
}

func (r *RecordStoreOrders) Create(ctx context.Context, order domain.Order) (*domain.Order, error) {
	rec := orderToRecord(order)
	rec.ID = ""
	var created orderRecord
	if err := r.client.Create(ctx, orderSet, rec, &created); err != nil {
		return nil, fmt.Errorf("create order for buyer %s: %w", order.BuyerID, err)
	}
	result := orderToDomain(created)
	return &result, nil
}

func (r *RecordStoreOrders) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	partial := map[string]any{"order_status": status.String()}
	if err := r.client.Update(ctx, orderSet, id, partial); err != nil {
		return fmt.Errorf("update order %s status: %w", id, err)
	}
	return nil
}

func (r *RecordStoreOrders) UpdateTotals(ctx context.Context, id string, subtotal, total float64) error {
	partial := map[string]any{"subtotal": subtotal, "total": total}
	if err := r.client.Update(ctx, orderSet, id, partial); err != nil {
		return fmt.Errorf("update order %s totals: %w", id, err)
	}
	return nil
}

func (r *RecordStoreOrders) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, orderSet, id); err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	return nil
}

func (r *RecordStoreOrders) FindDraftsOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	var recs []orderRecord
	filter := fmt.Sprintf("order_status eq '%s' and created_at lt %s",
		domain.OrderStatusDraft, cutoff.UTC().Format(time.RFC3339))
	if err := r.client.List(ctx, orderSet, filter, &recs); err != nil {
		return nil, fmt.Errorf("list drafts older than %s: %w", cutoff, err)
	}
	orders := make([]domain.Order, len(recs))
	for i, rec := range recs {
		orders[i] = orderToDomain(rec)
	}
	return orders, nil
}

func orderToRecord(o domain.Order) orderRecord {
	return orderRecord{
		ID:             o.ID,
		BuyerID:        o.BuyerID,
		OrganizationID: o.OrganizationID,
		OrderStatus:    o.OrderStatus.String(),
		PaymentStatus:  string(o.PaymentStatus),
		Subtotal:       o.Subtotal,
		Total:          o.Total,
		CreatedAt:      o.CreatedAt,
	}
}

func orderToDomain(rec orderRecord) domain.Order {
	return domain.Order{
		ID:             rec.ID,
		BuyerID:        rec.BuyerID,
		OrganizationID: rec.OrganizationID,
		OrderStatus:    domain.OrderStatus(rec.OrderStatus),
		PaymentStatus:  domain.PaymentStatus(rec.PaymentStatus),
		Subtotal:       rec.Subtotal,
		Total:          rec.Total,
		CreatedAt:      rec.CreatedAt,
	}
}
