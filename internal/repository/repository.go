// Package repository exposes the durable collaborators of the cart engine
// as narrow interfaces, implemented over the record-store client.
package repository

import (
	"context"
	"time"

	"github.com/amaralBruno27866/member-platform-test-sub006/internal/domain"
)

// ProductCatalog is the reference lookup for catalog entries. Returns
// recordstore.ErrNotFound (wrapped) when the product does not exist.
type ProductCatalog interface {
	FindByID(ctx context.Context, productID string) (*domain.Product, error)
}

// OrderLineRepository persists finalized line items. Create is a single
// network round-trip per line; there is no server-side batch, so checkout's
// atomicity is client-side fan-out plus compensation.
type OrderLineRepository interface {
	Create(ctx context.Context, line domain.OrderLine) (*domain.OrderLine, error)
	FindByOrderID(ctx context.Context, orderID string) ([]domain.OrderLine, error)
	FindByID(ctx context.Context, id string) (*domain.OrderLine, error)
	Update(ctx context.Context, id string, partial map[string]any) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository manages the durable order anchors.
type OrderRepository interface {
	FindDraftByBuyer(ctx context.Context, buyerID, organizationID string) (*domain.Order, error)
	Create(ctx context.Context, order domain.Order) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	UpdateTotals(ctx context.Context, id string, subtotal, total float64) error
	Delete(ctx context.Context, id string) error
	FindDraftsOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Order, error)
}
