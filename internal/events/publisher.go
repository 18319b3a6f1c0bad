// Package events publishes domain notifications for the audit collaborator.
// Publishing is advisory: callers fire and forget, and a broker outage must
// never change the outcome of the operation being reported.
package events

import (
	"context"
	"time"
)

const (
	TypeCheckoutCompleted = "checkout.completed"
	TypeCheckoutFailed    = "checkout.failed"
)

type CheckoutEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	LineCount  int       `json:"line_count,omitempty"`
	Subtotal   float64   `json:"subtotal,omitempty"`
	Tax        float64   `json:"tax,omitempty"`
	Total      float64   `json:"total,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, evt CheckoutEvent) error
}

// NopPublisher discards events. Used when no broker is configured and in
// tests that don't assert on notifications.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, CheckoutEvent) error { return nil }
