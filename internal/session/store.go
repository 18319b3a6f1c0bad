// Package session owns the transient cart state: the key schema, the TTL
// discipline, and the Redis-backed blob store underneath it.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTTL is the expiry window shared by every key of a cart session.
// Every write refreshes the written key to the full window.
const DefaultTTL = 7200 * time.Second

// ErrNotFound is returned when a key is absent or has expired.
var ErrNotFound = errors.New("session key not found")

// Store is the minimal contract the staging layer needs from the transient
// store: string blobs with per-key expiration.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// SetNX writes the key only if absent, returning whether it was written.
	// Used for the checkout mutual-exclusion lock.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}

// Key schema. The session has no aggregate record; it is the union of these
// keys, each carrying its own TTL.
func ItemKey(orderID, itemID string) string {
	return fmt.Sprintf("order:%s:items:%s", orderID, itemID)
}

func ItemIDsKey(orderID string) string {
	return fmt.Sprintf("order:%s:itemIds", orderID)
}

func TotalKey(orderID string) string {
	return fmt.Sprintf("order:%s:total", orderID)
}

func CheckoutLockKey(orderID string) string {
	return fmt.Sprintf("order:%s:checkout-lock", orderID)
}
