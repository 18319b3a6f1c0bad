package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amaralBruno27866/member-platform-test-sub006/internal/domain"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/events"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/recordstore"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/session"
)

// memStore is an in-memory session.Store. TTLs are recorded but never expire;
// expiry behavior is covered by the redis store tests.
type memStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", session.ErrNotFound
	}
	return val, nil
}

func (m *memStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
		delete(m.ttls, key)
	}
	return nil
}

func (m *memStore) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return true, nil
}

func (m *memStore) drop(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

type mockCatalog struct {
	mu       sync.Mutex
	products map[string]domain.Product
}

func newMockCatalog(products ...domain.Product) *mockCatalog {
	c := &mockCatalog{products: map[string]domain.Product{}}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *mockCatalog) FindByID(_ context.Context, productID string) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[productID]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", productID, recordstore.ErrNotFound)
	}
	copied := p
	return &copied, nil
}

func (c *mockCatalog) put(p domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}

type mockLineRepo struct {
	mu      sync.Mutex
	seq     int
	created map[string]domain.OrderLine
	deleted []string
	// failProduct makes Create fail for lines of that product.
	failProduct string
}

func newMockLineRepo() *mockLineRepo {
	return &mockLineRepo{created: map[string]domain.OrderLine{}}
}

func (r *mockLineRepo) Create(_ context.Context, line domain.OrderLine) (*domain.OrderLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failProduct != "" && line.ProductID == r.failProduct {
		return nil, fmt.Errorf("create rejected: %w", recordstore.ErrUnavailable)
	}
	r.seq++
	line.ID = fmt.Sprintf("line-%d", r.seq)
	r.created[line.ID] = line
	return &line, nil
}

func (r *mockLineRepo) FindByOrderID(_ context.Context, orderID string) ([]domain.OrderLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var lines []domain.OrderLine
	for _, line := range r.created {
		if line.OrderID == orderID {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (r *mockLineRepo) FindByID(_ context.Context, id string) (*domain.OrderLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line, ok := r.created[id]
	if !ok {
		return nil, fmt.Errorf("line %s: %w", id, recordstore.ErrNotFound)
	}
	return &line, nil
}

func (r *mockLineRepo) Update(_ context.Context, id string, _ map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.created[id]; !ok {
		return fmt.Errorf("line %s: %w", id, recordstore.ErrNotFound)
	}
	return nil
}

func (r *mockLineRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.created[id]; !ok {
		return fmt.Errorf("line %s: %w", id, recordstore.ErrNotFound)
	}
	delete(r.created, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *mockLineRepo) remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

type mockOrderRepo struct {
	mu      sync.Mutex
	seq     int
	orders  map[string]domain.Order
	creates int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: map[string]domain.Order{}}
}

func (r *mockOrderRepo) FindDraftByBuyer(_ context.Context, buyerID, organizationID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderStatus == domain.OrderStatusDraft && o.BuyerID == buyerID && o.OrganizationID == organizationID {
			found := o
			return &found, nil
		}
	}
	return nil, fmt.Errorf("draft for %s: %w", buyerID, recordstore.ErrNotFound)
}

func (r *mockOrderRepo) Create(_ context.Context, order domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.creates++
	order.ID = fmt.Sprintf("order-%d", r.seq)
	r.orders[order.ID] = order
	return &order, nil
}

func (r *mockOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, recordstore.ErrNotFound)
	}
	o.OrderStatus = status
	r.orders[id] = o
	return nil
}

func (r *mockOrderRepo) UpdateTotals(_ context.Context, id string, subtotal, total float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, recordstore.ErrNotFound)
	}
	o.Subtotal = subtotal
	o.Total = total
	r.orders[id] = o
	return nil
}

func (r *mockOrderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("order %s: %w", id, recordstore.ErrNotFound)
	}
	delete(r.orders, id)
	return nil
}

func (r *mockOrderRepo) FindDraftsOlderThan(_ context.Context, cutoff time.Time) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var drafts []domain.Order
	for _, o := range r.orders {
		if o.OrderStatus == domain.OrderStatusDraft && o.CreatedAt.Before(cutoff) {
			drafts = append(drafts, o)
		}
	}
	return drafts, nil
}

func (r *mockOrderRepo) put(o domain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = o
}

func (r *mockOrderRepo) get(id string) (domain.Order, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	return o, ok
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.CheckoutEvent
}

func (p *capturingPublisher) Publish(_ context.Context, evt events.CheckoutEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *capturingPublisher) captured() []events.CheckoutEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.CheckoutEvent, len(p.events))
	copy(out, p.events)
	return out
}
