package recordstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productDoc struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL, BearerToken: "secret"}, zerolog.Nop())
}

func TestClient_Get(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/data/products(prod-1)", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(productDoc{ID: "prod-1", Name: "Pin", Price: 79})
	})

	var doc productDoc
	require.NoError(t, client.Get(context.Background(), "products", "prod-1", &doc))
	assert.Equal(t, "Pin", doc.Name)
}

func TestClient_Get_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	var doc productDoc
	err := client.Get(context.Background(), "products", "ghost", &doc)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_List_UnwrapsValueEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/data/orders", r.URL.Path)
		assert.Equal(t, "order_status eq 'DRAFT'", r.URL.Query().Get("$filter"))
		_, _ = w.Write([]byte(`{"value":[{"id":"o1"},{"id":"o2"}]}`))
	})

	var docs []struct {
		ID string `json:"id"`
	}
	require.NoError(t, client.List(context.Background(), "orders", "order_status eq 'DRAFT'", &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "o1", docs[0].ID)
}

func TestClient_Create(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/data/order_lines", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var doc map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		doc["id"] = "line-1"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(doc)
	})

	var created map[string]any
	err := client.Create(context.Background(), "order_lines", map[string]any{"order_id": "o1"}, &created)
	require.NoError(t, err)
	assert.Equal(t, "line-1", created["id"])
	assert.Equal(t, "o1", created["order_id"])
}

func TestClient_UpdateAndDelete(t *testing.T) {
	var sawPatch, sawDelete bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			sawPatch = true
			assert.Equal(t, "/api/data/orders(o1)", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		case http.MethodDelete:
			sawDelete = true
			assert.Equal(t, "/api/data/orders(o1)", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	})

	ctx := context.Background()
	require.NoError(t, client.Update(ctx, "orders", "o1", map[string]any{"order_status": "SUBMITTED"}))
	require.NoError(t, client.Delete(ctx, "orders", "o1"))
	assert.True(t, sawPatch)
	assert.True(t, sawDelete)
}

func TestClient_ServerErrorsOpenBreaker(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx := context.Background()
	var doc productDoc
	for i := 0; i < 5; i++ {
		err := client.Get(ctx, "products", "prod-1", &doc)
		require.ErrorIs(t, err, ErrUnavailable)
	}

	// Breaker is open now: calls fail fast without reaching the server.
	err := client.Get(ctx, "products", "prod-1", &doc)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	var hits int
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	})

	ctx := context.Background()
	var doc productDoc
	for i := 0; i < 10; i++ {
		err := client.Get(ctx, "products", "ghost", &doc)
		require.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 10, hits, "misses must keep reaching the store")
}
