package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/amaralBruno27866/member-platform-test-sub006/pkg/metrics"
)

// NewRouter assembles the exposed surface: draft anchor, cart staging,
// checkout, plus health and metrics.
func NewRouter(
	cart *CartHandler,
	checkout *CheckoutHandler,
	draft *DraftHandler,
	m *metrics.ServerMetrics,
	logger zerolog.Logger,
	requestTimeout time.Duration,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(RequestLogger(logger))
	if m != nil {
		r.Use(Instrument(m))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Post("/orders/draft", draft.EnsureDraft)
	r.Post("/orders/draft/sweep", draft.SweepExpiredDrafts)

	r.Route("/orders/{orderID}", func(r chi.Router) {
		r.Post("/items", cart.AddItem)
		r.Get("/items", cart.GetItems)
		r.Delete("/items/{itemID}", cart.RemoveItem)
		r.Post("/checkout", checkout.Checkout)
	})

	return r
}
