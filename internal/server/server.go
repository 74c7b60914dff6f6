// ABOUTME: HTTP server wiring for fashiond: route table, guard composition, lifecycle
// ABOUTME: Guards are composed per route; the recover boundary wraps everything

package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sarkerlabs/fashion-backend/internal/auth"
	"github.com/sarkerlabs/fashion-backend/internal/payments"
	"github.com/sarkerlabs/fashion-backend/internal/stats"
	"github.com/sarkerlabs/fashion-backend/internal/store"
)

// IntentCreator creates a payment intent and returns its client secret.
// Satisfied by payments.IntentCreator; nil when no processor key is configured.
type IntentCreator interface {
	CreateIntent(ctx context.Context, price float64) (string, error)
}

// Server is the HTTP API for the storefront and admin dashboard.
type Server struct {
	addr     string
	store    store.Store
	issuer   *auth.Issuer
	guard    *auth.Guard
	intents  IntentCreator
	recorder *payments.Recorder
	stats    *stats.Aggregator
	logger   *slog.Logger
}

// New assembles a Server from its collaborators. The store is the process-wide
// shared connection, handed in at construction (init-once, no teardown).
func New(addr string, st store.Store, issuer *auth.Issuer, intents IntentCreator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:     addr,
		store:    st,
		issuer:   issuer,
		guard:    auth.NewGuard(issuer, st, logger),
		intents:  intents,
		recorder: payments.NewRecorder(st, st, logger),
		stats:    stats.NewAggregator(st, st, logger),
		logger:   logger.With("component", "server"),
	}
}

// Handler builds the full route table. Guards are composed per route rather
// than as a global auth chain, with the recover boundary and request logging
// outermost.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /jwt", s.handleIssueToken)

	mux.Handle("GET /users", s.adminOnly(s.handleListUsers))
	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.Handle("GET /users/{id}", s.protected(s.handleGetUser))
	mux.HandleFunc("DELETE /users/{id}", s.handleDeleteUser)
	mux.Handle("GET /users/admin/{email}", s.protected(s.handleCheckAdmin))
	mux.HandleFunc("PATCH /users/admin/{id}", s.handlePromoteUser)

	mux.HandleFunc("GET /products", s.handleListProducts)
	mux.Handle("POST /products", s.adminOnly(s.handleCreateProduct))
	mux.Handle("DELETE /products/{id}", s.adminOnly(s.handleDeleteProduct))
	mux.HandleFunc("GET /updated-product/{id}", s.handleGetProduct)
	mux.Handle("PUT /updated-product/{id}", s.adminOnly(s.handleUpdateProduct))

	mux.HandleFunc("GET /reviews", s.handleListReviews)

	mux.Handle("GET /carts", s.protected(s.handleListCartItems))
	mux.HandleFunc("POST /carts", s.handleAddCartItem)
	mux.HandleFunc("DELETE /carts/{id}", s.handleDeleteCartItem)

	mux.Handle("POST /create-payment-intent", s.protected(s.handleCreatePaymentIntent))
	mux.Handle("POST /payments", s.protected(s.handleRecordPayment))
	mux.Handle("GET /all-payment", s.protected(s.handleListPayments))
	mux.Handle("GET /payment-history", s.protected(s.handlePaymentHistory))

	mux.Handle("GET /admin-stats", s.adminOnly(s.handleAdminStats))
	mux.Handle("GET /order-stats", s.adminOnly(s.handleOrderStats))

	return s.recoverer(s.requestLog(mux))
}

// protected composes the auth guard in front of a handler.
func (s *Server) protected(h http.HandlerFunc) http.Handler {
	return s.guard.RequireAuth(h)
}

// adminOnly composes both guards. RequireAdmin consumes the identity that only
// RequireAuth produces, so this is the one valid ordering.
func (s *Server) adminOnly(h http.HandlerFunc) http.Handler {
	return s.guard.RequireAuth(s.guard.RequireAdmin(h))
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Fashion is Running.."))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
