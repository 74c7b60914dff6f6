// ABOUTME: HTTP middleware guards for protected and admin-only routes
// ABOUTME: RequireAuth attaches the verified identity; RequireAdmin gates on the stored role

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sarkerlabs/fashion-backend/internal/store"
)

// Response bodies for guard failures. Clients match on these strings.
const (
	MsgUnauthorized = "unauthorized access"
	MsgForbidden    = "Forbidden access"
)

// TokenVerifier verifies a credential string and returns the identity it carries.
type TokenVerifier interface {
	Verify(tokenString string) (*Identity, error)
}

// UserLookup resolves a user record by email. Satisfied by store.UserStore.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
}

// Guard bundles the middleware for protected routes. RequireAuth is a pure
// filter; RequireAdmin additionally reads the user record on every request,
// so role changes take effect on the next request with no cache staleness.
type Guard struct {
	verifier TokenVerifier
	users    UserLookup
	logger   *slog.Logger
}

// NewGuard creates a Guard from a token verifier and a user lookup.
func NewGuard(verifier TokenVerifier, users UserLookup, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		verifier: verifier,
		users:    users,
		logger:   logger.With("component", "auth"),
	}
}

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and whether extraction succeeded.
func extractBearerToken(authHeader string) (string, bool) {
	if authHeader == "" {
		return "", false
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

// RequireAuth verifies the bearer credential on each request and attaches the
// decoded identity to the request context. Missing, malformed, foreign-signed
// and expired credentials all fail identically with 401.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractBearerToken(r.Header.Get("Authorization"))
		if !ok {
			WriteGuardError(w, http.StatusUnauthorized, MsgUnauthorized)
			return
		}

		id, err := g.verifier.Verify(token)
		if err != nil {
			g.logger.Debug("token rejected", "error", err)
			WriteGuardError(w, http.StatusUnauthorized, MsgUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireAdmin gates a route on the stored role of the verified identity.
// Must be composed after RequireAuth: without an Identity in context it fails
// with 401 rather than crashing, making the ordering dependency structural.
func (g *Guard) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := FromContext(r.Context())
		if id == nil {
			WriteGuardError(w, http.StatusUnauthorized, MsgUnauthorized)
			return
		}

		user, err := g.users.GetUserByEmail(r.Context(), id.Email)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			g.logger.Error("role lookup failed", "email", id.Email, "error", err)
			WriteGuardError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		if !user.IsAdmin() {
			WriteGuardError(w, http.StatusForbidden, MsgForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// WriteGuardError writes the structured error body guards short-circuit with.
// Shared with the server's recover boundary so every error reads the same.
func WriteGuardError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error":   true,
		"message": message,
	})
}
