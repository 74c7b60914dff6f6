// ABOUTME: Tests for the HTTP middleware guards
// ABOUTME: Covers token extraction, 401/403 bodies, role lookups, and guard ordering

package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarkerlabs/fashion-backend/internal/store"
)

var httpTestSecret = []byte("http-middleware-test-secret-32b!")

func newTestGuard(t *testing.T) (*Guard, *Issuer, *store.MockStore) {
	t.Helper()

	issuer, err := NewIssuer(httpTestSecret)
	require.NoError(t, err)

	mock := store.NewMockStore()
	guard := NewGuard(issuer, mock, slog.Default())
	return guard, issuer, mock
}

func decodeGuardBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_ValidToken(t *testing.T) {
	guard, issuer, _ := newTestGuard(t)

	token, err := issuer.Issue(map[string]any{"email": "a@x.com"})
	require.NoError(t, err)

	var gotIdentity *Identity
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/carts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	guard.RequireAuth(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotIdentity)
	assert.Equal(t, "a@x.com", gotIdentity.Email)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	guard, _, _ := newTestGuard(t)

	var called bool
	req := httptest.NewRequest(http.MethodGet, "/carts", nil)
	rec := httptest.NewRecorder()

	guard.RequireAuth(okHandler(&called)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	body := decodeGuardBody(t, rec)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, MsgUnauthorized, body["message"])
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	guard, issuer, _ := newTestGuard(t)

	token, err := issuer.Issue(map[string]any{"email": "a@x.com"})
	require.NoError(t, err)

	for _, header := range []string{"Bearer", "Bearer ", token, "Basic " + token} {
		var called bool
		req := httptest.NewRequest(http.MethodGet, "/carts", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		guard.RequireAuth(okHandler(&called)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.False(t, called, "header %q", header)
	}
}

func TestRequireAuth_ForeignToken(t *testing.T) {
	guard, _, _ := newTestGuard(t)

	other, err := NewIssuer([]byte("a-different-secret-entirely-32-b"))
	require.NoError(t, err)
	token, err := other.Issue(map[string]any{"email": "a@x.com"})
	require.NoError(t, err)

	var called bool
	req := httptest.NewRequest(http.MethodGet, "/carts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	guard.RequireAuth(okHandler(&called)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireAdmin_AdmitsAdmin(t *testing.T) {
	guard, issuer, mock := newTestGuard(t)

	_, err := mock.CreateUser(t.Context(), &store.User{Email: "boss@x.com", Role: store.RoleAdmin})
	require.NoError(t, err)

	token, err := issuer.Issue(map[string]any{"email": "boss@x.com"})
	require.NoError(t, err)

	var called bool
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	guard.RequireAuth(guard.RequireAdmin(okHandler(&called))).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestRequireAdmin_RejectsNonAdmin(t *testing.T) {
	guard, issuer, mock := newTestGuard(t)

	_, err := mock.CreateUser(t.Context(), &store.User{Email: "a@x.com"})
	require.NoError(t, err)

	token, err := issuer.Issue(map[string]any{"email": "a@x.com"})
	require.NoError(t, err)

	var called bool
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	guard.RequireAuth(guard.RequireAdmin(okHandler(&called))).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)

	body := decodeGuardBody(t, rec)
	assert.Equal(t, MsgForbidden, body["message"])
}

func TestRequireAdmin_RejectsUnknownUser(t *testing.T) {
	guard, issuer, _ := newTestGuard(t)

	token, err := issuer.Issue(map[string]any{"email": "ghost@x.com"})
	require.NoError(t, err)

	var called bool
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	guard.RequireAuth(guard.RequireAdmin(okHandler(&called))).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestRequireAdmin_WithoutRequireAuth(t *testing.T) {
	// Misordered composition fails closed with 401 rather than crashing.
	guard, _, mock := newTestGuard(t)

	_, err := mock.CreateUser(t.Context(), &store.User{Email: "boss@x.com", Role: store.RoleAdmin})
	require.NoError(t, err)

	var called bool
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()

	guard.RequireAdmin(okHandler(&called)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireAdmin_FreshLookupEachRequest(t *testing.T) {
	// A promotion is visible on the very next request: no role caching.
	guard, issuer, mock := newTestGuard(t)

	id, err := mock.CreateUser(t.Context(), &store.User{Email: "a@x.com"})
	require.NoError(t, err)

	token, err := issuer.Issue(map[string]any{"email": "a@x.com"})
	require.NoError(t, err)

	handler := guard.RequireAuth(guard.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	_, _, err = mock.PromoteUser(t.Context(), id)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
