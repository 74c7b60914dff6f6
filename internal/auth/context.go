// ABOUTME: Request-scoped identity for tracking the verified caller
// ABOUTME: Provides WithIdentity/FromContext for propagating identity via context

package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified caller extracted from a credential. Only the auth
// middleware produces one, so any handler or guard that receives an Identity
// can rely on the token having been checked.
type Identity struct {
	Email  string        // identity key, matched case-sensitively
	Claims jwt.MapClaims // full decoded claims payload
}

// identityKey is the key type for storing an Identity in context.Context.
type identityKey struct{}

// WithIdentity returns a new context with the Identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext retrieves the Identity from the context, returning nil if the
// request never passed the auth middleware.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}

// MustFromContext retrieves the Identity, panicking if absent. For handlers
// registered behind RequireAuth, where a missing identity is a wiring bug.
func MustFromContext(ctx context.Context) *Identity {
	id := FromContext(ctx)
	if id == nil {
		panic("auth: Identity not found in context")
	}
	return id
}
