// Package auth provides authentication and authorization for fashiond.
//
// # Credentials
//
// Callers authenticate with JWT bearer tokens signed HS256 with the configured
// jwt_secret. The claims payload is whatever the client supplied at login:
// opaque to the server except for the "email" field, which is the identity
// key. Tokens live for 7 days; there is no refresh, expiry forces re-login.
//
//	issuer, _ := auth.NewIssuer(secret)
//	token, _ := issuer.Issue(map[string]any{"email": "a@x.com"})
//	id, err := issuer.Verify(token)
//
// # Guards
//
// Two composable middleware filters protect routes:
//
//   - Guard.RequireAuth: verifies the bearer credential and attaches the
//     decoded Identity to the request context. Fails 401 with
//     {"error":true,"message":"unauthorized access"}.
//
//   - Guard.RequireAdmin: reads the Identity from context and looks up the
//     user record by email on every request (no caching). Missing user or a
//     role other than "admin" fails 403 with
//     {"error":true,"message":"Forbidden access"}.
//
// RequireAdmin depends on RequireAuth having run: the Identity it consumes is
// only ever produced by RequireAuth, and in its absence the request fails 401
// instead of crashing. Compose them per route:
//
//	mux.Handle("GET /users", guard.RequireAuth(guard.RequireAdmin(handler)))
//
// # Identity Propagation
//
// WithIdentity / FromContext / MustFromContext move the verified Identity
// through the request context. Handlers behind RequireAuth may use
// MustFromContext; anything else should tolerate a nil Identity.
package auth
