// Package server wires the fashiond HTTP API.
//
// # Route Protection
//
// Guards are reusable filters composed per route, not a fixed chain:
//
//   - open routes register their handler directly
//   - protected routes wrap it in guard.RequireAuth
//   - admin routes wrap it in RequireAuth then RequireAdmin
//
// RequireAdmin consumes the identity that only RequireAuth puts in context,
// so the composition order is the only one that admits anybody.
//
// # Error Boundary
//
// Handlers answer expected failures themselves (guard bodies, driver-shaped
// results, null for absent records). Anything unexpected, store faults and
// panics included, funnels to a generic {error:true, message:"internal server error"}
// 500 via storeError and the outermost recover middleware, never a stack
// trace or a hung request.
//
// # Response Shapes
//
// Mutating routes answer with driver-shaped results (insertedId,
// matchedCount/modifiedCount, deletedCount) because the storefront client
// predates this server and binds to those field names.
package server
