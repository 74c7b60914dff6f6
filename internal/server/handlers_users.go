// ABOUTME: HTTP handlers for user accounts, token issuance, and role elevation
// ABOUTME: POST /jwt mints credentials; PATCH /users/admin/{id} grants the admin role

package server

import (
	"errors"
	"net/http"

	"github.com/sarkerlabs/fashion-backend/internal/auth"
	"github.com/sarkerlabs/fashion-backend/internal/store"
)

// handleIssueToken mints a signed credential from the claims the client
// supplies at login. The payload is opaque here; by convention it carries the
// account email.
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var claims map[string]any
	if !decodeJSON(w, r, &claims) {
		return
	}

	token, err := s.issuer.Issue(claims)
	if err != nil {
		s.logger.Error("issuing token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.storeError(w, "listing users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var user store.User
	if !decodeJSON(w, r, &user) {
		return
	}

	_, err := s.store.GetUserByEmail(r.Context(), user.Email)
	if err == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "User Already exists"})
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.storeError(w, "checking existing user", err)
		return
	}

	id, err := s.store.CreateUser(r.Context(), &user)
	if err != nil {
		s.storeError(w, "creating user", err)
		return
	}
	writeJSON(w, http.StatusOK, insertResult{Acknowledged: true, InsertedID: id})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
		// Absent records are a null success, not an error.
		writeJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		s.storeError(w, "getting user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.DeleteUser(r.Context(), r.PathValue("id"))
	if err != nil && !errors.Is(err, store.ErrInvalidID) {
		s.storeError(w, "deleting user", err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResult{Acknowledged: true, DeletedCount: deleted})
}

// handleCheckAdmin reports whether the given email belongs to an admin.
// Callers may only ask about themselves; any other email answers false
// without touching the store (explicit early return).
func (s *Server) handleCheckAdmin(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	id := auth.MustFromContext(r.Context())

	if id.Email != email {
		writeJSON(w, http.StatusOK, map[string]bool{"admin": false})
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.storeError(w, "checking admin role", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"admin": user.IsAdmin()})
}

// handlePromoteUser sets the admin role on a user. This is the only mutation
// path for roles.
func (s *Server) handlePromoteUser(w http.ResponseWriter, r *http.Request) {
	matched, modified, err := s.store.PromoteUser(r.Context(), r.PathValue("id"))
	if err != nil && !errors.Is(err, store.ErrInvalidID) {
		s.storeError(w, "promoting user", err)
		return
	}
	writeJSON(w, http.StatusOK, updateResult{Acknowledged: true, MatchedCount: matched, ModifiedCount: modified})
}

// storeError logs an unexpected store failure and answers with the generic
// 500 body. Guard-style bodies are reserved for auth decisions.
func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
