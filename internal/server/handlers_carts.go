// ABOUTME: HTTP handlers for cart entries
// ABOUTME: Cart reads are scoped to the verified identity's own email

package server

import (
	"errors"
	"net/http"

	"github.com/sarkerlabs/fashion-backend/internal/auth"
	"github.com/sarkerlabs/fashion-backend/internal/store"
)

// handleListCartItems lists the cart for the email in the query. No email
// answers an empty array (explicit early return); an email other than the
// verified identity's is forbidden.
func (s *Server) handleListCartItems(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeJSON(w, http.StatusOK, []store.CartItem{})
		return
	}

	id := auth.MustFromContext(r.Context())
	if email != id.Email {
		writeError(w, http.StatusForbidden, auth.MsgForbidden)
		return
	}

	items, err := s.store.ListCartItems(r.Context(), email)
	if err != nil {
		s.storeError(w, "listing cart items", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var item store.CartItem
	if !decodeJSON(w, r, &item) {
		return
	}

	id, err := s.store.AddCartItem(r.Context(), &item)
	if err != nil {
		s.storeError(w, "adding cart item", err)
		return
	}
	writeJSON(w, http.StatusOK, insertResult{Acknowledged: true, InsertedID: id})
}

func (s *Server) handleDeleteCartItem(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.DeleteCartItem(r.Context(), r.PathValue("id"))
	if err != nil && !errors.Is(err, store.ErrInvalidID) {
		s.storeError(w, "deleting cart item", err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResult{Acknowledged: true, DeletedCount: deleted})
}
