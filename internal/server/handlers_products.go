// ABOUTME: HTTP handlers for the product catalog and storefront reviews
// ABOUTME: Updated-product routes resolve mixed ObjectId/string ids via the store fallback

package server

import (
	"errors"
	"net/http"

	"github.com/sarkerlabs/fashion-backend/internal/store"
)

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.ListProducts(r.Context())
	if err != nil {
		s.storeError(w, "listing products", err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var product store.Product
	if !decodeJSON(w, r, &product) {
		return
	}

	id, err := s.store.CreateProduct(r.Context(), &product)
	if err != nil {
		s.storeError(w, "creating product", err)
		return
	}
	writeJSON(w, http.StatusOK, insertResult{Acknowledged: true, InsertedID: id})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.store.GetProduct(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		s.storeError(w, "getting product", err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var product store.Product
	if !decodeJSON(w, r, &product) {
		return
	}

	matched, modified, err := s.store.UpdateProduct(r.Context(), r.PathValue("id"), &product)
	if err != nil {
		s.storeError(w, "updating product", err)
		return
	}
	writeJSON(w, http.StatusOK, updateResult{Acknowledged: true, MatchedCount: matched, ModifiedCount: modified})
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.DeleteProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, "deleting product", err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResult{Acknowledged: true, DeletedCount: deleted})
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.store.ListReviews(r.Context())
	if err != nil {
		s.storeError(w, "listing reviews", err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
