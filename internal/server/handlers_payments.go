// ABOUTME: HTTP handlers for payment intents, payment recording, and admin stats
// ABOUTME: Processor rejections map to 400; recording returns both write outcomes

package server

import (
	"errors"
	"net/http"

	"github.com/sarkerlabs/fashion-backend/internal/payments"
	"github.com/sarkerlabs/fashion-backend/internal/store"
)

type createIntentRequest struct {
	Price float64 `json:"price"`
}

func (s *Server) handleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	if s.intents == nil {
		writeError(w, http.StatusServiceUnavailable, "payment processor not configured")
		return
	}

	var req createIntentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	secret, err := s.intents.CreateIntent(r.Context(), req.Price)
	if err != nil {
		var pe *payments.ProcessorError
		if errors.As(err, &pe) {
			writeError(w, http.StatusBadRequest, pe.Message)
			return
		}
		s.storeError(w, "creating payment intent", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"clientSecret": secret})
}

// handleRecordPayment records a completed payment and invalidates the cart
// entries it consumed, returning both outcomes. The delete count can fall
// short of the request count; clients comparing the two detect stale entries.
func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var payment store.Payment
	if !decodeJSON(w, r, &payment) {
		return
	}

	receipt, err := s.recorder.Record(r.Context(), &payment)
	if err != nil {
		s.storeError(w, "recording payment", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"insertResult": insertResult{Acknowledged: true, InsertedID: receipt.InsertedID},
		"deleteResult": deleteResult{Acknowledged: true, DeletedCount: receipt.DeletedCount},
	})
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.store.ListPayments(r.Context())
	if err != nil {
		s.storeError(w, "listing payments", err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// handlePaymentHistory lists payments filtered by the email query param.
func (s *Server) handlePaymentHistory(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	history, err := s.store.ListPaymentsByEmail(r.Context(), email)
	if err != nil {
		s.storeError(w, "listing payment history", err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.stats.Summarize(r.Context())
	if err != nil {
		s.storeError(w, "computing admin stats", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleOrderStats(w http.ResponseWriter, r *http.Request) {
	breakdown, err := s.stats.OrdersByCategory(r.Context())
	if err != nil {
		s.storeError(w, "computing order stats", err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}
