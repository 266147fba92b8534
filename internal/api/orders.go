package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
	"github.com/zertkwork/d2c-food-menu-app/internal/order"
)

// signatureHeader carries the HMAC-SHA512 of the webhook body, hex-encoded.
const signatureHeader = "x-paystack-signature"

func (s *Server) handleCreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req order.CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.log.Action("parse_failed").Error("Failed to parse order", err)
			jsonError(w, apperrors.Validation("failed to parse JSON"))
			return
		}

		resp, err := s.orders.Create(r.Context(), req)
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, resp)
	}
}

// handleWebhook reads the raw body before any decoding so the signature is
// verified over exactly the bytes the provider signed.
func (s *Server) handleWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			jsonError(w, apperrors.Validation("failed to read request body"))
			return
		}

		ack, err := s.orders.HandleWebhook(r.Context(), body, r.Header.Get(signatureHeader))
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, ack)
	}
}

func (s *Server) handleTrackOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trackingID := chi.URLParam(r, "trackingId")
		if trackingID == "" {
			jsonError(w, apperrors.Validation("tracking id is required"))
			return
		}

		ord, err := s.orders.Track(r.Context(), trackingID)
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, ord)
	}
}

func (s *Server) handleOrderHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phone := chi.URLParam(r, "phone")
		if phone == "" {
			jsonError(w, apperrors.Validation("phone is required"))
			return
		}

		history, err := s.orders.History(r.Context(), phone)
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, history)
	}
}

func (s *Server) handleMenuList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.menu.List(r.Context())
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]interface{}{"items": items})
	}
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("a numeric id is required")
	}
	return id, nil
}
