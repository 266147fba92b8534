package api

import (
	"encoding/json"
	"net/http"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
)

func (s *Server) handleKitchenOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := s.kitchen.ListOrders(r.Context(), roleFrom(r.Context()))
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]interface{}{"orders": orders})
	}
}

func (s *Server) handleKitchenStatus() http.HandlerFunc {
	type request struct {
		Status string `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := idParam(r)
		if err != nil {
			jsonError(w, err)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, apperrors.Validation("failed to parse JSON"))
			return
		}

		if err := s.kitchen.UpdateStatus(r.Context(), roleFrom(r.Context()), orderID, req.Status); err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) handleDeliveryOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := s.delivery.ListOrders(r.Context(), roleFrom(r.Context()))
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]interface{}{"orders": orders})
	}
}

func (s *Server) handleDeliveryStatus() http.HandlerFunc {
	type request struct {
		Status                   string `json:"status"`
		EstimatedDeliveryMinutes *int   `json:"estimatedDeliveryMinutes"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := idParam(r)
		if err != nil {
			jsonError(w, err)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, apperrors.Validation("failed to parse JSON"))
			return
		}

		if err := s.delivery.UpdateStatus(r.Context(), roleFrom(r.Context()), orderID, req.Status, req.EstimatedDeliveryMinutes); err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
	}
}
