package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
)

func (s *Server) handleInventory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.admin.Inventory(r.Context(), roleFrom(r.Context()))
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]interface{}{"items": items})
	}
}

func (s *Server) handleUpdateInventory() http.HandlerFunc {
	type request struct {
		StockQuantity     int  `json:"stockQuantity"`
		LowStockThreshold int  `json:"lowStockThreshold"`
		TrackInventory    bool `json:"trackInventory"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := idParam(r)
		if err != nil {
			jsonError(w, err)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, apperrors.Validation("failed to parse JSON"))
			return
		}
		if req.StockQuantity < 0 || req.LowStockThreshold < 0 {
			jsonError(w, apperrors.Validation("quantities must not be negative"))
			return
		}

		if err := s.admin.UpdateInventory(r.Context(), roleFrom(r.Context()), itemID, req.StockQuantity, req.LowStockThreshold, req.TrackInventory); err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) handleAdjustStock() http.HandlerFunc {
	type request struct {
		Adjustment int `json:"adjustment"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := idParam(r)
		if err != nil {
			jsonError(w, err)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, apperrors.Validation("failed to parse JSON"))
			return
		}

		newQuantity, err := s.admin.AdjustStock(r.Context(), roleFrom(r.Context()), itemID, req.Adjustment)
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]int{"stockQuantity": newQuantity})
	}
}

func (s *Server) handleSetAvailability() http.HandlerFunc {
	type request struct {
		Available bool `json:"available"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := idParam(r)
		if err != nil {
			jsonError(w, err)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, apperrors.Validation("failed to parse JSON"))
			return
		}

		if err := s.admin.SetAvailability(r.Context(), roleFrom(r.Context()), itemID, req.Available); err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) handleAdminOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		orders, err := s.admin.ListOrders(r.Context(), roleFrom(r.Context()), limit)
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]interface{}{"orders": orders})
	}
}

func (s *Server) handleAdminOrderStatus() http.HandlerFunc {
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

		if err := s.admin.UpdateOrderStatus(r.Context(), roleFrom(r.Context()), orderID, req.Status); err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
	}
}
