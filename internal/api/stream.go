package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
	"github.com/zertkwork/d2c-food-menu-app/internal/auth"
	"github.com/zertkwork/d2c-food-menu-app/internal/domain"
	"github.com/zertkwork/d2c-food-menu-app/internal/stream"
)

const keepaliveInterval = 30 * time.Second

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// sendSSE writes one JSON-encoded event and flushes it to the client.
func sendSSE(w http.ResponseWriter, f http.Flusher, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	f.Flush()
}

// handleOrderStream streams status updates for a single order, keyed by
// tracking id, to the customer-facing tracking page.
func (s *Server) handleOrderStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trackingID := chi.URLParam(r, "trackingId")
		if trackingID == "" {
			jsonError(w, apperrors.Validation("tracking id is required"))
			return
		}

		f, ok := w.(http.Flusher)
		if !ok {
			jsonError(w, apperrors.New(apperrors.KindPersistence, "streaming unsupported"))
			return
		}

		setSSEHeaders(w)

		id, ch := s.tracking.Subscribe(trackingID)
		defer s.tracking.Unsubscribe(trackingID, id)
		s.log.Action("sse_connected").Debug("Tracking stream opened", "tracking_id", trackingID, "subscriber_id", id)

		fmt.Fprintf(w, ": connected\n\n")
		fmt.Fprintf(w, "retry: 2000\n\n")
		f.Flush()

		ticker := time.NewTicker(keepaliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				s.log.Action("sse_disconnected").Debug("Tracking stream closed", "tracking_id", trackingID, "subscriber_id", id)
				return
			case <-ticker.C:
				fmt.Fprintf(w, ": keepalive\n\n")
				f.Flush()
			case update, open := <-ch:
				if !open {
					return
				}
				sendSSE(w, f, update)
			}
		}
	}
}

// handleKitchenStream streams board updates to kitchen displays. The caller
// must hold a kitchen or admin session; EventSource clients cannot attach
// auth headers, so the token is also accepted as a query parameter. On
// connect the stream backfills every unresolved paid order as a new_order
// update so a reconnecting display rebuilds its board without a separate
// fetch.
func (s *Server) handleKitchenStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			token, _ = strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if token == "" {
			jsonError(w, apperrors.Auth("missing bearer token"))
			return
		}
		_, role, err := s.auth.Resolve(token)
		if err != nil {
			jsonError(w, err)
			return
		}
		if err := auth.Allow(role, domain.RoleKitchen, domain.RoleAdmin); err != nil {
			jsonError(w, err)
			return
		}

		f, ok := w.(http.Flusher)
		if !ok {
			jsonError(w, apperrors.New(apperrors.KindPersistence, "streaming unsupported"))
			return
		}

		setSSEHeaders(w)

		id, ch := s.board.Subscribe(stream.KitchenKey)
		defer s.board.Unsubscribe(stream.KitchenKey, id)
		s.log.Action("sse_connected").Debug("Kitchen stream opened", "subscriber_id", id)

		fmt.Fprintf(w, ": connected\n\n")
		fmt.Fprintf(w, "retry: 2000\n\n")
		f.Flush()

		orders, err := s.kitchen.ListOrders(r.Context(), role)
		if err != nil {
			s.log.Action("backfill_failed").Error("Failed to backfill kitchen stream", err)
		}
		for _, ord := range orders {
			sendSSE(w, f, kitchenBackfillUpdate(ord))
		}

		ticker := time.NewTicker(keepaliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				s.log.Action("sse_disconnected").Debug("Kitchen stream closed", "subscriber_id", id)
				return
			case <-ticker.C:
				fmt.Fprintf(w, ": keepalive\n\n")
				f.Flush()
			case update, open := <-ch:
				if !open {
					return
				}
				sendSSE(w, f, update)
			}
		}
	}
}

func kitchenBackfillUpdate(ord domain.Order) stream.KitchenOrderUpdate {
	items := make([]stream.KitchenItem, 0, len(ord.Items))
	for _, item := range ord.Items {
		items = append(items, stream.KitchenItem{MenuItemName: item.MenuItemName, Quantity: item.Quantity})
	}

	estimated := stream.DefaultEstimatedMinutes
	if ord.EstimatedDeliveryMinutes != nil {
		estimated = *ord.EstimatedDeliveryMinutes
	}

	return stream.KitchenOrderUpdate{
		Type:                     stream.UpdateTypeNewOrder,
		OrderID:                  ord.ID,
		TrackingID:               ord.TrackingID,
		CustomerName:             ord.CustomerName,
		Items:                    items,
		KitchenStatus:            ord.KitchenStatus,
		OrderStatus:              ord.OrderStatus,
		CreatedAt:                ord.CreatedAt,
		EstimatedDeliveryMinutes: estimated,
	}
}
