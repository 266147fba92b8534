// Package api wires the HTTP surface: routing, auth middleware, JSON
// handlers and the SSE endpoints.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zertkwork/d2c-food-menu-app/internal/admin"
	"github.com/zertkwork/d2c-food-menu-app/internal/auth"
	"github.com/zertkwork/d2c-food-menu-app/internal/delivery"
	"github.com/zertkwork/d2c-food-menu-app/internal/kitchen"
	"github.com/zertkwork/d2c-food-menu-app/internal/menu"
	"github.com/zertkwork/d2c-food-menu-app/internal/order"
	"github.com/zertkwork/d2c-food-menu-app/internal/stream"
	"github.com/zertkwork/d2c-food-menu-app/pkg/logger"
)

type Server struct {
	orders   *order.Service
	menu     *menu.Service
	kitchen  *kitchen.Service
	delivery *delivery.Service
	admin    *admin.Service
	auth     *auth.Service

	tracking *stream.Registry[stream.OrderStatusUpdate]
	board    *stream.Registry[stream.KitchenOrderUpdate]

	log logger.Logger
}

func NewServer(
	orders *order.Service,
	menuSvc *menu.Service,
	kitchenSvc *kitchen.Service,
	deliverySvc *delivery.Service,
	adminSvc *admin.Service,
	authSvc *auth.Service,
	tracking *stream.Registry[stream.OrderStatusUpdate],
	board *stream.Registry[stream.KitchenOrderUpdate],
	log logger.Logger,
) *Server {
	return &Server{
		orders:   orders,
		menu:     menuSvc,
		kitchen:  kitchenSvc,
		delivery: deliverySvc,
		admin:    adminSvc,
		auth:     authSvc,
		tracking: tracking,
		board:    board,
		log:      log,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth())

	r.Get("/menu", s.handleMenuList())

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", s.handleCreateOrder())
		r.Post("/webhook", s.handleWebhook())
		r.Get("/history/{phone}", s.handleOrderHistory())
		r.Get("/{trackingId}", s.handleTrackOrder())
		r.Get("/{trackingId}/stream", s.handleOrderStream())
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister())
		r.Post("/login", s.handleLogin())
		r.With(s.requireAuth).Get("/me", s.handleMe())
		r.With(s.requireAuth).Post("/logout", s.handleLogout())
	})

	r.Route("/kitchen", func(r chi.Router) {
		// The stream resolves its own token (query parameter or header)
		// so EventSource clients can authenticate.
		r.Get("/stream", s.handleKitchenStream())
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/orders", s.handleKitchenOrders())
			r.Post("/orders/{id}/status", s.handleKitchenStatus())
		})
	})

	r.Route("/delivery", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/orders", s.handleDeliveryOrders())
		r.Post("/orders/{id}/status", s.handleDeliveryStatus())
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/inventory", s.handleInventory())
		r.Post("/inventory/{id}", s.handleUpdateInventory())
		r.Post("/inventory/{id}/adjust", s.handleAdjustStock())
		r.Post("/menu/{id}/availability", s.handleSetAvailability())
		r.Get("/orders", s.handleAdminOrders())
		r.Post("/orders/{id}/status", s.handleAdminOrderStatus())
	})

	return r
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
