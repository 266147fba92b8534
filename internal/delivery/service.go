// Package delivery exposes the delivery board: listing dispatchable orders
// and recording handoff/delivery.
package delivery

import (
	"context"
	"time"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
	"github.com/zertkwork/d2c-food-menu-app/internal/auth"
	"github.com/zertkwork/d2c-food-menu-app/internal/domain"
	"github.com/zertkwork/d2c-food-menu-app/internal/events"
	"github.com/zertkwork/d2c-food-menu-app/pkg/logger"
)

type Store interface {
	UpdateDeliveryStatus(ctx context.Context, orderID int64, status string, estimatedMinutes *int, now time.Time) (trackingID string, err error)
	ListDeliveryOrders(ctx context.Context) ([]domain.Order, error)
}

type Service struct {
	store Store
	bus   *events.Bus
	log   logger.Logger
	now   func() time.Time
}

func NewService(store Store, bus *events.Bus, log logger.Logger) *Service {
	return &Service{store: store, bus: bus, log: log, now: time.Now}
}

func (s *Service) ListOrders(ctx context.Context, role string) ([]domain.Order, error) {
	if err := auth.Allow(role, domain.RoleDelivery, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.store.ListDeliveryOrders(ctx)
}

// UpdateStatus records a delivery transition. out_for_delivery stamps the
// handoff time once and stores the estimate; delivered stamps completion.
func (s *Service) UpdateStatus(ctx context.Context, role string, orderID int64, status string, estimatedMinutes *int) error {
	if err := auth.Allow(role, domain.RoleDelivery, domain.RoleAdmin); err != nil {
		return err
	}
	if !domain.ValidDeliveryStatus(status) {
		return apperrors.Validation("unknown delivery status: " + status)
	}

	now := s.now()
	trackingID, err := s.store.UpdateDeliveryStatus(ctx, orderID, status, estimatedMinutes, now)
	if err != nil {
		return err
	}

	s.bus.PublishDeliveryStatusChanged(ctx, events.DeliveryStatusChanged{
		OrderID:                  orderID,
		TrackingID:               trackingID,
		DeliveryStatus:           status,
		EstimatedDeliveryMinutes: estimatedMinutes,
		Timestamp:                now,
	})

	s.log.Action("delivery_status_updated").Info("Delivery status updated",
		"order_id", orderID, "tracking_id", trackingID, "status", status)
	return nil
}
