// Package kitchen exposes the kitchen board: listing unresolved orders and
// advancing their preparation status.
package kitchen

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
	UpdateKitchenStatus(ctx context.Context, orderID int64, status string, now time.Time) (trackingID string, err error)
	ListKitchenOrders(ctx context.Context) ([]domain.Order, error)
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

// ListOrders returns paid orders the kitchen still has in flight.
func (s *Service) ListOrders(ctx context.Context, role string) ([]domain.Order, error) {
	if err := auth.Allow(role, domain.RoleKitchen, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.store.ListKitchenOrders(ctx)
}

// UpdateStatus persists a kitchen transition and emits the status event.
// Preparation timestamps are set once: a replayed transition keeps the
// original stamp.
func (s *Service) UpdateStatus(ctx context.Context, role string, orderID int64, status string) error {
	if err := auth.Allow(role, domain.RoleKitchen, domain.RoleAdmin); err != nil {
		return err
	}
	if !domain.ValidKitchenStatus(status) {
		return apperrors.Validation("unknown kitchen status: " + status)
	}

	now := s.now()
	trackingID, err := s.store.UpdateKitchenStatus(ctx, orderID, status, now)
	if err != nil {
		return err
	}

	s.bus.PublishKitchenStatusChanged(ctx, events.KitchenStatusChanged{
		OrderID:       orderID,
		TrackingID:    trackingID,
		KitchenStatus: status,
		Timestamp:     now,
	})

	s.log.Action("kitchen_status_updated").Info("Kitchen status updated",
		"order_id", orderID, "tracking_id", trackingID, "status", status)
	return nil
}
