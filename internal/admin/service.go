// Package admin covers staff-side inventory and order management.
package admin

import (
	"context"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
	"github.com/zertkwork/d2c-food-menu-app/internal/auth"
	"github.com/zertkwork/d2c-food-menu-app/internal/domain"
	"github.com/zertkwork/d2c-food-menu-app/pkg/logger"
)

type MenuStore interface {
	ListAll(ctx context.Context) ([]domain.MenuItem, error)
	AdjustStock(ctx context.Context, menuItemID int64, adjustment int) (int, error)
	UpdateInventory(ctx context.Context, menuItemID int64, stockQuantity, lowStockThreshold int, trackInventory bool) error
	SetAvailability(ctx context.Context, menuItemID int64, available bool) error
}

type OrderStore interface {
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
	SetOrderStatus(ctx context.Context, orderID int64, status string) error
}

type Service struct {
	menu   MenuStore
	orders OrderStore
	log    logger.Logger
}

func NewService(menu MenuStore, orders OrderStore, log logger.Logger) *Service {
	return &Service{menu: menu, orders: orders, log: log}
}

// InventoryItem decorates a menu item with its low-stock flag.
type InventoryItem struct {
	domain.MenuItem
	LowStock bool `json:"lowStock"`
}

func (s *Service) Inventory(ctx context.Context, role string) ([]InventoryItem, error) {
	if err := auth.Allow(role, domain.RoleAdmin); err != nil {
		return nil, err
	}

	items, err := s.menu.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	inventory := make([]InventoryItem, 0, len(items))
	for _, item := range items {
		inventory = append(inventory, InventoryItem{
			MenuItem: item,
			LowStock: item.TrackInventory && item.StockQuantity <= item.LowStockThreshold,
		})
	}
	return inventory, nil
}

// AdjustStock applies a manual delta and returns the new quantity, floored
// at zero.
func (s *Service) AdjustStock(ctx context.Context, role string, menuItemID int64, adjustment int) (int, error) {
	if err := auth.Allow(role, domain.RoleAdmin); err != nil {
		return 0, err
	}

	newQuantity, err := s.menu.AdjustStock(ctx, menuItemID, adjustment)
	if err != nil {
		return 0, err
	}

	s.log.Action("stock_adjusted").Info("Stock adjusted",
		"menu_item_id", menuItemID, "adjustment", adjustment, "new_quantity", newQuantity)
	return newQuantity, nil
}

func (s *Service) UpdateInventory(ctx context.Context, role string, menuItemID int64, stockQuantity, lowStockThreshold int, trackInventory bool) error {
	if err := auth.Allow(role, domain.RoleAdmin); err != nil {
		return err
	}
	return s.menu.UpdateInventory(ctx, menuItemID, stockQuantity, lowStockThreshold, trackInventory)
}

func (s *Service) SetAvailability(ctx context.Context, role string, menuItemID int64, available bool) error {
	if err := auth.Allow(role, domain.RoleAdmin); err != nil {
		return err
	}
	return s.menu.SetAvailability(ctx, menuItemID, available)
}

const defaultOrderListLimit = 100

func (s *Service) ListOrders(ctx context.Context, role string, limit int) ([]domain.Order, error) {
	if err := auth.Allow(role, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = defaultOrderListLimit
	}
	return s.orders.ListRecent(ctx, limit)
}

// UpdateOrderStatus is the admin override for an order's overall status.
func (s *Service) UpdateOrderStatus(ctx context.Context, role string, orderID int64, status string) error {
	if err := auth.Allow(role, domain.RoleAdmin); err != nil {
		return err
	}
	if !domain.ValidOrderStatus(status) {
		return apperrors.Validation("unknown order status: " + status)
	}

	if err := s.orders.SetOrderStatus(ctx, orderID, status); err != nil {
		return err
	}

	s.log.Action("order_status_overridden").Info("Order status updated by admin",
		"order_id", orderID, "status", status)
	return nil
}
