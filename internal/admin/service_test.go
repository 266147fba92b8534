package admin

import (
	"context"
	"testing"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
	"github.com/zertkwork/d2c-food-menu-app/internal/domain"
	"github.com/zertkwork/d2c-food-menu-app/pkg/logger"
)

type fakeMenuStore struct {
	items []domain.MenuItem
	stock map[int64]int
}

func (f *fakeMenuStore) ListAll(context.Context) ([]domain.MenuItem, error) {
	return f.items, nil
}

func (f *fakeMenuStore) AdjustStock(_ context.Context, menuItemID int64, adjustment int) (int, error) {
	next := f.stock[menuItemID] + adjustment
	if next < 0 {
		next = 0
	}
	f.stock[menuItemID] = next
	return next, nil
}

func (f *fakeMenuStore) UpdateInventory(_ context.Context, menuItemID int64, stockQuantity, lowStockThreshold int, trackInventory bool) error {
	f.stock[menuItemID] = stockQuantity
	return nil
}

func (f *fakeMenuStore) SetAvailability(context.Context, int64, bool) error { return nil }

type fakeOrderStore struct {
	orders   []domain.Order
	statuses map[int64]string
	limit    int
}

func (f *fakeOrderStore) ListRecent(_ context.Context, limit int) ([]domain.Order, error) {
	f.limit = limit
	return f.orders, nil
}

func (f *fakeOrderStore) SetOrderStatus(_ context.Context, orderID int64, status string) error {
	if f.statuses == nil {
		f.statuses = make(map[int64]string)
	}
	f.statuses[orderID] = status
	return nil
}

func newTestService(menu *fakeMenuStore, orders *fakeOrderStore) *Service {
	return NewService(menu, orders, logger.Discard())
}

func TestInventoryFlagsLowStock(t *testing.T) {
	menu := &fakeMenuStore{items: []domain.MenuItem{
		{ID: 1, Name: "Jollof Rice", StockQuantity: 2, LowStockThreshold: 5, TrackInventory: true},
		{ID: 2, Name: "Suya", StockQuantity: 50, LowStockThreshold: 5, TrackInventory: true},
		{ID: 3, Name: "Water", StockQuantity: 0, LowStockThreshold: 5, TrackInventory: false},
	}}
	svc := newTestService(menu, &fakeOrderStore{})

	inventory, err := svc.Inventory(context.Background(), domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Inventory() error: %v", err)
	}

	want := map[int64]bool{1: true, 2: false, 3: false}
	for _, item := range inventory {
		if item.LowStock != want[item.ID] {
			t.Errorf("item %d low stock = %v, want %v", item.ID, item.LowStock, want[item.ID])
		}
	}
}

func TestAdminRoleGate(t *testing.T) {
	svc := newTestService(&fakeMenuStore{stock: map[int64]int{}}, &fakeOrderStore{})

	for _, role := range []string{domain.RoleKitchen, domain.RoleDelivery, domain.RoleCustomer, ""} {
		if _, err := svc.Inventory(context.Background(), role); apperrors.KindOf(err) != apperrors.KindForbidden {
			t.Errorf("Inventory(%q) error kind = %v, want forbidden", role, apperrors.KindOf(err))
		}
		if _, err := svc.AdjustStock(context.Background(), role, 1, 5); apperrors.KindOf(err) != apperrors.KindForbidden {
			t.Errorf("AdjustStock(%q) error kind = %v, want forbidden", role, apperrors.KindOf(err))
		}
		if err := svc.UpdateOrderStatus(context.Background(), role, 1, domain.OrderCancelled); apperrors.KindOf(err) != apperrors.KindForbidden {
			t.Errorf("UpdateOrderStatus(%q) error kind = %v, want forbidden", role, apperrors.KindOf(err))
		}
	}
}

func TestAdjustStock(t *testing.T) {
	menu := &fakeMenuStore{stock: map[int64]int{1: 10}}
	svc := newTestService(menu, &fakeOrderStore{})

	got, err := svc.AdjustStock(context.Background(), domain.RoleAdmin, 1, -4)
	if err != nil {
		t.Fatalf("AdjustStock() error: %v", err)
	}
	if got != 6 {
		t.Errorf("new quantity = %d, want 6", got)
	}

	// Over-subtraction floors at zero.
	got, err = svc.AdjustStock(context.Background(), domain.RoleAdmin, 1, -100)
	if err != nil {
		t.Fatalf("AdjustStock() error: %v", err)
	}
	if got != 0 {
		t.Errorf("floored quantity = %d, want 0", got)
	}
}

func TestListOrdersClampsLimit(t *testing.T) {
	orders := &fakeOrderStore{}
	svc := newTestService(&fakeMenuStore{}, orders)

	tests := []struct {
		limit int
		want  int
	}{
		{0, defaultOrderListLimit},
		{-5, defaultOrderListLimit},
		{1000, defaultOrderListLimit},
		{25, 25},
	}
	for _, tt := range tests {
		if _, err := svc.ListOrders(context.Background(), domain.RoleAdmin, tt.limit); err != nil {
			t.Fatalf("ListOrders(%d) error: %v", tt.limit, err)
		}
		if orders.limit != tt.want {
			t.Errorf("ListOrders(%d) used limit %d, want %d", tt.limit, orders.limit, tt.want)
		}
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	orders := &fakeOrderStore{}
	svc := newTestService(&fakeMenuStore{}, orders)

	if err := svc.UpdateOrderStatus(context.Background(), domain.RoleAdmin, 3, domain.OrderCancelled); err != nil {
		t.Fatalf("UpdateOrderStatus() error: %v", err)
	}
	if orders.statuses[3] != domain.OrderCancelled {
		t.Errorf("status = %q, want cancelled", orders.statuses[3])
	}

	err := svc.UpdateOrderStatus(context.Background(), domain.RoleAdmin, 3, "teleported")
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("unknown status error kind = %v, want validation", apperrors.KindOf(err))
	}
}
