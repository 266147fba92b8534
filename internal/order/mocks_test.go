package order

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
	"github.com/zertkwork/d2c-food-menu-app/internal/domain"
	"github.com/zertkwork/d2c-food-menu-app/internal/payment"
)

// fakeOrderStore keeps orders in memory and mirrors the conditional-update
// semantics of the real repository: MarkPaid transitions at most once.
type fakeOrderStore struct {
	mu      sync.Mutex
	nextID  int64
	orders  map[int64]*domain.Order
	items   map[int64][]domain.OrderItem
	routed  []int64
	statuses map[int64]string

	createErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		nextID:  1,
		orders:  make(map[int64]*domain.Order),
		items:   make(map[int64][]domain.OrderItem),
		statuses: make(map[int64]string),
	}
}

func (f *fakeOrderStore) CreateWithProfile(_ context.Context, order *domain.Order, items []domain.OrderItem) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, 0, f.createErr
	}

	id := f.nextID
	f.nextID++
	profileID := id + 1000

	stored := *order
	stored.ID = id
	stored.CustomerProfileID = &profileID
	f.orders[id] = &stored
	f.items[id] = items
	return id, profileID, nil
}

func (f *fakeOrderStore) MarkPaid(_ context.Context, reference string) (*domain.Order, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ord := range f.orders {
		if ord.PaymentReference != reference {
			continue
		}
		if ord.PaymentStatus != domain.PaymentPending {
			return nil, false, nil
		}
		ord.PaymentStatus = domain.PaymentCompleted
		ord.OrderStatus = domain.OrderReceived
		cp := *ord
		return &cp, true, nil
	}
	return nil, false, nil
}

func (f *fakeOrderStore) GetByTrackingID(_ context.Context, trackingID string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ord := range f.orders {
		if ord.TrackingID == trackingID {
			cp := *ord
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("order not found")
}

func (f *fakeOrderStore) ItemsByOrderID(_ context.Context, orderID int64) ([]domain.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[orderID], nil
}

func (f *fakeOrderStore) RouteToKitchen(_ context.Context, orderID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routed = append(f.routed, orderID)
	if ord, ok := f.orders[orderID]; ok {
		ord.KitchenStatus = domain.KitchenPending
		ord.OrderStatus = domain.OrderPreparing
	}
	return nil
}

func (f *fakeOrderStore) SetOrderStatus(_ context.Context, orderID int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[orderID] = status
	if ord, ok := f.orders[orderID]; ok {
		ord.OrderStatus = status
	}
	return nil
}

func (f *fakeOrderStore) HistoryByPhone(_ context.Context, phone string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for _, ord := range f.orders {
		if ord.Phone == phone {
			out = append(out, *ord)
		}
	}
	return out, nil
}

type fakeCustomerStore struct {
	mu      sync.Mutex
	applied map[int64]int
	spent   map[int64]float64
}

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{applied: make(map[int64]int), spent: make(map[int64]float64)}
}

func (f *fakeCustomerStore) ApplyPaidOrder(_ context.Context, profileID int64, amount float64, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied[profileID]++
	f.spent[profileID] += amount
	return nil
}

func (f *fakeCustomerStore) GetByPhone(_ context.Context, phone string) (*domain.CustomerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for profileID, count := range f.applied {
		if count > 0 {
			return &domain.CustomerProfile{
				ID:          profileID,
				Phone:       phone,
				TotalOrders: count,
				TotalSpent:  f.spent[profileID],
			}, nil
		}
	}
	return nil, apperrors.NotFound("customer profile not found")
}

type fakeMenuStore struct {
	mu    sync.Mutex
	stock map[int64]int
	calls []struct {
		ID  int64
		Qty int
	}
}

func newFakeMenuStore(stock map[int64]int) *fakeMenuStore {
	return &fakeMenuStore{stock: stock}
}

func (f *fakeMenuStore) DecrementStock(_ context.Context, menuItemID int64, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, struct {
		ID  int64
		Qty int
	}{menuItemID, quantity})
	remaining := f.stock[menuItemID] - quantity
	if remaining < 0 {
		remaining = 0
	}
	f.stock[menuItemID] = remaining
	return nil
}

// failingGateway errors on any call; stub-mode tests use it to prove no
// outbound request is attempted.
type failingGateway struct{ calls int }

func (g *failingGateway) InitializeTransaction(context.Context, payment.InitializeRequest) (*payment.InitializeResponse, error) {
	g.calls++
	return nil, errors.New("gateway must not be called")
}

type recordingGateway struct {
	req  payment.InitializeRequest
	resp *payment.InitializeResponse
	err  error
}

func (g *recordingGateway) InitializeTransaction(_ context.Context, req payment.InitializeRequest) (*payment.InitializeResponse, error) {
	g.req = req
	if g.err != nil {
		return nil, g.err
	}
	return g.resp, nil
}
