package order

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
	"github.com/zertkwork/d2c-food-menu-app/internal/domain"
	"github.com/zertkwork/d2c-food-menu-app/internal/events"
	"github.com/zertkwork/d2c-food-menu-app/internal/payment"
	"github.com/zertkwork/d2c-food-menu-app/pkg/config"
	"github.com/zertkwork/d2c-food-menu-app/pkg/logger"
)

var trackingIDPattern = regexp.MustCompile(`^ORD-[0-9A-Z]+-[0-9A-Z]{6}$`)

func validCreateRequest() CreateOrderRequest {
	return CreateOrderRequest{
		CustomerName:    "Ada Obi",
		Phone:           "+2348012345678",
		DeliveryAddress: "12 Marina Road, Lagos",
		Items: []OrderItemRequest{
			{MenuItemID: 1, MenuItemName: "Jollof Rice", Quantity: 2, Price: 1500, Total: 3000},
			{MenuItemID: 2, MenuItemName: "Chicken", Quantity: 1, Price: 2000, Total: 2000},
		},
		Total: 5000,
	}
}

func newStubService(store *fakeOrderStore, gw Gateway) *Service {
	return NewService(store, newFakeCustomerStore(), gw, events.NewBus(logger.Discard()),
		"sk_test_secret", "http://localhost:3000", config.PaymentModeStub, logger.Discard())
}

func TestCreateStubMode(t *testing.T) {
	store := newFakeOrderStore()
	gw := &failingGateway{}
	svc := newStubService(store, gw)

	resp, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if !trackingIDPattern.MatchString(resp.TrackingID) {
		t.Errorf("tracking id %q does not match expected format", resp.TrackingID)
	}
	if !strings.HasPrefix(resp.PaystackReference, "stub_ref_") {
		t.Errorf("stub reference = %q, want stub_ref_ prefix", resp.PaystackReference)
	}
	if resp.PaystackAuthURL != StubAuthURL {
		t.Errorf("auth url = %q, want %q", resp.PaystackAuthURL, StubAuthURL)
	}
	if gw.calls != 0 {
		t.Errorf("gateway called %d times in stub mode, want 0", gw.calls)
	}

	ord, err := store.GetByTrackingID(context.Background(), resp.TrackingID)
	if err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if ord.PaymentStatus != domain.PaymentPending || ord.OrderStatus != domain.OrderPendingPayment {
		t.Errorf("new order status = %s/%s, want pending/pending_payment", ord.PaymentStatus, ord.OrderStatus)
	}
}

func TestCreateLiveMode(t *testing.T) {
	store := newFakeOrderStore()
	gw := &recordingGateway{resp: &payment.InitializeResponse{
		AuthorizationURL: "https://checkout.paystack.com/abc123",
		AccessCode:       "abc123",
		Reference:        "ref-live-1",
	}}
	svc := NewService(store, newFakeCustomerStore(), gw, events.NewBus(logger.Discard()),
		"sk_test_secret", "https://shop.example.com", config.PaymentModeLive, logger.Discard())

	resp, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if resp.PaystackAuthURL != "https://checkout.paystack.com/abc123" {
		t.Errorf("auth url = %q, want gateway url", resp.PaystackAuthURL)
	}
	if gw.req.AmountMinor != 500000 {
		t.Errorf("amount minor = %d, want 500000", gw.req.AmountMinor)
	}
	wantCallback := "https://shop.example.com/track-order/" + resp.TrackingID
	if gw.req.CallbackURL != wantCallback {
		t.Errorf("callback url = %q, want %q", gw.req.CallbackURL, wantCallback)
	}
	if gw.req.Metadata.TrackingID != resp.TrackingID {
		t.Errorf("metadata tracking id = %q, want %q", gw.req.Metadata.TrackingID, resp.TrackingID)
	}
}

func TestCreateGatewayFailureKeepsOrder(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewService(store, newFakeCustomerStore(), &failingGateway{}, events.NewBus(logger.Discard()),
		"sk_test_secret", "http://localhost:3000", config.PaymentModeLive, logger.Discard())

	_, err := svc.Create(context.Background(), validCreateRequest())
	if err == nil {
		t.Fatal("Create() should surface the gateway failure")
	}

	// The order was persisted before the gateway call and stays pending.
	if len(store.orders) != 1 {
		t.Fatalf("persisted orders = %d, want 1", len(store.orders))
	}
	for _, ord := range store.orders {
		if ord.OrderStatus != domain.OrderPendingPayment {
			t.Errorf("order status after gateway failure = %q, want pending_payment", ord.OrderStatus)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateOrderRequest)
	}{
		{"shortName", func(r *CreateOrderRequest) { r.CustomerName = "A" }},
		{"shortPhone", func(r *CreateOrderRequest) { r.Phone = "123" }},
		{"shortAddress", func(r *CreateOrderRequest) { r.DeliveryAddress = "x" }},
		{"noItems", func(r *CreateOrderRequest) { r.Items = nil }},
		{"zeroTotal", func(r *CreateOrderRequest) { r.Total = 0 }},
		{"zeroQuantity", func(r *CreateOrderRequest) { r.Items[0].Quantity = 0 }},
		{"totalMismatch", func(r *CreateOrderRequest) { r.Total = 9999 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newStubService(newFakeOrderStore(), &failingGateway{})
			req := validCreateRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			if apperrors.KindOf(err) != apperrors.KindValidation {
				t.Errorf("Create() error kind = %v, want validation (err: %v)", apperrors.KindOf(err), err)
			}
		})
	}
}

func TestCreateMissingSecret(t *testing.T) {
	svc := NewService(newFakeOrderStore(), newFakeCustomerStore(), &failingGateway{},
		events.NewBus(logger.Discard()), "", "http://localhost:3000", config.PaymentModeStub, logger.Discard())

	_, err := svc.Create(context.Background(), validCreateRequest())
	if apperrors.KindOf(err) != apperrors.KindUpstream {
		t.Errorf("Create() without secret error kind = %v, want upstream", apperrors.KindOf(err))
	}
}

func TestGenerateTrackingIDUnique(t *testing.T) {
	base := time.Now()
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		// Advance the clock each call so the timestamp component moves.
		id := generateTrackingID(base.Add(time.Duration(i) * time.Millisecond))
		if !trackingIDPattern.MatchString(id) {
			t.Fatalf("tracking id %q does not match expected format", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate tracking id after %d generations: %s", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestTrackAndHistory(t *testing.T) {
	store := newFakeOrderStore()
	svc := newStubService(store, &failingGateway{})

	resp, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	ord, err := svc.Track(context.Background(), resp.TrackingID)
	if err != nil {
		t.Fatalf("Track() error: %v", err)
	}
	if ord.TrackingID != resp.TrackingID {
		t.Errorf("Track() returned %q, want %q", ord.TrackingID, resp.TrackingID)
	}

	if _, err := svc.Track(context.Background(), "ORD-NOPE-XXXXXX"); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("Track() unknown id error kind = %v, want not_found", apperrors.KindOf(err))
	}

	history, err := svc.History(context.Background(), "+2348012345678")
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(history.Orders) != 1 {
		t.Errorf("History() returned %d orders, want 1", len(history.Orders))
	}
	// No confirmed payment yet, so no profile to attach.
	if history.Profile != nil {
		t.Errorf("History() profile = %+v, want nil before first paid order", history.Profile)
	}

	if _, err := svc.History(context.Background(), ""); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("History() empty phone error kind = %v, want validation", apperrors.KindOf(err))
	}
}
