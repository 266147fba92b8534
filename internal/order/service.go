// Package order implements the order lifecycle: creation with payment
// initialization, webhook confirmation and the reactive orchestration that
// follows a confirmed payment.
package order

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
	"github.com/zertkwork/d2c-food-menu-app/internal/domain"
	"github.com/zertkwork/d2c-food-menu-app/internal/events"
	"github.com/zertkwork/d2c-food-menu-app/internal/payment"
	"github.com/zertkwork/d2c-food-menu-app/pkg/config"
	"github.com/zertkwork/d2c-food-menu-app/pkg/logger"
)

// StubAuthURL is returned instead of a gateway checkout URL in stub mode.
const StubAuthURL = "http://localhost/stub-pay"

// OrderStore is the persistence contract the lifecycle depends on.
type OrderStore interface {
	CreateWithProfile(ctx context.Context, order *domain.Order, items []domain.OrderItem) (orderID, profileID int64, err error)
	MarkPaid(ctx context.Context, reference string) (order *domain.Order, transitioned bool, err error)
	GetByTrackingID(ctx context.Context, trackingID string) (*domain.Order, error)
	ItemsByOrderID(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	RouteToKitchen(ctx context.Context, orderID int64) error
	SetOrderStatus(ctx context.Context, orderID int64, status string) error
	HistoryByPhone(ctx context.Context, phone string) ([]domain.Order, error)
}

type CustomerStore interface {
	ApplyPaidOrder(ctx context.Context, profileID int64, amount float64, at time.Time) error
	GetByPhone(ctx context.Context, phone string) (*domain.CustomerProfile, error)
}

type MenuStore interface {
	DecrementStock(ctx context.Context, menuItemID int64, quantity int) error
}

// Gateway abstracts the payment provider so tests can substitute a fake.
type Gateway interface {
	InitializeTransaction(ctx context.Context, req payment.InitializeRequest) (*payment.InitializeResponse, error)
}

type Service struct {
	orders    OrderStore
	customers CustomerStore
	gateway   Gateway
	bus       *events.Bus
	validate  *validatorv10.Validate
	log       logger.Logger

	secret      string
	frontendURL string
	paymentMode string

	now func() time.Time
}

func NewService(
	orders OrderStore,
	customers CustomerStore,
	gateway Gateway,
	bus *events.Bus,
	secret, frontendURL, paymentMode string,
	log logger.Logger,
) *Service {
	return &Service{
		orders:      orders,
		customers:   customers,
		gateway:     gateway,
		bus:         bus,
		validate:    newValidator(),
		log:         log,
		secret:      secret,
		frontendURL: frontendURL,
		paymentMode: paymentMode,
		now:         time.Now,
	}
}

type CreateOrderRequest struct {
	CustomerName         string             `json:"customerName" validate:"required,min=2,max=100"`
	Phone                string             `json:"phone" validate:"required,min=7,max=20"`
	DeliveryAddress      string             `json:"deliveryAddress" validate:"required,min=5,max=300"`
	DeliveryInstructions string             `json:"deliveryInstructions,omitempty" validate:"max=500"`
	Items                []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Total                float64            `json:"total" validate:"required,gt=0"`
}

type OrderItemRequest struct {
	MenuItemID   int64   `json:"menuItemId" validate:"required,gt=0"`
	MenuItemName string  `json:"menuItemName" validate:"required"`
	Quantity     int     `json:"quantity" validate:"required,gt=0"`
	Price        float64 `json:"price" validate:"gte=0"`
	Total        float64 `json:"total" validate:"gte=0"`
}

type CreateOrderResponse struct {
	OrderID           int64  `json:"orderId"`
	TrackingID        string `json:"trackingId"`
	PaystackAuthURL   string `json:"paystackAuthUrl"`
	PaystackReference string `json:"paystackReference"`
}

// Create persists a new order with its items and initializes payment. In
// stub mode no gateway call is made. The order and items land in one
// transaction; a gateway failure afterwards leaves the order persisted in
// pending_payment, which the customer-facing tracking page surfaces.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	if s.secret == "" {
		return nil, apperrors.Upstream("payment gateway secret is not configured")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "invalid order request", err)
	}

	now := s.now()
	trackingID := generateTrackingID(now)
	reference := s.generateReference(now)

	order := &domain.Order{
		TrackingID:       trackingID,
		CustomerName:     req.CustomerName,
		Phone:            req.Phone,
		DeliveryAddress:  req.DeliveryAddress,
		Total:            req.Total,
		PaymentStatus:    domain.PaymentPending,
		PaymentReference: reference,
		OrderStatus:      domain.OrderPendingPayment,
	}
	if req.DeliveryInstructions != "" {
		order.DeliveryInstructions = &req.DeliveryInstructions
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.OrderItem{
			MenuItemID:   it.MenuItemID,
			MenuItemName: it.MenuItemName,
			Quantity:     it.Quantity,
			Price:        it.Price,
			Total:        it.Total,
		})
	}

	orderID, _, err := s.orders.CreateWithProfile(ctx, order, items)
	if err != nil {
		s.log.Action("order_create_failed").Error("Failed to persist order", err, "tracking_id", trackingID)
		return nil, err
	}

	if s.paymentMode == config.PaymentModeStub {
		s.log.Action("order_created").Info("Order created in stub payment mode",
			"order_id", orderID, "tracking_id", trackingID)
		return &CreateOrderResponse{
			OrderID:           orderID,
			TrackingID:        trackingID,
			PaystackAuthURL:   StubAuthURL,
			PaystackReference: reference,
		}, nil
	}

	initResp, err := s.gateway.InitializeTransaction(ctx, payment.InitializeRequest{
		Email:       "customer@example.com",
		AmountMinor: int64(req.Total*100 + 0.5),
		Reference:   reference,
		CallbackURL: fmt.Sprintf("%s/track-order/%s", s.frontendURL, trackingID),
		Metadata: payment.Metadata{
			OrderID:      orderID,
			TrackingID:   trackingID,
			CustomerName: req.CustomerName,
			Phone:        req.Phone,
		},
	})
	if err != nil {
		s.log.Action("payment_init_failed").Error("Payment initialization failed", err,
			"order_id", orderID, "tracking_id", trackingID)
		return nil, err
	}

	s.log.Action("order_created").Info("Order created and payment initialized",
		"order_id", orderID, "tracking_id", trackingID)
	return &CreateOrderResponse{
		OrderID:           orderID,
		TrackingID:        trackingID,
		PaystackAuthURL:   initResp.AuthorizationURL,
		PaystackReference: initResp.Reference,
	}, nil
}

// Track returns an order with its items by tracking id.
func (s *Service) Track(ctx context.Context, trackingID string) (*domain.Order, error) {
	if trackingID == "" {
		return nil, apperrors.Validation("tracking id is required")
	}
	return s.orders.GetByTrackingID(ctx, trackingID)
}

// CustomerHistory is a customer's profile with their past orders, newest
// first. Profile is nil when the phone has never completed an order.
type CustomerHistory struct {
	Profile *domain.CustomerProfile `json:"profile,omitempty"`
	Orders  []domain.Order          `json:"orders"`
}

// History returns a customer's profile and past orders by phone.
func (s *Service) History(ctx context.Context, phone string) (*CustomerHistory, error) {
	if phone == "" {
		return nil, apperrors.Validation("phone is required")
	}

	orders, err := s.orders.HistoryByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	profile, err := s.customers.GetByPhone(ctx, phone)
	if err != nil && apperrors.KindOf(err) != apperrors.KindNotFound {
		return nil, err
	}
	return &CustomerHistory{Profile: profile, Orders: orders}, nil
}

const trackingAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func generateTrackingID(now time.Time) string {
	timestamp := strconv.FormatInt(now.UnixMilli(), 36)
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = trackingAlphabet[rand.Intn(len(trackingAlphabet))]
	}
	return strings.ToUpper("ORD-" + timestamp + "-" + string(suffix))
}

func (s *Service) generateReference(now time.Time) string {
	if s.paymentMode == config.PaymentModeStub {
		return fmt.Sprintf("stub_ref_%d", now.UnixMilli())
	}
	return fmt.Sprintf("ref-%d-%s", now.UnixMilli(), randomBase36(7))
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36Alphabet[rand.Intn(len(base36Alphabet))]
	}
	return string(b)
}
