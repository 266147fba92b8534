package order

import (
	"context"
	"encoding/json"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
	"github.com/zertkwork/d2c-food-menu-app/internal/events"
	"github.com/zertkwork/d2c-food-menu-app/internal/payment"
)

const (
	webhookEventChargeSuccess = "charge.success"
	webhookStatusSuccess      = "success"
)

type WebhookRequest struct {
	Event string      `json:"event"`
	Data  WebhookData `json:"data"`
}

type WebhookData struct {
	Reference string            `json:"reference"`
	Status    string            `json:"status"`
	Amount    int64             `json:"amount"`
	PaidAt    *string           `json:"paid_at,omitempty"`
	Metadata  *payment.Metadata `json:"metadata,omitempty"`
}

type WebhookAck struct {
	Received bool `json:"received"`
}

// HandleWebhook processes a payment-provider callback. The signature covers
// the raw request body; a mismatch rejects before any state is touched.
// After verification the gateway contract expects an acknowledgment no
// matter the internal outcome, so parse and persistence failures past that
// point are logged rather than surfaced; a retry storm from the gateway
// would not help them.
//
// The paid transition is an atomic conditional update: a redelivered
// charge.success for an already-completed order matches no row, so customer
// lifetime stats move exactly once per order.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) (*WebhookAck, error) {
	if s.secret == "" {
		return nil, apperrors.Upstream("payment gateway secret is not configured")
	}
	if !payment.VerifySignature(s.secret, body, signature) {
		s.log.Action("webhook_verify_failed").Warn("Webhook signature mismatch")
		return nil, apperrors.Signature("invalid webhook signature")
	}

	var req WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.log.Action("webhook_parse_failed").Error("Malformed webhook payload", err)
		return &WebhookAck{Received: true}, nil
	}

	if req.Event != webhookEventChargeSuccess || req.Data.Status != webhookStatusSuccess {
		s.log.Action("webhook_ignored").Debug("Ignoring webhook event",
			"event", req.Event, "status", req.Data.Status)
		return &WebhookAck{Received: true}, nil
	}

	order, transitioned, err := s.orders.MarkPaid(ctx, req.Data.Reference)
	if err != nil {
		s.log.Action("webhook_update_failed").Error("Failed to mark order paid", err,
			"reference", req.Data.Reference)
		return &WebhookAck{Received: true}, nil
	}
	if !transitioned {
		// Unknown reference or replayed delivery.
		s.log.Action("webhook_noop").Debug("No pending order for reference",
			"reference", req.Data.Reference)
		return &WebhookAck{Received: true}, nil
	}

	now := s.now()
	if order.CustomerProfileID != nil {
		if err := s.customers.ApplyPaidOrder(ctx, *order.CustomerProfileID, order.Total, now); err != nil {
			s.log.Action("profile_update_failed").Error("Failed to update customer profile", err,
				"order_id", order.ID)
		}
	}

	items, err := s.orders.ItemsByOrderID(ctx, order.ID)
	if err != nil {
		s.log.Action("webhook_items_failed").Error("Failed to load order items", err,
			"order_id", order.ID)
	}
	summaries := make([]events.ItemSummary, 0, len(items))
	for _, it := range items {
		summaries = append(summaries, events.ItemSummary{
			MenuItemName: it.MenuItemName,
			Quantity:     it.Quantity,
			Price:        it.Price,
		})
	}

	s.bus.PublishOrderCreated(ctx, events.OrderCreated{
		OrderID:         order.ID,
		TrackingID:      order.TrackingID,
		Status:          order.OrderStatus,
		CustomerName:    order.CustomerName,
		Phone:           order.Phone,
		DeliveryAddress: order.DeliveryAddress,
		Total:           order.Total,
		Items:           summaries,
		Timestamp:       now,
	})

	s.log.Action("payment_confirmed").Info("Order payment confirmed",
		"order_id", order.ID, "tracking_id", order.TrackingID)
	return &WebhookAck{Received: true}, nil
}
