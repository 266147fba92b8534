package stream

import (
	"context"

	"github.com/zertkwork/d2c-food-menu-app/internal/domain"
	"github.com/zertkwork/d2c-food-menu-app/internal/events"
	"github.com/zertkwork/d2c-food-menu-app/pkg/logger"
)

// OrderLookup is the slice of order storage the notifier needs when a
// status-change event does not carry the full order row.
type OrderLookup interface {
	GetByID(ctx context.Context, orderID int64) (*domain.Order, error)
}

// Notifier subscribes to bus events and republishes them as live updates to
// both registries.
type Notifier struct {
	tracking *Registry[OrderStatusUpdate]
	kitchen  *Registry[KitchenOrderUpdate]
	orders   OrderLookup
	log      logger.Logger
}

func NewNotifier(
	tracking *Registry[OrderStatusUpdate],
	kitchen *Registry[KitchenOrderUpdate],
	orders OrderLookup,
	log logger.Logger,
) *Notifier {
	return &Notifier{tracking: tracking, kitchen: kitchen, orders: orders, log: log}
}

// Register wires the notifier into the bus.
func (n *Notifier) Register(bus *events.Bus) {
	bus.SubscribeOrderCreated(n.onOrderCreated)
	bus.SubscribeKitchenStatusChanged(n.onKitchenStatusChanged)
	bus.SubscribeDeliveryStatusChanged(n.onDeliveryStatusChanged)
}

func (n *Notifier) onOrderCreated(ctx context.Context, evt events.OrderCreated) error {
	n.tracking.Publish(evt.TrackingID, OrderStatusUpdate{
		TrackingID:  evt.TrackingID,
		OrderStatus: evt.Status,
		Timestamp:   evt.Timestamp,
	})

	items := make([]KitchenItem, 0, len(evt.Items))
	for _, it := range evt.Items {
		items = append(items, KitchenItem{MenuItemName: it.MenuItemName, Quantity: it.Quantity})
	}
	n.kitchen.Publish(KitchenKey, KitchenOrderUpdate{
		Type:                     UpdateTypeNewOrder,
		OrderID:                  evt.OrderID,
		TrackingID:               evt.TrackingID,
		CustomerName:             evt.CustomerName,
		Items:                    items,
		KitchenStatus:            domain.KitchenPending,
		OrderStatus:              evt.Status,
		CreatedAt:                evt.Timestamp,
		EstimatedDeliveryMinutes: DefaultEstimatedMinutes,
	})
	return nil
}

func (n *Notifier) onKitchenStatusChanged(ctx context.Context, evt events.KitchenStatusChanged) error {
	n.tracking.Publish(evt.TrackingID, OrderStatusUpdate{
		TrackingID:    evt.TrackingID,
		OrderStatus:   domain.OrderPreparing,
		KitchenStatus: evt.KitchenStatus,
		Timestamp:     evt.Timestamp,
	})

	order, err := n.orders.GetByID(ctx, evt.OrderID)
	if err != nil {
		return err
	}

	estimated := DefaultEstimatedMinutes
	if order.EstimatedDeliveryMinutes != nil {
		estimated = *order.EstimatedDeliveryMinutes
	}
	n.kitchen.Publish(KitchenKey, KitchenOrderUpdate{
		Type:                     UpdateTypeStatusChange,
		OrderID:                  evt.OrderID,
		TrackingID:               evt.TrackingID,
		CustomerName:             order.CustomerName,
		KitchenStatus:            evt.KitchenStatus,
		OrderStatus:              order.OrderStatus,
		CreatedAt:                order.CreatedAt,
		EstimatedDeliveryMinutes: estimated,
	})
	return nil
}

func (n *Notifier) onDeliveryStatusChanged(ctx context.Context, evt events.DeliveryStatusChanged) error {
	n.tracking.Publish(evt.TrackingID, OrderStatusUpdate{
		TrackingID:               evt.TrackingID,
		OrderStatus:              evt.DeliveryStatus,
		EstimatedDeliveryMinutes: evt.EstimatedDeliveryMinutes,
		Timestamp:                evt.Timestamp,
	})
	return nil
}
