package order

import (
	"context"

	"github.com/zertkwork/d2c-food-menu-app/internal/domain"
	"github.com/zertkwork/d2c-food-menu-app/internal/events"
	"github.com/zertkwork/d2c-food-menu-app/pkg/logger"
)

// Orchestrator reacts to lifecycle events: a confirmed order is routed to
// the kitchen and its stock reserved; a kitchen-ready signal moves the order
// along. Handlers run under the bus's isolation, so a failure here never
// fails the request that published the event.
type Orchestrator struct {
	orders OrderStore
	menu   MenuStore
	log    logger.Logger
}

func NewOrchestrator(orders OrderStore, menu MenuStore, log logger.Logger) *Orchestrator {
	return &Orchestrator{orders: orders, menu: menu, log: log}
}

func (o *Orchestrator) Register(bus *events.Bus) {
	bus.SubscribeOrderCreated(o.routeToKitchen)
	bus.SubscribeKitchenStatusChanged(o.handleKitchenReady)
}

// routeToKitchen reserves inventory for every tracked line item (floored at
// zero) and puts the order on the kitchen board.
func (o *Orchestrator) routeToKitchen(ctx context.Context, evt events.OrderCreated) error {
	items, err := o.orders.ItemsByOrderID(ctx, evt.OrderID)
	if err != nil {
		return err
	}
	for _, it := range items {
		if err := o.menu.DecrementStock(ctx, it.MenuItemID, it.Quantity); err != nil {
			return err
		}
	}

	if err := o.orders.RouteToKitchen(ctx, evt.OrderID); err != nil {
		return err
	}

	o.log.Action("order_routed").Info("Order routed to kitchen", "tracking_id", evt.TrackingID)
	return nil
}

func (o *Orchestrator) handleKitchenReady(ctx context.Context, evt events.KitchenStatusChanged) error {
	if evt.KitchenStatus != domain.KitchenReady {
		return nil
	}

	// TODO: confirm with product whether "ready" should advance the order
	// toward a delivery-ready status; upstream keeps it at preparing and
	// that behavior is preserved here.
	if err := o.orders.SetOrderStatus(ctx, evt.OrderID, domain.OrderPreparing); err != nil {
		return err
	}

	o.log.Action("order_ready").Info("Order ready for delivery", "tracking_id", evt.TrackingID)
	return nil
}
