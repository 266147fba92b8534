package stream

import "time"

// OrderStatusUpdate is pushed to customers watching a tracking page.
type OrderStatusUpdate struct {
	TrackingID               string    `json:"trackingId"`
	OrderStatus              string    `json:"orderStatus"`
	KitchenStatus            string    `json:"kitchenStatus,omitempty"`
	EstimatedDeliveryMinutes *int      `json:"estimatedDeliveryMinutes,omitempty"`
	Timestamp                time.Time `json:"timestamp"`
}

// KitchenOrderUpdate is pushed to kitchen displays.
type KitchenOrderUpdate struct {
	Type                     string        `json:"type"` // "new_order" or "status_change"
	OrderID                  int64         `json:"orderId"`
	TrackingID               string        `json:"trackingId"`
	CustomerName             string        `json:"customerName"`
	Items                    []KitchenItem `json:"items,omitempty"`
	KitchenStatus            string        `json:"kitchenStatus"`
	OrderStatus              string        `json:"orderStatus"`
	CreatedAt                time.Time     `json:"createdAt"`
	EstimatedDeliveryMinutes int           `json:"estimatedDeliveryMinutes"`
}

type KitchenItem struct {
	MenuItemName string `json:"menuItemName"`
	Quantity     int    `json:"quantity"`
}

const (
	UpdateTypeNewOrder     = "new_order"
	UpdateTypeStatusChange = "status_change"
)

// DefaultEstimatedMinutes is the delivery estimate attached to a fresh order
// before dispatch sets a real one.
const DefaultEstimatedMinutes = 45
