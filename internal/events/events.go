// Package events carries the in-process event bus. Events are transient:
// they exist only for the lifetime of a publish and are lost on restart.
package events

import "time"

// OrderCreated is published once an order's payment is confirmed.
type OrderCreated struct {
	OrderID         int64         `json:"orderId"`
	TrackingID      string        `json:"trackingId"`
	Status          string        `json:"status"`
	CustomerName    string        `json:"customerName"`
	Phone           string        `json:"phone"`
	DeliveryAddress string        `json:"deliveryAddress"`
	Total           float64       `json:"total"`
	Items           []ItemSummary `json:"items"`
	Timestamp       time.Time     `json:"timestamp"`
}

type ItemSummary struct {
	MenuItemName string  `json:"menuItemName"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
}

type KitchenStatusChanged struct {
	OrderID       int64     `json:"orderId"`
	TrackingID    string    `json:"trackingId"`
	KitchenStatus string    `json:"kitchenStatus"`
	Timestamp     time.Time `json:"timestamp"`
}

type DeliveryStatusChanged struct {
	OrderID                  int64     `json:"orderId"`
	TrackingID               string    `json:"trackingId"`
	DeliveryStatus           string    `json:"deliveryStatus"`
	EstimatedDeliveryMinutes *int      `json:"estimatedDeliveryMinutes,omitempty"`
	Timestamp                time.Time `json:"timestamp"`
}

// Routing keys used when events cross the broker bridge.
const (
	TopicOrderCreated          = "events.order_created"
	TopicKitchenStatusChanged  = "events.kitchen_status_changed"
	TopicDeliveryStatusChanged = "events.delivery_status_changed"
)
