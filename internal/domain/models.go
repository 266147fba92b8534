// Package domain holds the data model shared by all services.
package domain

import "time"

type Order struct {
	ID                       int64       `json:"id"`
	TrackingID               string      `json:"trackingId"`
	CustomerName             string      `json:"customerName"`
	Phone                    string      `json:"phone"`
	DeliveryAddress          string      `json:"deliveryAddress"`
	DeliveryInstructions     *string     `json:"deliveryInstructions,omitempty"`
	Total                    float64     `json:"total"`
	PaymentStatus            string      `json:"paymentStatus"`
	PaymentReference         string      `json:"paymentReference"`
	OrderStatus              string      `json:"orderStatus"`
	KitchenStatus            string      `json:"kitchenStatus"`
	CustomerProfileID        *int64      `json:"customerProfileId,omitempty"`
	CreatedAt                time.Time   `json:"createdAt"`
	PreparationStartedAt     *time.Time  `json:"preparationStartedAt,omitempty"`
	PreparationCompletedAt   *time.Time  `json:"preparationCompletedAt,omitempty"`
	AssignedToDeliveryAt     *time.Time  `json:"assignedToDeliveryAt,omitempty"`
	DeliveredAt              *time.Time  `json:"deliveredAt,omitempty"`
	EstimatedDeliveryMinutes *int        `json:"estimatedDeliveryMinutes,omitempty"`
	Items                    []OrderItem `json:"items,omitempty"`
}

// OrderItem captures a menu item snapshot at order time; immutable after
// creation.
type OrderItem struct {
	ID           int64   `json:"id"`
	OrderID      int64   `json:"orderId"`
	MenuItemID   int64   `json:"menuItemId"`
	MenuItemName string  `json:"menuItemName"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	Total        float64 `json:"total"`
}

// CustomerProfile aggregates lifetime stats per phone number. Exactly one
// profile exists per phone.
type CustomerProfile struct {
	ID           int64      `json:"id"`
	Phone        string     `json:"phone"`
	CustomerName string     `json:"customerName"`
	TotalOrders  int        `json:"totalOrders"`
	TotalSpent   float64    `json:"totalSpent"`
	LastOrderAt  *time.Time `json:"lastOrderAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type MenuItem struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Price             float64 `json:"price"`
	ImageURL          string  `json:"imageUrl"`
	Available         bool    `json:"available"`
	StockQuantity     int     `json:"stockQuantity"`
	LowStockThreshold int     `json:"lowStockThreshold"`
	TrackInventory    bool    `json:"trackInventory"`
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
