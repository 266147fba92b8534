package domain

// Payment status. The webhook handler is the sole authority for the
// pending -> completed transition.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Overall order status.
const (
	OrderPendingPayment = "pending_payment"
	OrderReceived       = "received"
	OrderPreparing      = "preparing"
	OrderOutForDelivery = "out_for_delivery"
	OrderDelivered      = "delivered"
	OrderCancelled      = "cancelled"
)

// Kitchen status, distinct from the overall order status.
const (
	KitchenPending   = "pending"
	KitchenPreparing = "preparing"
	KitchenReady     = "ready"
	KitchenCompleted = "completed"
)

// Staff roles.
const (
	RoleAdmin    = "admin"
	RoleKitchen  = "kitchen"
	RoleDelivery = "delivery"
	RoleCustomer = "customer"
)

func ValidKitchenStatus(s string) bool {
	switch s {
	case KitchenPending, KitchenPreparing, KitchenReady, KitchenCompleted:
		return true
	}
	return false
}

func ValidDeliveryStatus(s string) bool {
	return s == OrderOutForDelivery || s == OrderDelivered
}

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPendingPayment, OrderReceived, OrderPreparing,
		OrderOutForDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}
