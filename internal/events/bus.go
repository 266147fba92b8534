package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/zertkwork/d2c-food-menu-app/pkg/logger"
)

// Forwarder mirrors a published event beyond the local process. Set by the
// broker bridge; nil in single-instance deployments.
type Forwarder func(ctx context.Context, topic string, event any)

// Bus is a same-process publish/subscribe hub. Handlers run inline with the
// publish but are isolated: a handler error or panic is logged and never
// propagates to the publishing caller.
type Bus struct {
	mu  sync.RWMutex
	log logger.Logger

	orderCreated   []func(ctx context.Context, evt OrderCreated) error
	kitchenStatus  []func(ctx context.Context, evt KitchenStatusChanged) error
	deliveryStatus []func(ctx context.Context, evt DeliveryStatusChanged) error
	forward        Forwarder
}

func NewBus(log logger.Logger) *Bus {
	return &Bus{log: log}
}

// SetForwarder installs the cross-instance mirror. Must be called before the
// bus starts receiving traffic.
func (b *Bus) SetForwarder(f Forwarder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forward = f
}

func (b *Bus) SubscribeOrderCreated(fn func(ctx context.Context, evt OrderCreated) error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orderCreated = append(b.orderCreated, fn)
}

func (b *Bus) SubscribeKitchenStatusChanged(fn func(ctx context.Context, evt KitchenStatusChanged) error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.kitchenStatus = append(b.kitchenStatus, fn)
}

func (b *Bus) SubscribeDeliveryStatusChanged(fn func(ctx context.Context, evt DeliveryStatusChanged) error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deliveryStatus = append(b.deliveryStatus, fn)
}

func (b *Bus) PublishOrderCreated(ctx context.Context, evt OrderCreated) {
	b.dispatchOrderCreated(ctx, evt)
	if f := b.forwarder(); f != nil {
		f(ctx, TopicOrderCreated, evt)
	}
}

func (b *Bus) PublishKitchenStatusChanged(ctx context.Context, evt KitchenStatusChanged) {
	b.dispatchKitchenStatusChanged(ctx, evt)
	if f := b.forwarder(); f != nil {
		f(ctx, TopicKitchenStatusChanged, evt)
	}
}

func (b *Bus) PublishDeliveryStatusChanged(ctx context.Context, evt DeliveryStatusChanged) {
	b.dispatchDeliveryStatusChanged(ctx, evt)
	if f := b.forwarder(); f != nil {
		f(ctx, TopicDeliveryStatusChanged, evt)
	}
}

// dispatch* run local handlers only. The broker bridge calls these when it
// injects events consumed from other instances, so they are never mirrored
// back out.
func (b *Bus) dispatchOrderCreated(ctx context.Context, evt OrderCreated) {
	for _, fn := range snapshot(&b.mu, &b.orderCreated) {
		b.invoke(ctx, "order_created", func() error { return fn(ctx, evt) })
	}
}

func (b *Bus) dispatchKitchenStatusChanged(ctx context.Context, evt KitchenStatusChanged) {
	for _, fn := range snapshot(&b.mu, &b.kitchenStatus) {
		b.invoke(ctx, "kitchen_status_changed", func() error { return fn(ctx, evt) })
	}
}

func (b *Bus) dispatchDeliveryStatusChanged(ctx context.Context, evt DeliveryStatusChanged) {
	for _, fn := range snapshot(&b.mu, &b.deliveryStatus) {
		b.invoke(ctx, "delivery_status_changed", func() error { return fn(ctx, evt) })
	}
}

func (b *Bus) forwarder() Forwarder {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.forward
}

// invoke shields the publisher from a failing subscriber.
func (b *Bus) invoke(ctx context.Context, topic string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Action("event_handler_panicked").Error("Event handler panicked",
				fmt.Errorf("%v", r), "topic", topic)
		}
	}()
	if err := fn(); err != nil {
		b.log.Action("event_handler_failed").Error("Event handler failed", err, "topic", topic)
	}
}

func snapshot[T any](mu *sync.RWMutex, s *[]T) []T {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]T, len(*s))
	copy(out, *s)
	return out
}
