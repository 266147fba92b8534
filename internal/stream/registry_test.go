package stream

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistryFanOut(t *testing.T) {
	r := NewRegistry[OrderStatusUpdate]()

	id1, ch1 := r.Subscribe("ORD-A")
	id2, ch2 := r.Subscribe("ORD-A")
	_, other := r.Subscribe("ORD-B")

	if id1 == id2 {
		t.Fatal("subscriber ids should be unique")
	}

	updates := []OrderStatusUpdate{
		{TrackingID: "ORD-A", OrderStatus: "received"},
		{TrackingID: "ORD-A", OrderStatus: "preparing"},
		{TrackingID: "ORD-A", OrderStatus: "out_for_delivery"},
	}
	for _, u := range updates {
		r.Publish("ORD-A", u)
	}

	for name, ch := range map[string]<-chan OrderStatusUpdate{"first": ch1, "second": ch2} {
		for i, want := range updates {
			got := <-ch
			if got.OrderStatus != want.OrderStatus {
				t.Errorf("%s subscriber update %d: got status %q, want %q", name, i, got.OrderStatus, want.OrderStatus)
			}
		}
	}

	select {
	case u := <-other:
		t.Errorf("subscriber of another key received %+v", u)
	default:
	}
}

func TestRegistryUnsubscribe(t *testing.T) {
	r := NewRegistry[OrderStatusUpdate]()

	id1, _ := r.Subscribe("ORD-A")
	_, ch2 := r.Subscribe("ORD-A")

	r.Unsubscribe("ORD-A", id1)
	if got := r.Len("ORD-A"); got != 1 {
		t.Fatalf("Len after unsubscribe = %d, want 1", got)
	}

	r.Publish("ORD-A", OrderStatusUpdate{OrderStatus: "received"})
	if got := <-ch2; got.OrderStatus != "received" {
		t.Errorf("remaining subscriber got %q, want %q", got.OrderStatus, "received")
	}
}

func TestRegistryDropsWedgedSubscriber(t *testing.T) {
	r := NewRegistry[OrderStatusUpdate]()
	r.buffer = 1

	// Never drained: the first publish fills its buffer, the second drops it.
	_, stuck := r.Subscribe("ORD-A")
	_, healthy := r.Subscribe("ORD-A")

	r.Publish("ORD-A", OrderStatusUpdate{OrderStatus: "received"})
	r.Publish("ORD-A", OrderStatusUpdate{OrderStatus: "preparing"})

	if got := r.Len("ORD-A"); got != 1 {
		t.Fatalf("Len after overflow = %d, want 1", got)
	}

	<-healthy
	<-healthy

	// The dropped subscriber's channel is closed so its reader terminates.
	<-stuck
	if _, open := <-stuck; open {
		t.Error("dropped subscriber channel still open")
	}
}

func TestRegistryKeyRemovedWhenEmpty(t *testing.T) {
	r := NewRegistry[KitchenOrderUpdate]()

	id, _ := r.Subscribe(KitchenKey)
	r.Unsubscribe(KitchenKey, id)

	r.mu.Lock()
	_, exists := r.subs[KitchenKey]
	r.mu.Unlock()
	if exists {
		t.Error("empty key left in registry")
	}
}

func TestRegistryConcurrentPublishSubscribe(t *testing.T) {
	r := NewRegistry[OrderStatusUpdate]()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("ORD-%d", i%2)
			id, ch := r.Subscribe(key)
			for j := 0; j < 50; j++ {
				r.Publish(key, OrderStatusUpdate{OrderStatus: "received"})
			}
			// Drain whatever arrived before leaving.
			for len(ch) > 0 {
				<-ch
			}
			r.Unsubscribe(key, id)
		}(i)
	}
	wg.Wait()
}
