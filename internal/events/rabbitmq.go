package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/zertkwork/d2c-food-menu-app/pkg/logger"
)

const eventsExchange = "orders_topic"

// envelope wraps an event for broker transit. Source identifies the
// publishing instance so a consumer can skip its own messages.
type envelope struct {
	Source  string          `json:"source"`
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

// Bridge mirrors local bus events through a RabbitMQ topic exchange and
// injects events published by other instances into the local bus. With the
// bridge installed, every instance's fan-out registries see every event.
type Bridge struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	queueName  string
	instanceID string
	bus        *Bus
	log        logger.Logger
}

// ConnectBridge dials the broker, declares the topology and wires the bus
// forwarder. Call Run to start consuming.
func ConnectBridge(url, instanceID string, bus *Bus, log logger.Logger) (*Bridge, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = channel.ExchangeDeclare(
		eventsExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Exclusive auto-delete queue per instance; each instance receives
	// every event and filters out its own.
	queue, err := channel.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := channel.QueueBind(queue.Name, "events.*", eventsExchange, false, nil); err != nil {
		conn.Close()
		return nil, err
	}

	b := &Bridge{
		conn:       conn,
		channel:    channel,
		queueName:  queue.Name,
		instanceID: instanceID,
		bus:        bus,
		log:        log,
	}
	bus.SetForwarder(b.publish)

	log.Action("broker_connected").Info("Connected to RabbitMQ event bridge", "queue", queue.Name)
	return b, nil
}

func (b *Bridge) publish(ctx context.Context, topic string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.log.Action("broker_marshal_failed").Error("Failed to marshal event", err, "topic", topic)
		return
	}

	body, err := json.Marshal(envelope{Source: b.instanceID, Topic: topic, Payload: payload})
	if err != nil {
		b.log.Action("broker_marshal_failed").Error("Failed to marshal envelope", err, "topic", topic)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = b.channel.PublishWithContext(pubCtx,
		eventsExchange, // exchange
		topic,          // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
	if err != nil {
		b.log.Action("broker_publish_failed").Error("Failed to publish event", err, "topic", topic)
	}
}

// Run consumes mirrored events until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	deliveries, err := b.channel.Consume(b.queueName, "", true, true, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			b.handleDelivery(ctx, d.Body)
		}
	}
}

func (b *Bridge) handleDelivery(ctx context.Context, body []byte) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		b.log.Action("broker_decode_failed").Error("Failed to decode envelope", err)
		return
	}
	if env.Source == b.instanceID {
		return
	}

	switch env.Topic {
	case TopicOrderCreated:
		var evt OrderCreated
		if err := json.Unmarshal(env.Payload, &evt); err != nil {
			b.log.Action("broker_decode_failed").Error("Failed to decode event", err, "topic", env.Topic)
			return
		}
		b.bus.dispatchOrderCreated(ctx, evt)
	case TopicKitchenStatusChanged:
		var evt KitchenStatusChanged
		if err := json.Unmarshal(env.Payload, &evt); err != nil {
			b.log.Action("broker_decode_failed").Error("Failed to decode event", err, "topic", env.Topic)
			return
		}
		b.bus.dispatchKitchenStatusChanged(ctx, evt)
	case TopicDeliveryStatusChanged:
		var evt DeliveryStatusChanged
		if err := json.Unmarshal(env.Payload, &evt); err != nil {
			b.log.Action("broker_decode_failed").Error("Failed to decode event", err, "topic", env.Topic)
			return
		}
		b.bus.dispatchDeliveryStatusChanged(ctx, evt)
	default:
		b.log.Action("broker_unknown_topic").Warn("Ignoring unknown topic", "topic", env.Topic)
	}
}

func (b *Bridge) Close() error {
	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
