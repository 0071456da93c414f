package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys of the domain events.
const (
	OrderPlaced      = "order.placed"
	OrderReplaced    = "order.replaced"
	OrderStatus      = "order.status_changed"
	CheckSplit       = "check.split"
	CheckClosed      = "check.closed"
	CheckPaid        = "check.paid"
	InventoryUpdated = "inventory.updated"
	InventoryLow     = "inventory.low_stock"
)

// Event is the envelope published for every committed mutation.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// New builds an event envelope for payload.
func New(eventType string, payload any) Event {
	return Event{ID: uuid.New(), Type: eventType, OccurredAt: time.Now().UTC(), Payload: payload}
}

// Publisher delivers events after their transaction has committed.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error { return nil }

// AMQPPublisher publishes JSON events to a topic exchange and waits for the
// broker's publisher confirm.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// DialAMQP connects to url and declares a durable topic exchange.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Ping reports whether the broker connection is still open.
func (p *AMQPPublisher) Ping() error {
	if p.conn == nil || p.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := Encode(event)
	if err != nil {
		return err
	}

	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, event.Type, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    event.ID.String(),
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return fmt.Errorf("publish %s: nack from broker", event.Type)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Encode renders the wire form of an event.
func Encode(event Event) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	return body, nil
}
