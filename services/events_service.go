package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/chiyadani/chiyadani-api/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

const ordersExchange = "orders_topic"

// OrderEvents is the notification sink for committed orders. Staff-facing
// consumers (counter and kitchen displays) subscribe to these events.
type OrderEvents interface {
	OrderCreated(order *models.Order) error
	OrderStatusChanged(order *models.Order, previous models.OrderStatus) error
}

// orderCreatedEvent is the wire payload for order.created
type orderCreatedEvent struct {
	Number        string             `json:"number"`
	TableNumber   int                `json:"table_number"`
	CustomerPhone string             `json:"customer_phone"`
	Items         []models.OrderItem `json:"items"`
	Total         int                `json:"total"`
	Notes         *string            `json:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// orderStatusEvent is the wire payload for order.status_changed
type orderStatusEvent struct {
	Number    string    `json:"number"`
	Table     int       `json:"table_number"`
	Previous  string    `json:"previous_status"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

// AMQPOrderEvents publishes order events to a RabbitMQ topic exchange
type AMQPOrderEvents struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPOrderEvents connects to the broker and declares the orders exchange
func NewAMQPOrderEvents(url string) (*AMQPOrderEvents, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(ordersExchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &AMQPOrderEvents{conn: conn, ch: ch}, nil
}

// Close shuts down the channel and connection
func (e *AMQPOrderEvents) Close() {
	if e == nil {
		return
	}
	if e.ch != nil {
		_ = e.ch.Close()
	}
	if e.conn != nil {
		_ = e.conn.Close()
	}
}

func (e *AMQPOrderEvents) publish(routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return e.ch.PublishWithContext(context.Background(), ordersExchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Body:         body,
	})
}

// OrderCreated publishes an order.created event
func (e *AMQPOrderEvents) OrderCreated(order *models.Order) error {
	return e.publish("order.created", orderCreatedEvent{
		Number:        order.Number,
		TableNumber:   order.TableNumber,
		CustomerPhone: order.CustomerPhone,
		Items:         order.Items,
		Total:         order.Total,
		Notes:         order.Notes,
		CreatedAt:     order.CreatedAt,
	})
}

// OrderStatusChanged publishes an order.status_changed event
func (e *AMQPOrderEvents) OrderStatusChanged(order *models.Order, previous models.OrderStatus) error {
	return e.publish("order.status_changed", orderStatusEvent{
		Number:    order.Number,
		Table:     order.TableNumber,
		Previous:  string(previous),
		Status:    order.Status,
		ChangedAt: order.UpdatedAt,
	})
}

// NoopOrderEvents discards all events. Used when no broker is configured.
type NoopOrderEvents struct{}

// OrderCreated discards the event
func (NoopOrderEvents) OrderCreated(*models.Order) error { return nil }

// OrderStatusChanged discards the event
func (NoopOrderEvents) OrderStatusChanged(*models.Order, models.OrderStatus) error { return nil }

var orderEventsInstance OrderEvents = NoopOrderEvents{}

// InitOrderEvents wires the order event sink. An empty URL disables
// publishing rather than failing startup.
func InitOrderEvents(url string) (OrderEvents, error) {
	if url == "" {
		log.Println("AMQP_URL not set, order events disabled")
		orderEventsInstance = NoopOrderEvents{}
		return orderEventsInstance, nil
	}
	events, err := NewAMQPOrderEvents(url)
	if err != nil {
		return nil, err
	}
	orderEventsInstance = events
	return events, nil
}

// GetOrderEvents returns the initialized order event sink
func GetOrderEvents() OrderEvents {
	return orderEventsInstance
}

// SetOrderEvents sets the order event sink (primarily for testing)
func SetOrderEvents(e OrderEvents) {
	orderEventsInstance = e
}
