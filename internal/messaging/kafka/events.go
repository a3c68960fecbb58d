package kafka

import "time"

// EventType names an order lifecycle event on the wire.
type EventType string

const (
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
	EventTypeCheckoutFailed     EventType = "checkout.failed"
)

// Kafka topics.
const (
	TopicOrderEvents = "storefront.order.events"
)

// OrderEvent is the message body published for order lifecycle events.
type OrderEvent struct {
	EventType EventType              `json:"event_type"`
	OrderID   string                 `json:"order_id"`
	UserID    string                 `json:"user_id"`
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewOrderEvent builds an order event stamped with the current time.
func NewOrderEvent(eventType EventType, orderID, userID, status string, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType: eventType,
		OrderID:   orderID,
		UserID:    userID,
		Status:    status,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}
