package models

import "time"

// OrderEvent is published to Kafka (and best-effort to SNS) when an order
// changes state.
type OrderEvent struct {
	EventType   string    `json:"event_type"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      string    `json:"user_id"`
	Total       int64     `json:"total"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// Order event types.
const (
	EventOrderCreated   = "order_created"
	EventOrderPaid      = "order_paid"
	EventOrderCanceled  = "order_canceled"
	EventOrderFailed    = "order_failed"
	EventOrderShipped   = "order_shipped"
	EventOrderCompleted = "order_completed"
)
