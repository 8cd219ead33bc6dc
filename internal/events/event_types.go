package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderPlaced  EventType = "order_placed"
	EventOrderUpdated EventType = "order_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	OrderID   string      `json:"order_id"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderPlacedPayload payload.
type OrderPlacedPayload struct {
	ItemCount  int             `json:"item_count"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"status"`
}

// OrderUpdatedPayload payload. Fields lists the allow-listed columns that changed.
type OrderUpdatedPayload struct {
	Fields []string `json:"fields"`
	Status string   `json:"status"`
}
