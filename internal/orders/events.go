package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderItemAdded     = "OrderItemAdded"
	EventOrderItemRemoved   = "OrderItemRemoved"
	EventOrderCancelled     = "OrderCancelled"
	EventOrderDeleted       = "OrderDeleted"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type ItemSnapshot struct {
	ItemID     string `json:"item_id"`
	ProductID  string `json:"product_id"`
	PriceCents int    `json:"price_cents"`
	Qty        int    `json:"qty"`
}

type OrderCreatedPayload struct {
	OrderID    string         `json:"order_id"`
	UserID     string         `json:"user_id"`
	Items      []ItemSnapshot `json:"items"`
	TotalCents int            `json:"total_cents"`
}

type OrderItemAddedPayload struct {
	OrderID    string       `json:"order_id"`
	Item       ItemSnapshot `json:"item"`
	TotalCents int          `json:"total_cents"`
}

type OrderItemRemovedPayload struct {
	OrderID    string       `json:"order_id"`
	Item       ItemSnapshot `json:"item"`
	TotalCents int          `json:"total_cents"`
}

type OrderCancelledPayload struct {
	OrderID  string         `json:"order_id"`
	Released []ItemSnapshot `json:"released"`
}

type OrderDeletedPayload struct {
	OrderID  string         `json:"order_id"`
	Released []ItemSnapshot `json:"released,omitempty"` // empty when shipped
}

type OrderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	From    Status `json:"from"`
	To      Status `json:"to"`
}

func snapshots(items []LineItem) []ItemSnapshot {
	out := make([]ItemSnapshot, 0, len(items))
	for _, it := range items {
		out = append(out, ItemSnapshot{
			ItemID: it.ID, ProductID: it.ProductID,
			PriceCents: it.PriceCents, Qty: it.Qty,
		})
	}
	return out
}
