package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoutingKeyOrderPlaced  = "order.placed"
	RoutingKeyInventoryLow = "inventory.low"
)

// RabbitMQ messages
type OrderPlacedMessage struct {
	OrderID      int64           `json:"order_id"`
	CustomerName string          `json:"customer_name"`
	Items        []int64         `json:"items"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"created_at"`
}

type InventoryLowMessage struct {
	ItemID    int64  `json:"item_id"`
	Name      string `json:"name"`
	Inventory int    `json:"inventory"`
	Threshold int    `json:"threshold"`
}

// Messaging ports (adapter/rabbitmq)
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, msg OrderPlacedMessage) error
	PublishInventoryLow(ctx context.Context, msg InventoryLowMessage) error
}

type EventConsumer interface {
	ConsumeEvents(ctx context.Context, handler EventHandler) error
}

type EventHandler func(ctx context.Context, routingKey string, body []byte) error

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(context.Context, OrderPlacedMessage) error   { return nil }
func (NoopPublisher) PublishInventoryLow(context.Context, InventoryLowMessage) error { return nil }
