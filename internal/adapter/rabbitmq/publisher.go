package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/YelzhanWeb/coffee-shop/internal/interfaces"
	amqp "github.com/rabbitmq/amqp091-go"
)

type publisher struct {
	conn Connection
}

func NewPublisher(conn Connection) interfaces.EventPublisher {
	return &publisher{conn: conn}
}

func (p *publisher) PublishOrderPlaced(ctx context.Context, msg interfaces.OrderPlacedMessage) error {
	return p.publish(ctx, interfaces.RoutingKeyOrderPlaced, msg, amqp.Persistent)
}

func (p *publisher) PublishInventoryLow(ctx context.Context, msg interfaces.InventoryLowMessage) error {
	return p.publish(ctx, interfaces.RoutingKeyInventoryLow, msg, amqp.Transient)
}

func (p *publisher) publish(ctx context.Context, routingKey string, msg any, mode uint8) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := declareEventsExchange(ch); err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, EventsExchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: mode,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	return nil
}
