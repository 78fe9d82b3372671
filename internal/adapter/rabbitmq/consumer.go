package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/coffee-shop/internal/adapter/logger"
	"github.com/YelzhanWeb/coffee-shop/internal/interfaces"
)

const reconnectDelay = 5 * time.Second

type consumer struct {
	conn   Connection
	logger logger.Logger
}

func NewConsumer(conn Connection, logger logger.Logger) interfaces.EventConsumer {
	return &consumer{conn: conn, logger: logger}
}

// ConsumeEvents delivers every shop event to handler until ctx is done,
// reconnecting after broker failures.
func (c *consumer) ConsumeEvents(ctx context.Context, handler interfaces.EventHandler) error {
	for {
		err := c.consumeOnce(ctx, handler)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			return nil
		}

		c.logger.Error("consumer_disconnected", fmt.Sprintf("Events consumer disconnected, reconnecting in %s", reconnectDelay), "", nil, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *consumer) consumeOnce(ctx context.Context, handler interfaces.EventHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := declareEventsExchange(ch); err != nil {
		return err
	}

	// Exclusive, auto-deleted queue: each subscriber sees every event.
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "#", EventsExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}
			// Auto-ack queue: handler errors are reported by the handler itself.
			_ = handler(ctx, msg.RoutingKey, msg.Body)
		}
	}
}
