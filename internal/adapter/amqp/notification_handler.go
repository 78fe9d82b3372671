package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/YelzhanWeb/coffee-shop/internal/adapter/logger"
	"github.com/YelzhanWeb/coffee-shop/internal/domain"
	"github.com/YelzhanWeb/coffee-shop/internal/interfaces"
)

// NotificationHandler prints shop events for the barista display.
type NotificationHandler struct {
	logger logger.Logger
	out    io.Writer
}

func NewNotificationHandler(logger logger.Logger, out io.Writer) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
		out:    out,
	}
}

func (h *NotificationHandler) HandleEvent(ctx context.Context, routingKey string, body []byte) error {
	switch routingKey {
	case interfaces.RoutingKeyOrderPlaced:
		var msg interfaces.OrderPlacedMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			h.logger.Error("message_parse_failed", "Failed to parse order event", "", nil, err)
			return err
		}
		h.logger.Debug("notification_received", fmt.Sprintf("Order %d received", msg.OrderID), "", map[string]interface{}{
			"order_id": msg.OrderID,
		})
		fmt.Fprintf(h.out, "New order #%d for %s: items %s, total %s\n",
			msg.OrderID, msg.CustomerName, domain.EncodeItems(msg.Items), msg.Total.StringFixed(domain.PriceScale))

	case interfaces.RoutingKeyInventoryLow:
		var msg interfaces.InventoryLowMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			h.logger.Error("message_parse_failed", "Failed to parse inventory event", "", nil, err)
			return err
		}
		h.logger.Debug("notification_received", fmt.Sprintf("Low stock for item %d", msg.ItemID), "", map[string]interface{}{
			"item_id": msg.ItemID,
		})
		fmt.Fprintf(h.out, "Low stock: %s (id %d) has %d left\n", msg.Name, msg.ItemID, msg.Inventory)

	default:
		h.logger.Debug("notification_ignored", "Unknown routing key", "", map[string]interface{}{
			"routing_key": routingKey,
		})
	}
	return nil
}
