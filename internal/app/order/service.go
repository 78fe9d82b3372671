package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/YelzhanWeb/coffee-shop/internal/adapter/logger"
	"github.com/YelzhanWeb/coffee-shop/internal/domain"
	"github.com/YelzhanWeb/coffee-shop/internal/interfaces"
)

type Service struct {
	repo           interfaces.OrderRepository
	publisher      interfaces.EventPublisher
	logger         logger.Logger
	alertThreshold int
}

func NewService(repo interfaces.OrderRepository, publisher interfaces.EventPublisher, logger logger.Logger, alertThreshold int) *Service {
	if publisher == nil {
		publisher = interfaces.NoopPublisher{}
	}
	return &Service{
		repo:           repo,
		publisher:      publisher,
		logger:         logger,
		alertThreshold: alertThreshold,
	}
}

func (s *Service) PlaceOrder(ctx context.Context, cmd interfaces.PlaceOrderCommand) (*domain.Order, error) {
	requestID := logger.RequestID(ctx)
	order := domain.NewOrder(cmd.CustomerName, cmd.Items)

	// Validation, stock decrement and insert happen in one transaction.
	remaining, err := s.repo.Place(ctx, order)
	if err != nil {
		var inv *domain.InsufficientInventoryError
		if errors.As(err, &inv) {
			s.logger.Info("order_rejected", "Order rejected for insufficient inventory", requestID, map[string]interface{}{
				"details": inv.Details,
			})
			return nil, err
		}
		if errors.Is(err, domain.ErrValidation) {
			s.logger.Info("order_rejected", err.Error(), requestID, nil)
			return nil, err
		}
		s.logger.Error("db_transaction_failed", "Failed to place order", requestID, nil, err)
		return nil, err
	}

	s.logger.Info("order_placed", fmt.Sprintf("Order %d placed", order.ID), requestID, map[string]interface{}{
		"order_id": order.ID,
		"items":    len(order.Items),
		"total":    order.Total.StringFixed(domain.PriceScale),
	})

	s.publish(ctx, order, remaining)
	return order, nil
}

// publish sends events after the commit. Failures are logged only, the
// order is already recorded.
func (s *Service) publish(ctx context.Context, order *domain.Order, remaining []domain.MenuItem) {
	requestID := logger.RequestID(ctx)

	msg := interfaces.OrderPlacedMessage{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Items:        order.Items,
		Total:        order.Total,
		CreatedAt:    order.CreatedAt,
	}
	if err := s.publisher.PublishOrderPlaced(ctx, msg); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish order event", requestID, map[string]interface{}{
			"order_id": order.ID,
		}, err)
	}

	for _, item := range remaining {
		if !item.LowStock(s.alertThreshold) {
			continue
		}
		s.logger.Warn("inventory_low", fmt.Sprintf("%s is running low", item.Name), requestID, map[string]interface{}{
			"item_id":   item.ID,
			"inventory": item.Inventory,
		})
		alert := interfaces.InventoryLowMessage{
			ItemID:    item.ID,
			Name:      item.Name,
			Inventory: item.Inventory,
			Threshold: s.alertThreshold,
		}
		if err := s.publisher.PublishInventoryLow(ctx, alert); err != nil {
			s.logger.Error("rabbitmq_publish_failed", "Failed to publish inventory alert", requestID, map[string]interface{}{
				"item_id": item.ID,
			}, err)
		}
	}
}

func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}
