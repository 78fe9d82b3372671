package menu

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/coffee-shop/internal/adapter/logger"
	"github.com/YelzhanWeb/coffee-shop/internal/domain"
	"github.com/YelzhanWeb/coffee-shop/internal/interfaces"
)

type Service struct {
	repo   interfaces.MenuRepository
	logger logger.Logger
}

func NewService(repo interfaces.MenuRepository, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, cmd interfaces.CreateMenuItemCommand) (*domain.MenuItem, error) {
	item, err := domain.NewMenuItem(cmd.Name, cmd.Price, cmd.Inventory)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	s.logger.Info("menu_item_created", fmt.Sprintf("Menu item %s created", item.Name), logger.RequestID(ctx), map[string]interface{}{
		"id":        item.ID,
		"price":     item.Price.StringFixed(domain.PriceScale),
		"inventory": item.Inventory,
	})
	return item, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch *domain.MenuItemPatch) (*domain.MenuItem, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	item, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(patch.Fields()))
	for _, f := range patch.Fields() {
		fields = append(fields, string(f))
	}
	s.logger.Info("menu_item_updated", fmt.Sprintf("Menu item %d updated", id), logger.RequestID(ctx), map[string]interface{}{
		"fields": fields,
	})
	return item, nil
}

// Delete removes the item. Past orders keep referencing its id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("menu_item_deleted", fmt.Sprintf("Menu item %d deleted", id), logger.RequestID(ctx), nil)
	return nil
}

// LowStock lists items whose inventory is at or below threshold.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]domain.MenuItem, error) {
	return s.repo.ListLowStock(ctx, threshold)
}
