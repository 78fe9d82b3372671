package interfaces

import (
	"context"

	"github.com/YelzhanWeb/coffee-shop/internal/domain"
	"github.com/shopspring/decimal"
)

// Service ports (business logic)
type MenuService interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	Create(ctx context.Context, cmd CreateMenuItemCommand) (*domain.MenuItem, error)
	Update(ctx context.Context, id int64, patch *domain.MenuItemPatch) (*domain.MenuItem, error)
	Delete(ctx context.Context, id int64) error
	LowStock(ctx context.Context, threshold int) ([]domain.MenuItem, error)
}

type OrderService interface {
	PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

type MaintenanceService interface {
	RunOnce(ctx context.Context) error
}

type CreateMenuItemCommand struct {
	Name      string
	Price     decimal.Decimal
	Inventory int
}

type PlaceOrderCommand struct {
	CustomerName string
	Items        []int64
}
