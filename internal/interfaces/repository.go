package interfaces

import (
	"context"

	"github.com/YelzhanWeb/coffee-shop/internal/domain"
)

// Repository ports (adapter/postgres)
type MenuRepository interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	Create(ctx context.Context, item *domain.MenuItem) error
	Update(ctx context.Context, id int64, patch *domain.MenuItemPatch) (*domain.MenuItem, error)
	Delete(ctx context.Context, id int64) error
	ListLowStock(ctx context.Context, threshold int) ([]domain.MenuItem, error)
}

type OrderRepository interface {
	// Place validates, decrements stock and inserts the order in one
	// transaction. It returns the menu rows as they are after the commit.
	Place(ctx context.Context, order *domain.Order) ([]domain.MenuItem, error)
	List(ctx context.Context) ([]domain.Order, error)
}

// SchemaInitializer ensures tables exist and the menu is seeded.
type SchemaInitializer interface {
	Ensure(ctx context.Context) error
}
