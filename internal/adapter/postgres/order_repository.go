package postgres

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/coffee-shop/internal/domain"
	"github.com/YelzhanWeb/coffee-shop/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Place(ctx context.Context, order *domain.Order) ([]domain.MenuItem, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, storageError("begin order transaction", err)
	}
	defer tx.Rollback(ctx)

	var remaining []domain.MenuItem
	if len(order.Items) > 0 {
		stock, err := lockStock(ctx, tx, order.DistinctItemIDs())
		if err != nil {
			return nil, err
		}

		if err := order.Price(stock); err != nil {
			return nil, err
		}

		for _, line := range order.Lines() {
			tag, err := tx.Exec(ctx, `
				UPDATE menu_items
				SET inventory = inventory - $1
				WHERE id = $2 AND inventory >= $1`,
				line.Quantity, line.ItemID,
			)
			if err != nil {
				return nil, storageError("decrement inventory", err)
			}
			item := stock[line.ItemID]
			if tag.RowsAffected() != 1 {
				return nil, &domain.InsufficientInventoryError{Details: []string{
					fmt.Sprintf("%s (id %d) only %d left", item.Name, item.ID, item.Inventory),
				}}
			}
			item.Inventory -= line.Quantity
			remaining = append(remaining, item)
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (customer_name, items, total)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		order.CustomerName, domain.EncodeItems(order.Items), order.Total,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, storageError("insert order", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageError("commit order transaction", err)
	}
	return remaining, nil
}

// lockStock reads the referenced rows FOR UPDATE, in id order so that two
// orders touching the same items always lock them in the same sequence.
func lockStock(ctx context.Context, tx Tx, ids []int64) (map[int64]domain.MenuItem, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+menuColumns+`
		FROM menu_items
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`,
		ids,
	)
	if err != nil {
		return nil, storageError("lock menu items", err)
	}

	items, err := scanMenuItems(rows)
	if err != nil {
		return nil, err
	}

	stock := make(map[int64]domain.MenuItem, len(items))
	for _, item := range items {
		stock[item.ID] = item
	}
	return stock, nil
}

func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, COALESCE(customer_name, ''), COALESCE(items, ''), COALESCE(total, 0), created_at
		FROM orders
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, storageError("list orders", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var (
			order domain.Order
			items string
		)
		if err := rows.Scan(&order.ID, &order.CustomerName, &items, &order.Total, &order.CreatedAt); err != nil {
			return nil, storageError("scan order", err)
		}
		if order.Items, err = domain.DecodeItems(items); err != nil {
			return nil, fmt.Errorf("order %d: %w", order.ID, err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("read order rows", err)
	}
	return orders, nil
}
