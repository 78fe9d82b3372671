package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/YelzhanWeb/coffee-shop/internal/domain"
	"github.com/YelzhanWeb/coffee-shop/internal/interfaces"

	"github.com/jackc/pgx/v5"
)

const menuColumns = `id, name, price, COALESCE(inventory, 0)`

type menuRepository struct {
	db DB
}

func NewMenuRepository(db DB) interfaces.MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.db.Query(ctx, `SELECT `+menuColumns+` FROM menu_items ORDER BY id`)
	if err != nil {
		return nil, storageError("list menu", err)
	}
	return scanMenuItems(rows)
}

func (r *menuRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO menu_items (name, price, inventory) VALUES ($1, $2, $3) RETURNING id`,
		item.Name, item.Price, item.Inventory,
	).Scan(&item.ID)
	if err != nil {
		return storageError("create menu item", err)
	}
	return nil
}

// Update expects a validated, non-empty patch.
func (r *menuRepository) Update(ctx context.Context, id int64, patch *domain.MenuItemPatch) (*domain.MenuItem, error) {
	fields := patch.Fields()
	sets := make([]string, len(fields))
	args := make([]any, 0, len(fields)+1)
	for i, f := range fields {
		// f comes from the patch allow-list, so it is a known column name.
		v, _ := patch.Value(f)
		args = append(args, v)
		sets[i] = fmt.Sprintf("%s = $%d", f, i+1)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE menu_items SET %s WHERE id = $%d RETURNING `+menuColumns,
		strings.Join(sets, ", "), len(args))

	var item domain.MenuItem
	err := r.db.QueryRow(ctx, query, args...).Scan(&item.ID, &item.Name, &item.Price, &item.Inventory)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("menu item %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, storageError("update menu item", err)
	}
	return &item, nil
}

func (r *menuRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return storageError("delete menu item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("menu item %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *menuRepository) ListLowStock(ctx context.Context, threshold int) ([]domain.MenuItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+menuColumns+`
		FROM menu_items
		WHERE COALESCE(inventory, 0) <= $1
		ORDER BY COALESCE(inventory, 0), id`,
		threshold,
	)
	if err != nil {
		return nil, storageError("list low stock", err)
	}
	return scanMenuItems(rows)
}

func scanMenuItems(rows Rows) ([]domain.MenuItem, error) {
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Inventory); err != nil {
			return nil, storageError("scan menu item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("read menu rows", err)
	}
	return items, nil
}
