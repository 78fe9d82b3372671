package postgres

import (
	"context"

	"github.com/YelzhanWeb/coffee-shop/internal/domain"
)

// schemaLockKey names the advisory lock that serializes initializer runs
// across goroutines and processes.
const schemaLockKey int64 = 0x0C0FFEE

const (
	createMenuItemsTable = `
		CREATE TABLE IF NOT EXISTS menu_items (
			id        BIGSERIAL PRIMARY KEY,
			name      TEXT NOT NULL,
			price     NUMERIC(10,2) NOT NULL,
			inventory INTEGER DEFAULT 0
		)`

	createOrdersTable = `
		CREATE TABLE IF NOT EXISTS orders (
			id            BIGSERIAL PRIMARY KEY,
			customer_name TEXT,
			items         TEXT,
			total         NUMERIC(12,2),
			created_at    TIMESTAMPTZ DEFAULT now()
		)`

	// Stores created before inventory tracking lack the column.
	addInventoryColumn = `ALTER TABLE menu_items ADD COLUMN IF NOT EXISTS inventory INTEGER DEFAULT 0`
)

type Initializer struct {
	db DB
}

func NewInitializer(db DB) *Initializer {
	return &Initializer{db: db}
}

// Ensure creates missing tables and columns and seeds an empty menu with
// the default catalog. Running it again changes nothing.
func (i *Initializer) Ensure(ctx context.Context) error {
	tx, err := i.db.Begin(ctx)
	if err != nil {
		return storageError("begin schema transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockKey); err != nil {
		return storageError("acquire schema lock", err)
	}

	for _, stmt := range []string{createMenuItemsTable, createOrdersTable, addInventoryColumn} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return storageError("apply schema", err)
		}
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&count); err != nil {
		return storageError("count menu items", err)
	}

	if count == 0 {
		for _, item := range domain.DefaultCatalog() {
			_, err := tx.Exec(ctx,
				`INSERT INTO menu_items (name, price, inventory) VALUES ($1, $2, $3)`,
				item.Name, item.Price, item.Inventory,
			)
			if err != nil {
				return storageError("seed menu", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return storageError("commit schema transaction", err)
	}
	return nil
}
