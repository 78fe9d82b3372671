package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places a price may carry.
const PriceScale = 2

// DefaultAlertThreshold is the stock level at or below which an item is
// reported as running low.
const DefaultAlertThreshold = 5

var (
	// MaxPrice is the exclusive upper bound of a NUMERIC(10,2) price.
	MaxPrice = decimal.New(1, 8)
	// MaxOrderTotal is the exclusive upper bound of a NUMERIC(12,2) total.
	MaxOrderTotal = decimal.New(1, 10)
)

// MenuItem is a sellable product with its current stock.
type MenuItem struct {
	ID        int64
	Name      string
	Price     decimal.Decimal
	Inventory int
}

func NewMenuItem(name string, price decimal.Decimal, inventory int) (*MenuItem, error) {
	item := &MenuItem{
		Name:      strings.TrimSpace(name),
		Price:     price,
		Inventory: inventory,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

func (m *MenuItem) Validate() error {
	if err := ValidateName(m.Name); err != nil {
		return err
	}
	if err := ValidatePrice(m.Price); err != nil {
		return err
	}
	return ValidateInventory(m.Inventory)
}

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", "name required")
	}
	return nil
}

func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return NewValidationError("price", "price must not be negative")
	}
	if price.GreaterThanOrEqual(MaxPrice) {
		return NewValidationError("price", "price must be less than 100000000")
	}
	if !price.Equal(price.Round(PriceScale)) {
		return NewValidationError("price", "price must have at most 2 decimal places")
	}
	return nil
}

func ValidateInventory(inventory int) error {
	if inventory < 0 {
		return NewValidationError("inventory", "inventory must not be negative")
	}
	return nil
}

// LowStock reports whether the item is at or below the alert threshold.
func (m *MenuItem) LowStock(threshold int) bool {
	return m.Inventory <= threshold
}

// DefaultCatalog is seeded into an empty menu.
func DefaultCatalog() []MenuItem {
	return []MenuItem{
		{Name: "Espresso", Price: decimal.RequireFromString("2.50"), Inventory: 20},
		{Name: "Latte", Price: decimal.RequireFromString("3.50"), Inventory: 15},
		{Name: "Cappuccino", Price: decimal.RequireFromString("3.00"), Inventory: 15},
		{Name: "Tea", Price: decimal.RequireFromString("2.00"), Inventory: 25},
	}
}
