package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultCustomerName = "Guest"

// Order is an immutable record of a sale. Items keeps the submitted id
// sequence, duplicates included, and Total the prices at order time, so
// later menu changes never rewrite history.
type Order struct {
	ID           int64
	CustomerName string
	Items        []int64
	Total        decimal.Decimal
	CreatedAt    time.Time
}

// LineQuantity is how many units of one menu item an order asks for.
type LineQuantity struct {
	ItemID   int64
	Quantity int
}

func NewOrder(customerName string, items []int64) *Order {
	if customerName == "" {
		customerName = DefaultCustomerName
	}
	if items == nil {
		items = []int64{}
	}
	return &Order{
		CustomerName: customerName,
		Items:        items,
		Total:        decimal.Zero,
	}
}

// Lines tallies the submitted ids into quantities, keeping first-seen order.
func (o *Order) Lines() []LineQuantity {
	return TallyItems(o.Items)
}

// DistinctItemIDs returns each referenced id once.
func (o *Order) DistinctItemIDs() []int64 {
	lines := o.Lines()
	ids := make([]int64, len(lines))
	for i, l := range lines {
		ids[i] = l.ItemID
	}
	return ids
}

// Price checks the lines against the stock snapshot. When every line can be
// served it sets Total and returns nil, otherwise it returns an
// InsufficientInventoryError listing every offending id.
func (o *Order) Price(stock map[int64]MenuItem) error {
	lines := o.Lines()
	if details := CheckAvailability(lines, stock); len(details) > 0 {
		return &InsufficientInventoryError{Details: details}
	}
	total := LinesTotal(lines, stock)
	if total.GreaterThanOrEqual(MaxOrderTotal) {
		return NewValidationError("items", "order total is too large")
	}
	o.Total = total
	return nil
}

func TallyItems(ids []int64) []LineQuantity {
	index := make(map[int64]int, len(ids))
	lines := make([]LineQuantity, 0, len(ids))
	for _, id := range ids {
		if i, ok := index[id]; ok {
			lines[i].Quantity++
			continue
		}
		index[id] = len(lines)
		lines = append(lines, LineQuantity{ItemID: id, Quantity: 1})
	}
	return lines
}

func CheckAvailability(lines []LineQuantity, stock map[int64]MenuItem) []string {
	var details []string
	for _, l := range lines {
		item, ok := stock[l.ItemID]
		if !ok {
			details = append(details, fmt.Sprintf("Item id %d not found", l.ItemID))
			continue
		}
		if item.Inventory < l.Quantity {
			details = append(details, fmt.Sprintf("%s (id %d) only %d left", item.Name, l.ItemID, item.Inventory))
		}
	}
	return details
}

func LinesTotal(lines []LineQuantity, stock map[int64]MenuItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(stock[l.ItemID].Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// EncodeItems renders ids the way they are stored: comma-joined, empty for none.
func EncodeItems(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func DecodeItems(s string) ([]int64, error) {
	if s == "" {
		return []int64{}, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, len(parts))
	for i, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid item id %q: %w", p, err)
		}
		ids[i] = id
	}
	return ids, nil
}
