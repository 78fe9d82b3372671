package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type MenuField string

const (
	FieldName      MenuField = "name"
	FieldPrice     MenuField = "price"
	FieldInventory MenuField = "inventory"
)

// mutableMenuFields is the allow-list, in the order columns are rendered.
var mutableMenuFields = []MenuField{FieldName, FieldPrice, FieldInventory}

func IsMutableMenuField(f MenuField) bool {
	for _, m := range mutableMenuFields {
		if m == f {
			return true
		}
	}
	return false
}

// MenuItemPatch is a partial update of a menu item. Absent fields stay unchanged.
type MenuItemPatch struct {
	values map[MenuField]any
}

func NewMenuItemPatch() *MenuItemPatch {
	return &MenuItemPatch{values: make(map[MenuField]any)}
}

func (p *MenuItemPatch) SetName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	return p.set(FieldName, name)
}

func (p *MenuItemPatch) SetPrice(price decimal.Decimal) error {
	if err := ValidatePrice(price); err != nil {
		return err
	}
	return p.set(FieldPrice, price)
}

func (p *MenuItemPatch) SetInventory(inventory int) error {
	if err := ValidateInventory(inventory); err != nil {
		return err
	}
	return p.set(FieldInventory, inventory)
}

func (p *MenuItemPatch) set(f MenuField, v any) error {
	if !IsMutableMenuField(f) {
		return NewValidationError(string(f), fmt.Sprintf("field %q cannot be updated", f))
	}
	p.values[f] = v
	return nil
}

func (p *MenuItemPatch) Empty() bool {
	return len(p.values) == 0
}

// Fields returns the fields present in the patch in allow-list order.
func (p *MenuItemPatch) Fields() []MenuField {
	fields := make([]MenuField, 0, len(p.values))
	for _, f := range mutableMenuFields {
		if _, ok := p.values[f]; ok {
			fields = append(fields, f)
		}
	}
	return fields
}

func (p *MenuItemPatch) Value(f MenuField) (any, bool) {
	v, ok := p.values[f]
	return v, ok
}

// Validate fails when there is nothing to update.
func (p *MenuItemPatch) Validate() error {
	if p.Empty() {
		return NewValidationError("", "no fields to update")
	}
	return nil
}
