package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewMenuItemValidation(t *testing.T) {
	tests := []struct {
		name      string
		itemName  string
		price     string
		inventory int
		field     string
	}{
		{"valid", "Mocha", "4.25", 10, ""},
		{"free item", "Water", "0", 0, ""},
		{"blank name", "   ", "1.00", 1, "name"},
		{"negative price", "Mocha", "-0.01", 1, "price"},
		{"too precise price", "Mocha", "1.005", 1, "price"},
		{"largest price", "Mocha", "99999999.99", 1, ""},
		{"price overflows column", "Gold Latte", "100000000", 1, "price"},
		{"huge price", "Gold Latte", "1000000000000", 1, "price"},
		{"negative inventory", "Mocha", "1.00", -1, "inventory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewMenuItem(tt.itemName, decimal.RequireFromString(tt.price), tt.inventory)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if item.Name != tt.itemName {
					t.Errorf("name = %q", item.Name)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
			if !errors.Is(err, ErrValidation) {
				t.Error("should unwrap to ErrValidation")
			}
		})
	}
}

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	if len(catalog) != 4 {
		t.Fatalf("catalog has %d items, want 4", len(catalog))
	}
	if catalog[0].Name != "Espresso" || !catalog[0].Price.Equal(decimal.RequireFromString("2.5")) || catalog[0].Inventory != 20 {
		t.Errorf("first item = %+v", catalog[0])
	}
	for _, item := range catalog {
		if err := item.Validate(); err != nil {
			t.Errorf("%s: %v", item.Name, err)
		}
	}
}

func TestMenuItemPatchRejectsOversizedPrice(t *testing.T) {
	p := NewMenuItemPatch()
	err := p.SetPrice(decimal.New(1, 12))
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "price" {
		t.Fatalf("SetPrice(1e12): err = %v, want price ValidationError", err)
	}
	if !p.Empty() {
		t.Error("rejected price should not be recorded")
	}
}

func TestMenuItemPatch(t *testing.T) {
	p := NewMenuItemPatch()
	if err := p.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("empty patch: err = %v, want validation error", err)
	}

	if err := p.SetInventory(3); err != nil {
		t.Fatal(err)
	}
	if err := p.SetPrice(decimal.RequireFromString("4.00")); err != nil {
		t.Fatal(err)
	}
	if err := p.SetName(""); err == nil {
		t.Error("SetName(\"\") should fail")
	}

	fields := p.Fields()
	if len(fields) != 2 || fields[0] != FieldPrice || fields[1] != FieldInventory {
		t.Errorf("fields = %v, want [price inventory]", fields)
	}

	if _, ok := p.Value(FieldName); ok {
		t.Error("name should not be set after a rejected SetName")
	}
	if v, ok := p.Value(FieldInventory); !ok || v.(int) != 3 {
		t.Errorf("inventory value = %v, %v", v, ok)
	}
	if v, ok := p.Value(FieldPrice); !ok || !v.(decimal.Decimal).Equal(decimal.RequireFromString("4")) {
		t.Errorf("price value = %v, %v", v, ok)
	}
}

func TestIsMutableMenuField(t *testing.T) {
	if IsMutableMenuField("id") {
		t.Error("id must not be mutable")
	}
	if !IsMutableMenuField(FieldName) {
		t.Error("name must be mutable")
	}
}
