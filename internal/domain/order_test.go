package domain

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func stockFixture() map[int64]MenuItem {
	return map[int64]MenuItem{
		1: {ID: 1, Name: "Espresso", Price: decimal.RequireFromString("2.50"), Inventory: 20},
		2: {ID: 2, Name: "Latte", Price: decimal.RequireFromString("3.50"), Inventory: 1},
		4: {ID: 4, Name: "Tea", Price: decimal.RequireFromString("2.00"), Inventory: 25},
	}
}

func TestTallyItemsKeepsFirstSeenOrder(t *testing.T) {
	got := TallyItems([]int64{4, 1, 4, 4, 1, 2})
	want := []LineQuantity{{ItemID: 4, Quantity: 3}, {ItemID: 1, Quantity: 2}, {ItemID: 2, Quantity: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TallyItems = %+v, want %+v", got, want)
	}
	if got := TallyItems(nil); len(got) != 0 {
		t.Errorf("TallyItems(nil) = %+v, want empty", got)
	}
}

func TestOrderPriceComputesTotal(t *testing.T) {
	o := NewOrder("", []int64{1, 1, 1})
	if err := o.Price(stockFixture()); err != nil {
		t.Fatalf("Price: %v", err)
	}
	if !o.Total.Equal(decimal.RequireFromString("7.50")) {
		t.Errorf("total = %s, want 7.50", o.Total)
	}
	if o.CustomerName != DefaultCustomerName {
		t.Errorf("customer = %q, want Guest", o.CustomerName)
	}
	if !reflect.DeepEqual(o.Items, []int64{1, 1, 1}) {
		t.Errorf("items rewritten: %v", o.Items)
	}
}

func TestOrderPriceReportsEveryProblem(t *testing.T) {
	o := NewOrder("Ann", []int64{2, 2, 9, 1})
	err := o.Price(stockFixture())

	var inv *InsufficientInventoryError
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v, want InsufficientInventoryError", err)
	}
	if !errors.Is(err, ErrInsufficientInventory) {
		t.Error("error should unwrap to ErrInsufficientInventory")
	}
	want := []string{"Latte (id 2) only 1 left", "Item id 9 not found"}
	if !reflect.DeepEqual(inv.Details, want) {
		t.Errorf("details = %q, want %q", inv.Details, want)
	}
	if !o.Total.IsZero() {
		t.Errorf("total set on failed order: %s", o.Total)
	}
}

func TestDistinctItemIDs(t *testing.T) {
	o := NewOrder("x", []int64{3, 1, 3})
	if got := o.DistinctItemIDs(); !reflect.DeepEqual(got, []int64{3, 1}) {
		t.Errorf("DistinctItemIDs = %v", got)
	}
}

func TestEncodeDecodeItems(t *testing.T) {
	tests := []struct {
		ids     []int64
		encoded string
	}{
		{[]int64{}, ""},
		{[]int64{1}, "1"},
		{[]int64{1, 1, 3}, "1,1,3"},
	}
	for _, tt := range tests {
		if got := EncodeItems(tt.ids); got != tt.encoded {
			t.Errorf("EncodeItems(%v) = %q, want %q", tt.ids, got, tt.encoded)
		}
		got, err := DecodeItems(tt.encoded)
		if err != nil {
			t.Fatalf("DecodeItems(%q): %v", tt.encoded, err)
		}
		if !reflect.DeepEqual(got, tt.ids) {
			t.Errorf("DecodeItems(%q) = %v, want %v", tt.encoded, got, tt.ids)
		}
	}
	if _, err := DecodeItems("1,x"); err == nil {
		t.Error("DecodeItems should reject non-numeric ids")
	}
}

func TestOrderPriceRejectsOversizedTotal(t *testing.T) {
	stock := map[int64]MenuItem{
		1: {ID: 1, Name: "Reserve", Price: decimal.RequireFromString("99999999.99"), Inventory: 1000},
	}
	ids := make([]int64, 101)
	for i := range ids {
		ids[i] = 1
	}

	o := NewOrder("Ann", ids)
	err := o.Price(stock)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "items" {
		t.Fatalf("err = %v, want items ValidationError", err)
	}
	if !o.Total.IsZero() {
		t.Errorf("total set on rejected order: %s", o.Total)
	}
}
