package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/YelzhanWeb/coffee-shop/internal/adapter/logger"
	"github.com/YelzhanWeb/coffee-shop/internal/domain"
	"github.com/YelzhanWeb/coffee-shop/internal/interfaces"

	"github.com/shopspring/decimal"
)

type fakeMenuService struct {
	items     []domain.MenuItem
	created   *interfaces.CreateMenuItemCommand
	patch     *domain.MenuItemPatch
	threshold int
	err       error
}

func (f *fakeMenuService) List(ctx context.Context) ([]domain.MenuItem, error) {
	return f.items, f.err
}

func (f *fakeMenuService) Create(ctx context.Context, cmd interfaces.CreateMenuItemCommand) (*domain.MenuItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &cmd
	item, err := domain.NewMenuItem(cmd.Name, cmd.Price, cmd.Inventory)
	if err != nil {
		return nil, err
	}
	item.ID = int64(len(f.items) + 1)
	f.items = append(f.items, *item)
	return item, nil
}

func (f *fakeMenuService) Update(ctx context.Context, id int64, patch *domain.MenuItemPatch) (*domain.MenuItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	f.patch = patch
	for i := range f.items {
		if f.items[i].ID == id {
			applyPatch(patch, &f.items[i])
			item := f.items[i]
			return &item, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeMenuService) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeMenuService) LowStock(ctx context.Context, threshold int) ([]domain.MenuItem, error) {
	f.threshold = threshold
	var low []domain.MenuItem
	for _, item := range f.items {
		if item.LowStock(threshold) {
			low = append(low, item)
		}
	}
	return low, f.err
}

// applyPatch copies the patched values onto item, as the UPDATE statement does.
func applyPatch(p *domain.MenuItemPatch, item *domain.MenuItem) {
	if v, ok := p.Value(domain.FieldName); ok {
		item.Name = v.(string)
	}
	if v, ok := p.Value(domain.FieldPrice); ok {
		item.Price = v.(decimal.Decimal)
	}
	if v, ok := p.Value(domain.FieldInventory); ok {
		item.Inventory = v.(int)
	}
}

type fakeOrderService struct {
	orders []domain.Order
	placed *interfaces.PlaceOrderCommand
	err    error
}

func (f *fakeOrderService) PlaceOrder(ctx context.Context, cmd interfaces.PlaceOrderCommand) (*domain.Order, error) {
	f.placed = &cmd
	if f.err != nil {
		return nil, f.err
	}
	order := domain.NewOrder(cmd.CustomerName, cmd.Items)
	order.ID = 1
	order.Total = decimal.RequireFromString("7.50")
	return order, nil
}

func (f *fakeOrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return f.orders, f.err
}

type fakeMaintenance struct {
	runs int
	err  error
}

func (f *fakeMaintenance) RunOnce(ctx context.Context) error {
	f.runs++
	return f.err
}

func seededMenu() *fakeMenuService {
	items := domain.DefaultCatalog()
	for i := range items {
		items[i].ID = int64(i + 1)
	}
	items[3].Inventory = 2
	return &fakeMenuService{items: items}
}

func newTestRouter(menu *fakeMenuService, orders *fakeOrderService, maint *fakeMaintenance) http.Handler {
	lgr := logger.NewWithWriter("test", logger.LevelDebug, io.Discard)
	return NewRouter(
		NewMenuHandler(menu, lgr, 5),
		NewOrderHandler(orders, lgr),
		NewAdminHandler(maint, lgr),
		lgr,
	)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestListMenu(t *testing.T) {
	h := newTestRouter(seededMenu(), &fakeOrderService{}, &fakeMaintenance{})

	rec := do(t, h, http.MethodGet, "/api/menu", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	items := decode[[]MenuItemResponse](t, rec)
	if len(items) != 4 {
		t.Fatalf("got %d items, want 4", len(items))
	}
	if items[0].Name != "Espresso" || items[0].Price != 2.5 || items[0].Inventory != 20 {
		t.Errorf("first item = %+v", items[0])
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestCreateMenuItem(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantPrice string
		wantInv   int
	}{
		{"numbers", `{"name":"Mocha","price":4.25,"inventory":10}`, http.StatusCreated, "4.25", 10},
		{"numeric strings", `{"name":"Mocha","price":"4.25","inventory":"10"}`, http.StatusCreated, "4.25", 10},
		{"defaults", `{"name":"Water"}`, http.StatusCreated, "0", 0},
		{"missing name", `{"price":1}`, http.StatusBadRequest, "", 0},
		{"blank name", `{"name":"  "}`, http.StatusBadRequest, "", 0},
		{"non string name", `{"name":5}`, http.StatusBadRequest, "", 0},
		{"bad price", `{"name":"Mocha","price":"cheap"}`, http.StatusBadRequest, "", 0},
		{"negative price", `{"name":"Mocha","price":-1}`, http.StatusBadRequest, "", 0},
		{"three decimals", `{"name":"Mocha","price":1.234}`, http.StatusBadRequest, "", 0},
		{"price overflows column", `{"name":"Gold Latte","price":100000000}`, http.StatusBadRequest, "", 0},
		{"fractional inventory", `{"name":"Mocha","inventory":1.5}`, http.StatusBadRequest, "", 0},
		{"boolean inventory", `{"name":"Mocha","inventory":true}`, http.StatusBadRequest, "", 0},
		{"invalid json", `{"name":`, http.StatusBadRequest, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			menu := seededMenu()
			h := newTestRouter(menu, &fakeOrderService{}, &fakeMaintenance{})

			rec := do(t, h, http.MethodPost, "/api/menu", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusCreated {
				if resp := decode[ErrorResponse](t, rec); resp.Error == "" {
					t.Error("expected error message")
				}
				return
			}
			if !menu.created.Price.Equal(decimal.RequireFromString(tt.wantPrice)) {
				t.Errorf("price = %s, want %s", menu.created.Price, tt.wantPrice)
			}
			if menu.created.Inventory != tt.wantInv {
				t.Errorf("inventory = %d, want %d", menu.created.Inventory, tt.wantInv)
			}
			if item := decode[MenuItemResponse](t, rec); item.ID != 5 {
				t.Errorf("id = %d, want 5", item.ID)
			}
		})
	}
}

func TestCreateMenuItemInvalidJSONMessage(t *testing.T) {
	h := newTestRouter(seededMenu(), &fakeOrderService{}, &fakeMaintenance{})

	rec := do(t, h, http.MethodPost, "/api/menu", `not json`)
	if resp := decode[ErrorResponse](t, rec); resp.Error != "invalid JSON body" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestUpdateMenuItem(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
	}{
		{"price only", "/api/menu/1", `{"price":3}`, http.StatusOK},
		{"null is ignored", "/api/menu/1", `{"price":3,"name":null}`, http.StatusOK},
		{"no fields", "/api/menu/1", `{}`, http.StatusBadRequest},
		{"unknown field only", "/api/menu/1", `{"id":9}`, http.StatusBadRequest},
		{"bad inventory", "/api/menu/1", `{"inventory":"lots"}`, http.StatusBadRequest},
		{"price overflows column", "/api/menu/1", `{"price":1e12}`, http.StatusBadRequest},
		{"missing item", "/api/menu/99", `{"price":3}`, http.StatusNotFound},
		{"non numeric id", "/api/menu/abc", `{"price":3}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			menu := seededMenu()
			h := newTestRouter(menu, &fakeOrderService{}, &fakeMaintenance{})

			rec := do(t, h, http.MethodPut, tt.path, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			item := decode[MenuItemResponse](t, rec)
			if item.Name != "Espresso" || item.Price != 3 || item.Inventory != 20 {
				t.Errorf("item = %+v", item)
			}
			if fields := menu.patch.Fields(); len(fields) != 1 || fields[0] != domain.FieldPrice {
				t.Errorf("patch fields = %v", fields)
			}
		})
	}
}

func TestDeleteMenuItem(t *testing.T) {
	menu := seededMenu()
	h := newTestRouter(menu, &fakeOrderService{}, &fakeMaintenance{})

	rec := do(t, h, http.MethodDelete, "/api/menu/2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decode[StatusResponse](t, rec); resp.Status != "deleted" {
		t.Errorf("status = %q", resp.Status)
	}

	rec = do(t, h, http.MethodDelete, "/api/menu/2", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestInventoryAlert(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		wantCode      int
		wantThreshold int
		wantCount     int
	}{
		{"default threshold", "", http.StatusOK, 5, 1},
		{"explicit threshold", "?threshold=16", http.StatusOK, 16, 3},
		{"zero", "?threshold=0", http.StatusOK, 0, 0},
		{"not a number", "?threshold=few", http.StatusBadRequest, 0, 0},
		{"beyond int32", "?threshold=99999999999", http.StatusBadRequest, 0, 0},
		{"negative", "?threshold=-1", http.StatusOK, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			menu := seededMenu()
			h := newTestRouter(menu, &fakeOrderService{}, &fakeMaintenance{})

			rec := do(t, h, http.MethodGet, "/api/inventory-alert"+tt.query, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			if menu.threshold != tt.wantThreshold {
				t.Errorf("threshold = %d, want %d", menu.threshold, tt.wantThreshold)
			}
			if got := decode[[]InventoryAlertResponse](t, rec); len(got) != tt.wantCount {
				t.Errorf("got %d items, want %d", len(got), tt.wantCount)
			}
		})
	}
}

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantCode     int
		wantCustomer string
		wantItems    []int64
	}{
		{"items", `{"customer_name":"Ann","items":[1,1,2]}`, http.StatusCreated, "Ann", []int64{1, 1, 2}},
		{"defaults", `{}`, http.StatusCreated, domain.DefaultCustomerName, []int64{}},
		{"null items", `{"items":null}`, http.StatusCreated, domain.DefaultCustomerName, []int64{}},
		{"empty body", "", http.StatusCreated, domain.DefaultCustomerName, []int64{}},
		{"items not a list", `{"items":"1,2"}`, http.StatusBadRequest, "", nil},
		{"string item", `{"items":[1,"2"]}`, http.StatusBadRequest, "", nil},
		{"fractional item", `{"items":[1.5]}`, http.StatusBadRequest, "", nil},
		{"non string customer", `{"customer_name":7,"items":[1]}`, http.StatusBadRequest, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &fakeOrderService{}
			h := newTestRouter(seededMenu(), orders, &fakeMaintenance{})

			rec := do(t, h, http.MethodPost, "/api/orders", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusCreated {
				if orders.placed != nil {
					t.Error("service should not be called for malformed input")
				}
				return
			}
			if orders.placed.CustomerName != tt.wantCustomer {
				t.Errorf("customer = %q, want %q", orders.placed.CustomerName, tt.wantCustomer)
			}
			if fmt.Sprint(orders.placed.Items) != fmt.Sprint(tt.wantItems) {
				t.Errorf("items = %v, want %v", orders.placed.Items, tt.wantItems)
			}
			resp := decode[StatusResponse](t, rec)
			if resp.Status != "ok" || resp.Total == nil || *resp.Total != 7.5 {
				t.Errorf("response = %s", rec.Body.String())
			}
		})
	}
}

func TestCreateOrderInsufficientInventory(t *testing.T) {
	orders := &fakeOrderService{err: &domain.InsufficientInventoryError{
		Details: []string{"Tea (id 4) only 2 left", "Item id 99 not found"},
	}}
	h := newTestRouter(seededMenu(), orders, &fakeMaintenance{})

	rec := do(t, h, http.MethodPost, "/api/orders", `{"items":[4,4,4,99]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[ErrorResponse](t, rec)
	if resp.Error != "insufficient_inventory" || len(resp.Details) != 2 {
		t.Errorf("response = %+v", resp)
	}
}

func TestCreateOrderTotalTooLarge(t *testing.T) {
	orders := &fakeOrderService{err: domain.NewValidationError("items", "order total is too large")}
	h := newTestRouter(seededMenu(), orders, &fakeMaintenance{})

	rec := do(t, h, http.MethodPost, "/api/orders", `{"items":[1,1]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp := decode[ErrorResponse](t, rec); resp.Field != "items" {
		t.Errorf("response = %+v", resp)
	}
}

func TestStorageFailureIsHidden(t *testing.T) {
	orders := &fakeOrderService{err: fmt.Errorf("%w: connection refused", domain.ErrStorage)}
	h := newTestRouter(seededMenu(), orders, &fakeMaintenance{})

	rec := do(t, h, http.MethodGet, "/api/orders", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decode[ErrorResponse](t, rec); resp.Error != "internal server error" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestListOrders(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	orders := &fakeOrderService{orders: []domain.Order{
		{ID: 2, CustomerName: "Ann", Items: []int64{1, 1, 3}, Total: decimal.RequireFromString("8.00"), CreatedAt: created},
		{ID: 1, CustomerName: "Guest", Items: []int64{}, Total: decimal.Zero, CreatedAt: created},
	}}
	h := newTestRouter(seededMenu(), orders, &fakeMaintenance{})

	rec := do(t, h, http.MethodGet, "/api/orders", "")
	got := decode[[]OrderResponse](t, rec)
	if len(got) != 2 {
		t.Fatalf("got %d orders", len(got))
	}
	if got[0].ID != 2 || got[0].Items != "1,1,3" || got[0].Total != 8 || !got[0].CreatedAt.Equal(created) {
		t.Errorf("first order = %+v", got[0])
	}
	if got[1].Items != "" {
		t.Errorf("empty order items = %q", got[1].Items)
	}
}

func TestUpdateDB(t *testing.T) {
	maint := &fakeMaintenance{}
	h := newTestRouter(seededMenu(), &fakeOrderService{}, maint)

	rec := do(t, h, http.MethodPost, "/api/update-db", "")
	if rec.Code != http.StatusOK || decode[StatusResponse](t, rec).Status != "ok" {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	maint.err = errors.New("relation is locked")
	rec = do(t, h, http.MethodPost, "/api/update-db", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decode[ErrorResponse](t, rec); resp.Error != "relation is locked" {
		t.Errorf("error = %q", resp.Error)
	}
	if maint.runs != 2 {
		t.Errorf("runs = %d, want 2", maint.runs)
	}
}

func TestIndexRunsInitializerAndRenders(t *testing.T) {
	maint := &fakeMaintenance{err: errors.New("db down")}
	h := newTestRouter(seededMenu(), &fakeOrderService{}, maint)

	rec := do(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<title>Coffee Shop</title>") {
		t.Error("page title not rendered")
	}
	if maint.runs != 1 {
		t.Errorf("runs = %d, want 1", maint.runs)
	}

	if rec := do(t, h, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d", rec.Code)
	}
}

func TestNewMenuHandlerNegativeThresholdFallsBack(t *testing.T) {
	lgr := logger.NewWithWriter("test", logger.LevelDebug, io.Discard)
	if h := NewMenuHandler(seededMenu(), lgr, -3); h.alertThreshold != domain.DefaultAlertThreshold {
		t.Errorf("threshold = %d, want %d", h.alertThreshold, domain.DefaultAlertThreshold)
	}
}

func TestPanicLogCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	lgr := logger.NewWithWriter("test", logger.LevelDebug, &buf)
	h := withMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), lgr)

	req := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
	req.Header.Set(requestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var found bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry logger.LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		if entry.Action == "panic_recovered" {
			found = true
			if entry.RequestID != "req-42" {
				t.Errorf("panic log request_id = %q, want req-42", entry.RequestID)
			}
		}
	}
	if !found {
		t.Error("panic was not logged")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	lgr := logger.NewWithWriter("test", logger.LevelDebug, io.Discard)
	h := RecoveryMiddleware(lgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := do(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestLoggingMiddlewareKeepsIncomingRequestID(t *testing.T) {
	lgr := logger.NewWithWriter("test", logger.LevelDebug, io.Discard)
	var seen string
	h := LoggingMiddleware(lgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "abc-123" || rec.Header().Get(requestIDHeader) != "abc-123" {
		t.Errorf("context id = %q, header = %q", seen, rec.Header().Get(requestIDHeader))
	}
}
