package http

import (
	"encoding/json"
	"net/http"

	"github.com/YelzhanWeb/coffee-shop/internal/adapter/logger"
	"github.com/YelzhanWeb/coffee-shop/internal/domain"
	"github.com/YelzhanWeb/coffee-shop/internal/interfaces"

	"github.com/shopspring/decimal"
)

type MenuHandler struct {
	menuService    interfaces.MenuService
	logger         logger.Logger
	alertThreshold int
}

// NewMenuHandler takes the threshold used when a request gives none. A
// negative value falls back to domain.DefaultAlertThreshold.
func NewMenuHandler(menuService interfaces.MenuService, logger logger.Logger, alertThreshold int) *MenuHandler {
	if alertThreshold < 0 {
		alertThreshold = domain.DefaultAlertThreshold
	}
	return &MenuHandler{
		menuService:    menuService,
		logger:         logger,
		alertThreshold: alertThreshold,
	}
}

type MenuItemResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Inventory int     `json:"inventory"`
}

type InventoryAlertResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Inventory int    `json:"inventory"`
}

func toMenuItemResponse(item domain.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:        item.ID,
		Name:      item.Name,
		Price:     item.Price.InexactFloat64(),
		Inventory: item.Inventory,
	}
}

func (h *MenuHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menuService.List(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, "menu_list_failed", err)
		return
	}

	resp := make([]MenuItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toMenuItemResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *MenuHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeObject(w, r)
	if err != nil {
		respondServiceError(w, r, h.logger, "menu_create_failed", err)
		return
	}

	cmd, err := createCommand(fields)
	if err != nil {
		respondServiceError(w, r, h.logger, "menu_create_failed", err)
		return
	}

	item, err := h.menuService.Create(r.Context(), cmd)
	if err != nil {
		respondServiceError(w, r, h.logger, "menu_create_failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, toMenuItemResponse(*item))
}

// createCommand reads a new item. Missing price and inventory default to 0.
func createCommand(fields map[string]json.RawMessage) (interfaces.CreateMenuItemCommand, error) {
	cmd := interfaces.CreateMenuItemCommand{Price: decimal.Zero}

	raw, ok := present(fields, "name")
	if !ok {
		return cmd, domain.NewValidationError("name", "name required")
	}
	name, err := parseName(raw)
	if err != nil {
		return cmd, err
	}
	cmd.Name = name

	if raw, ok := fields["price"]; ok {
		if cmd.Price, err = parsePrice(raw); err != nil {
			return cmd, err
		}
	}
	if raw, ok := fields["inventory"]; ok {
		if cmd.Inventory, err = parseInventory(raw); err != nil {
			return cmd, err
		}
	}
	return cmd, nil
}

// updatePatch collects the fields that were sent. Null counts as absent.
// An empty patch is rejected by the menu service.
func updatePatch(fields map[string]json.RawMessage) (*domain.MenuItemPatch, error) {
	patch := domain.NewMenuItemPatch()

	if raw, ok := present(fields, "name"); ok {
		name, err := parseName(raw)
		if err != nil {
			return nil, err
		}
		if err := patch.SetName(name); err != nil {
			return nil, err
		}
	}
	if raw, ok := present(fields, "price"); ok {
		price, err := parsePrice(raw)
		if err != nil {
			return nil, err
		}
		if err := patch.SetPrice(price); err != nil {
			return nil, err
		}
	}
	if raw, ok := present(fields, "inventory"); ok {
		inventory, err := parseInventory(raw)
		if err != nil {
			return nil, err
		}
		if err := patch.SetInventory(inventory); err != nil {
			return nil, err
		}
	}
	return patch, nil
}

func (h *MenuHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	fields, err := decodeObject(w, r)
	if err != nil {
		respondServiceError(w, r, h.logger, "menu_update_failed", err)
		return
	}

	patch, err := updatePatch(fields)
	if err != nil {
		respondServiceError(w, r, h.logger, "menu_update_failed", err)
		return
	}

	item, err := h.menuService.Update(r.Context(), id, patch)
	if err != nil {
		respondServiceError(w, r, h.logger, "menu_update_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(*item))
}

func (h *MenuHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := h.menuService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, "menu_delete_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

func (h *MenuHandler) InventoryAlert(w http.ResponseWriter, r *http.Request) {
	threshold, err := parseThreshold(r, h.alertThreshold)
	if err != nil {
		respondServiceError(w, r, h.logger, "inventory_alert_failed", err)
		return
	}

	items, err := h.menuService.LowStock(r.Context(), threshold)
	if err != nil {
		respondServiceError(w, r, h.logger, "inventory_alert_failed", err)
		return
	}

	resp := make([]InventoryAlertResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, InventoryAlertResponse{ID: item.ID, Name: item.Name, Inventory: item.Inventory})
	}
	writeJSON(w, http.StatusOK, resp)
}
