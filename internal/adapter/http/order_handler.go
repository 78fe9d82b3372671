package http

import (
	"net/http"
	"time"

	"github.com/YelzhanWeb/coffee-shop/internal/adapter/logger"
	"github.com/YelzhanWeb/coffee-shop/internal/domain"
	"github.com/YelzhanWeb/coffee-shop/internal/interfaces"
)

type OrderHandler struct {
	orderService interfaces.OrderService
	logger       logger.Logger
}

func NewOrderHandler(orderService interfaces.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

type OrderResponse struct {
	ID           int64     `json:"id"`
	CustomerName string    `json:"customer_name"`
	Items        string    `json:"items"`
	Total        float64   `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeObject(w, r)
	if err != nil {
		respondServiceError(w, r, h.logger, "order_create_failed", err)
		return
	}

	items, err := parseItems(fields)
	if err != nil {
		respondServiceError(w, r, h.logger, "order_create_failed", err)
		return
	}
	customer, err := parseCustomerName(fields)
	if err != nil {
		respondServiceError(w, r, h.logger, "order_create_failed", err)
		return
	}

	order, err := h.orderService.PlaceOrder(r.Context(), interfaces.PlaceOrderCommand{
		CustomerName: customer,
		Items:        items,
	})
	if err != nil {
		respondServiceError(w, r, h.logger, "order_create_failed", err)
		return
	}

	total := order.Total.InexactFloat64()
	writeJSON(w, http.StatusCreated, StatusResponse{Status: "ok", Total: &total})
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListOrders(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, "order_list_failed", err)
		return
	}

	resp := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, OrderResponse{
			ID:           o.ID,
			CustomerName: o.CustomerName,
			Items:        domain.EncodeItems(o.Items),
			Total:        o.Total.InexactFloat64(),
			CreatedAt:    o.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
