package http

import (
	"net/http"

	"github.com/YelzhanWeb/coffee-shop/internal/adapter/logger"
)

// NewRouter wires all routes and wraps them in logging and recovery.
func NewRouter(menu *MenuHandler, orders *OrderHandler, admin *AdminHandler, lgr logger.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", admin.Index)
	mux.HandleFunc("POST /api/update-db", admin.UpdateDB)

	mux.HandleFunc("GET /api/menu", menu.ListMenu)
	mux.HandleFunc("POST /api/menu", menu.CreateMenuItem)
	mux.HandleFunc("PUT /api/menu/{id}", menu.UpdateMenuItem)
	mux.HandleFunc("DELETE /api/menu/{id}", menu.DeleteMenuItem)
	mux.HandleFunc("GET /api/inventory-alert", menu.InventoryAlert)

	mux.HandleFunc("GET /api/orders", orders.ListOrders)
	mux.HandleFunc("POST /api/orders", orders.CreateOrder)

	return withMiddleware(mux, lgr)
}

// withMiddleware puts recovery inside logging so panics are logged with the
// request ID.
func withMiddleware(h http.Handler, lgr logger.Logger) http.Handler {
	h = RecoveryMiddleware(lgr)(h)
	return LoggingMiddleware(lgr)(h)
}
