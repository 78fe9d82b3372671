package http

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/YelzhanWeb/coffee-shop/internal/adapter/logger"
	"github.com/YelzhanWeb/coffee-shop/internal/interfaces"
)

//go:embed templates/*.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// AdminHandler serves the shop page and the manual maintenance trigger.
type AdminHandler struct {
	maintenance interfaces.MaintenanceService
	logger      logger.Logger
}

func NewAdminHandler(maintenance interfaces.MaintenanceService, logger logger.Logger) *AdminHandler {
	return &AdminHandler{
		maintenance: maintenance,
		logger:      logger,
	}
}

type indexPage struct {
	Title string
}

// Index ensures the schema exists and renders the page. A failed run is
// logged by the maintenance service and the page is rendered anyway.
func (h *AdminHandler) Index(w http.ResponseWriter, r *http.Request) {
	_ = h.maintenance.RunOnce(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, indexPage{Title: "Coffee Shop"}); err != nil {
		h.logger.Error("render_failed", "Failed to render index page", logger.RequestID(r.Context()), nil, err)
	}
}

func (h *AdminHandler) UpdateDB(w http.ResponseWriter, r *http.Request) {
	if err := h.maintenance.RunOnce(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
