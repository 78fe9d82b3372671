package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/YelzhanWeb/coffee-shop/internal/adapter/logger"
	"github.com/YelzhanWeb/coffee-shop/internal/domain"
)

type ErrorResponse struct {
	Error   string   `json:"error"`
	Field   string   `json:"field,omitempty"`
	Details []string `json:"details,omitempty"`
}

type StatusResponse struct {
	Status string   `json:"status"`
	Total  *float64 `json:"total,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, resp ErrorResponse) {
	writeJSON(w, status, resp)
}

// respondServiceError maps domain errors onto status codes. Anything that
// is not a known client error is logged and hidden behind a generic 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, lgr logger.Logger, action string, err error) {
	var (
		inv  *domain.InsufficientInventoryError
		verr *domain.ValidationError
	)
	switch {
	case errors.As(err, &inv):
		respondError(w, http.StatusBadRequest, ErrorResponse{
			Error:   domain.ErrInsufficientInventory.Error(),
			Details: inv.Details,
		})
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, ErrorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrorResponse{Error: "not found"})
	default:
		lgr.Error(action, "Request failed", logger.RequestID(r.Context()), map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		}, err)
		respondError(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
