package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/YelzhanWeb/coffee-shop/internal/adapter/logger"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware tags every request with an ID, stores it in the request
// context and logs the request and its outcome.
func LoggingMiddleware(lgr logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)
			r = r.WithContext(logger.WithRequestID(r.Context(), requestID))

			lgr.Debug("http_request", fmt.Sprintf("%s %s", r.Method, r.URL.Path), requestID, map[string]interface{}{
				"method": r.Method,
				"path":   r.URL.Path,
			})

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			lgr.Debug("http_response", "Request completed", requestID, map[string]interface{}{
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}

func RecoveryMiddleware(lgr logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					lgr.Error("panic_recovered", "Panic recovered", logger.RequestID(r.Context()), map[string]interface{}{
						"path": r.URL.Path,
					}, fmt.Errorf("%v", err))
					respondError(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
