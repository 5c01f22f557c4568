package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/samvad-hq/samvad-customers/internal/logger"
	"github.com/samvad-hq/samvad-customers/internal/service"
)

// APIError is the JSON body written for failed requests.
type APIError struct {
	Path       string    `json:"path"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Timestamp  time.Time `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := clientMessage(err)
	if status == http.StatusInternalServerError {
		h.log.ErrorObj("request failed", "request_error", map[string]any{
			"path":       r.URL.Path,
			"request_id": middleware.GetReqID(r.Context()),
			"error":      err.Error(),
		})
		msg = http.StatusText(status)
	}
	writeJSON(w, status, APIError{
		Path:       r.URL.Path,
		Message:    msg,
		StatusCode: status,
		Timestamp:  time.Now().UTC(),
	})
}

// clientMessage strips the sentinel prefix added by the service layer.
func clientMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{service.ErrNotFound, service.ErrDuplicate, service.ErrValidation} {
		if errors.Is(err, sentinel) {
			return strings.TrimPrefix(msg, sentinel.Error()+": ")
		}
	}
	return msg
}

// requestLogger logs one structured entry per request.
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.InfoObj("http request", "http_request", map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"elapsed_ms":  time.Since(start).Milliseconds(),
				"request_id":  middleware.GetReqID(r.Context()),
				"remote_addr": r.RemoteAddr,
			})
		})
	}
}
