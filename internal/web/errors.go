package web

// errors.go provides unified error response handling for the web layer.
// Technical details are logged server-side with the request id; clients get
// a sanitized JSON body with a stable code they can quote to support.

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/cogenworks/plantparse/internal/logging"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// errorCode maps an HTTP status to a stable support code.
func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "REQ001"
	case http.StatusNotFound:
		return "REQ002"
	case http.StatusRequestEntityTooLarge:
		return "REQ003"
	case http.StatusTooManyRequests:
		return "REQ004"
	case http.StatusServiceUnavailable:
		return "SVC001"
	default:
		return "SVC000"
	}
}

// writeError writes a JSON error response, logging the message server-side.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", message,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
		Code:  errorCode(status),
	})
}

// respondError maps an error to a status code and writes it.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, ErrTooManyParses):
		status = http.StatusTooManyRequests
		w.Header().Set("Retry-After", "30")
	case errors.Is(err, errNoDatabase):
		status = http.StatusServiceUnavailable
	}
	writeError(w, r, status, err.Error())
}

// writeJSON encodes v as JSON and writes it to w.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
