package api

import (
	"encoding/json"
	"net/http"

	"github.com/pfrederiksen/exam-calendar/internal/logger"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

const internalErrorMessage = "An unexpected error occurred."

// jsonResponse writes data as JSON with the given status
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Encoding JSON response failed", nil, err)
	}
}

// errorResponse writes the standard error envelope
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	errorResponse(w, http.StatusNotFound, "The requested resource was not found.")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", "GET, HEAD, OPTIONS")
	errorResponse(w, http.StatusMethodNotAllowed, "The method is not allowed for the requested URL.")
}

// internalError logs err and answers with a generic 500.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("Request failed", logger.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": RequestID(r.Context()),
	}, err)
	errorResponse(w, http.StatusInternalServerError, internalErrorMessage)
}
