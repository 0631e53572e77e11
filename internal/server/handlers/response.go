// internal/server/handlers/response.go

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Common errors
var (
	ErrInvalidRequest = errors.New("invalid request")
)

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, code int, message string, err error) {
	if err != nil && code >= 500 {
		logger.ErrorContext(r.Context(), "HTTP error",
			"code", code,
			"path", r.URL.Path,
			"message", message,
			"error", err,
		)
	}

	respondWithJSON(w, code, map[string]string{"error": message})
}
