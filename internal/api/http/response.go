package http

import (
	"encoding/json"
	"net/http"

	"rentmarket-backend/internal/domain"
	"rentmarket-backend/internal/logger"
)

// Every endpoint answers with the same envelope: success flag, optional
// message, the entity under its own key, and an error string on failure.
type envelope map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeEntity(w http.ResponseWriter, status int, key string, entity interface{}) {
	writeJSON(w, status, envelope{"success": true, key: entity})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": true, "message": message})
}

func writeList(w http.ResponseWriter, key string, items interface{}, total, page, pageSize int32) {
	writeJSON(w, http.StatusOK, envelope{
		"success":   true,
		key:         items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// writeError maps the domain error taxonomy onto HTTP status codes.
// Validation, conflict and availability failures are all client errors;
// anything unrecognized is a 500 with a generic message so internals never
// leak to callers.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case domain.IsValidation(err), domain.IsConflict(err), domain.IsUnavailable(err):
		status = http.StatusBadRequest
		message = err.Error()
	case domain.IsAuthorization(err):
		status = http.StatusForbidden
		message = err.Error()
	case domain.IsNotFound(err):
		status = http.StatusNotFound
		message = err.Error()
	default:
		logger.Error("Unhandled error in request", "error", err)
	}

	writeJSON(w, status, envelope{"success": false, "error": message})
}
