package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"stagehand/internal/workorder"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// lifecycleError maps staging lifecycle errors to HTTP statuses:
// unknown items are 404, rejected transitions and stale snapshots are
// 409, unreachable collaborators are 503.
func lifecycleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workorder.ErrItemNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, workorder.ErrInvalidTransition),
		errors.Is(err, workorder.ErrIncompleteStaging),
		errors.Is(err, workorder.ErrConflict):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, workorder.ErrUnavailable):
		jsonError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("work order operation failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
