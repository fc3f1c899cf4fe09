package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"storefront/internal/backend"
)

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// HandleError maps backend failures to responses. A cleared session (401 on
// a non-auth endpoint) redirects to the home route; backend API errors pass
// through with the backend's own message; anything else is a 502.
func HandleError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	if errors.Is(err, backend.ErrUnauthorized) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		WriteError(w, apiErr.Status, apiErr.Message)
		return
	}

	if errors.Is(err, context.Canceled) {
		// client went away, nothing to write
		return
	}

	logger.Error("backend request failed", "error", err, "path", r.URL.Path)
	WriteError(w, http.StatusBadGateway, "service unavailable")
}
