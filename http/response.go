package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	bboyzero "github.com/bboyyzero/bboyzero-net-site"
)

// ErrorResponse is the JSON error body. The status code is the only
// machine-readable signal; Error is a short fixed human-readable string.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response. API responses are always marked
// non-cacheable since they reflect live store data.
func WriteJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, ErrorResponse{Error: message})
}

// HandleError maps a service error onto the gateway's fixed status
// taxonomy. upstreamMessage is the client-facing string for upstream
// failures; internal detail is logged, never forwarded.
func HandleError(w http.ResponseWriter, err error, upstreamMessage string) {
	slog.Error("request failed", "err", err)

	switch {
	case errors.Is(err, bboyzero.ErrValidation):
		WriteError(w, http.StatusBadRequest, "Missing fields")
	case errors.Is(err, bboyzero.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, bboyzero.ErrMissingConfig):
		WriteError(w, http.StatusInternalServerError, "Missing configuration")
	case errors.Is(err, bboyzero.ErrUpstream),
		errors.Is(err, bboyzero.ErrUpstreamTimeout),
		errors.Is(err, bboyzero.ErrUploadFailed):
		WriteError(w, http.StatusBadGateway, upstreamMessage)
	default:
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
