// Package handler is the HTTP layer. Handlers decode requests, call
// services and encode the response envelope; business rules live one
// layer down.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/educast/studio/internal/apperror"
)

// Envelope is the response shape every endpoint returns:
//
//	{"status": "success", "message": "...", "timestamp": "...", "data": {...}}
//	{"status": "error",   "message": "...", "timestamp": "..."}
//
// Clients branch on status, show message, and read payloads from data.
type Envelope struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// writeSuccess sends a success envelope with the given HTTP status.
func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeEnvelope(w, status, Envelope{
		Status:    "success",
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})
}

// writeError maps a domain error to its HTTP status. The service
// layer returns apperror sentinels; this is the single place they
// become status codes.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, apperror.ErrUnprocessable):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, apperror.ErrUnavailable):
			status = http.StatusServiceUnavailable
		}
		writeEnvelope(w, status, Envelope{
			Status:    "error",
			Message:   appErr.Message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	// Unknown error. The raw message might contain SQL or paths, so
	// the client gets a generic line and the log gets the detail.
	slog.Error("unhandled error in HTTP layer", slog.String("error", err.Error()))
	writeEnvelope(w, http.StatusInternalServerError, Envelope{
		Status:    "error",
		Message:   "An internal error occurred",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Headers and status must be written before the body; Encode's first
// Write flushes them.
func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// decodeJSON reads a JSON request body into dst with a small cap on
// body size.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "invalid JSON body")
	}
	return nil
}
