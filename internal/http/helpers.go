package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"kassa/internal/core"
	"kassa/internal/identity"
	"kassa/internal/services"
	"kassa/internal/store"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, identity.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, services.ErrBillNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrNoActiveBoard):
		return http.StatusConflict
	case errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidCategoryType),
		errors.Is(err, core.ErrMissingCategory),
		errors.Is(err, core.ErrZeroDate):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a request body into dst, rejecting unknown fields and
// oversized payloads.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	// One JSON value per request.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("invalid request body: trailing data")
	}
	return nil
}

func badRequest(w http.ResponseWriter, err error) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}
