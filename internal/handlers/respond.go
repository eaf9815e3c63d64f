// internal/handlers/respond.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ammerola/motofleet-be/internal/core/domain"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondJSON(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.ErrorContext(ctx, "failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, status int, message string) {
	respondJSON(ctx, logger, w, status, ErrorResponse{Error: message})
}

// respondServiceError maps domain error kinds to status codes. Anything unrecognised
// is logged and hidden behind a 500.
func respondServiceError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error, action string) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		respondJSON(ctx, logger, w, http.StatusBadRequest, ErrorResponse{
			Error: validation.Error(),
			Field: validation.Field,
		})
	case errors.Is(err, domain.ErrValidation):
		respondError(ctx, logger, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(ctx, logger, w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrInvalidStateTransition):
		respondError(ctx, logger, w, http.StatusConflict, err.Error())
	case errors.Is(err, context.Canceled):
		logger.WarnContext(ctx, "request cancelled", slog.String("action", action))
	default:
		logger.ErrorContext(ctx, "failed to "+action,
			slog.String("error", err.Error()))
		respondError(ctx, logger, w, http.StatusInternalServerError, "Failed to "+action)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	return dec.Decode(dst)
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	return id, err == nil
}
