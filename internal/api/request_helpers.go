package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/smarttask/smarttask-api/internal/domain"
)

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// parseDueDate converts an optional due_date request field into the patch
// representation: nil leaves the date untouched, an empty string clears it,
// anything else must be a YYYY-MM-DD date.
func parseDueDate(raw *string) (due *domain.Date, clear bool, err error) {
	if raw == nil {
		return nil, false, nil
	}
	if *raw == "" {
		return nil, true, nil
	}
	d, err := domain.ParseDate(*raw)
	if err != nil {
		return nil, false, domain.NewValidationError("due_date", "must be a YYYY-MM-DD date", domain.ErrInvalidFormat)
	}
	return &d, false, nil
}
