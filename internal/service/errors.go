package service

import (
	"errors"

	"github.com/ticketdesk/ticketdesk-service/internal/repository"
	apperrors "github.com/ticketdesk/ticketdesk-service/pkg/util/errorutil"
)

// mapRepoError translates repository sentinels into API errors.
func mapRepoError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict(resource+" already exists", nil)
	default:
		return apperrors.MapError(err)
	}
}

func fieldError(field, message string) error {
	return apperrors.NewValidationError("validation failed", map[string]any{field: message})
}
