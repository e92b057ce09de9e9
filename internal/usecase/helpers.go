package usecase

import (
	"errors"
	"time"

	"ev-rental/internal/data/entity"
	"ev-rental/pkg/apperror"
	"ev-rental/pkg/database"
	"ev-rental/pkg/utils"

	"github.com/google/uuid"
)

// Clock returns the current time; services default to time.Now.
type Clock func() time.Time

func validationError(errs map[string]string) *apperror.Error {
	details := make(map[string]any, len(errs))
	for field, msg := range errs {
		details[field] = msg
	}
	return apperror.Validation("validation failed: "+utils.FormatValidationErrors(errs), details)
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}
	return nil
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, validationError(map[string]string{field: "Must be a valid UUID"})
	}
	return id, nil
}

func parseOptionalID(field string, value *string) (*uuid.UUID, error) {
	if value == nil {
		return nil, nil
	}
	id, err := parseID(field, *value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseTimestamp(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, validationError(map[string]string{field: "Must be an RFC3339 timestamp"})
	}
	return t, nil
}

func isStaff(actor utils.Identity) bool {
	return entity.UserRole(actor.Role).IsStaff()
}

// uniqueViolation converts a unique-index violation into the given conflict.
func uniqueViolation(err error, conflict *apperror.Error) error {
	if database.PgErrorCode(err) == database.UniqueViolation {
		return conflict
	}
	return err
}

func internalError(msg string, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Internal(msg, err)
}
