package validator

import (
	apperrors "github.com/brightpath-edu/tutor-portal/internal/errors"
)

// Re-export shared validation error types for convenience
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

var NewValidationError = apperrors.NewValidationError
var ToValidationErrors = apperrors.ToValidationErrors
