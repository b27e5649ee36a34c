package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/blog-dashboard/pkg/util"
)

// validateStruct runs validator tags and folds failures into a single
// VALIDATION_FAILED error with per-field details.
func validateStruct(validate *validator.Validate, payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError("invalid payload", details)
}
