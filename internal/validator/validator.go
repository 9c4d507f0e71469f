package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

const (
	ErrRequired  = "is required"
	ErrNotBlank  = "must not be blank"
	ErrMinLength = "must be at least %s"
	ErrMaxLength = "must be at most %s characters long"
	ErrMaxValue  = "must be at most %s"
	ErrInvalid   = "is invalid"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("notblank", validators.NotBlank)

	return validator
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "notblank":
		return ErrNotBlank
	case "min", "gte":
		return fmt.Sprintf(ErrMinLength, err.Param())
	case "max":
		return fmt.Sprintf(ErrMaxLength, err.Param())
	case "lte":
		return fmt.Sprintf(ErrMaxValue, err.Param())
	default:
		return ErrInvalid
	}
}

// Struct validates s and reports field failures as a *domain.ValidationError.
// Errors that are not about field values are returned unchanged.
func Struct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	verr := domain.NewValidationError()
	for _, fe := range fieldErrors {
		verr.Add(fe.Field(), ValidationMessage(fe))
	}

	return verr
}
