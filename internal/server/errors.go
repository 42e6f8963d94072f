package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/smart-applier/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var ve *ErrValidation
	switch {
	case errors.As(err, &ve), errors.Is(err, types.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrNoJobsAvailable), errors.Is(err, types.ErrNoSkillColumn):
		return http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, types.ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorCode is the machine-readable kind reported alongside an error message
func errorCode(err error) string {
	var ve *ErrValidation
	switch {
	case errors.As(err, &ve):
		return "validation_error"
	case errors.Is(err, types.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, types.ErrNotFound):
		return "not_found"
	case errors.Is(err, types.ErrNoJobsAvailable):
		return "no_jobs_available"
	case errors.Is(err, types.ErrNoSkillColumn):
		return "no_skill_column"
	case errors.Is(err, types.ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, types.ErrExternalService):
		return "external_service"
	default:
		return "internal"
	}
}

// validationError converts the first validator failure into an ErrValidation
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %q (param %q)", fe.Tag(), fe.Param()),
		}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}
