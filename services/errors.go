package services

import (
	"errors"
	"net/http"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
)

// ServiceError is a typed error with an HTTP status code. Fields is set only
// for validation failures.
type ServiceError struct {
	StatusCode int
	Message    string
	Fields     []models.FieldError
}

func (e *ServiceError) Error() string { return e.Message }

func NewValidationError(fields ...models.FieldError) *ServiceError {
	return &ServiceError{StatusCode: http.StatusUnprocessableEntity, Message: "Validation failed", Fields: fields}
}

func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Message: message}
}

func NewConflictError(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Message: message}
}

func NewUnauthorizedError(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusUnauthorized, Message: message}
}

func NewInternalError(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Message: message}
}

// fromModelError turns a model-level ValidationError into a 422.
func fromModelError(err error) (*ServiceError, bool) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return NewValidationError(verr.Fields...), true
	}
	return nil, false
}

const internalErrorMessage = "Internal server error"
