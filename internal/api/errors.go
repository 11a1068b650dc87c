package api

import (
	"errors"
	"net/http"

	"dashengine/internal/domain"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var notFound *domain.DefinitionNotFoundError
	var parse *domain.DefinitionParseError
	var clientInit *domain.ClientInitializationError
	var execution *domain.QueryExecutionError
	var validation *domain.ValidationError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &parse):
		return http.StatusUnprocessableEntity
	case errors.As(err, &clientInit):
		return http.StatusServiceUnavailable
	case errors.As(err, &execution):
		return http.StatusBadGateway
	case errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
