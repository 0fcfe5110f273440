package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/store"
)

// Client-facing messages. Internal error text never reaches a response body.
const (
	msgValidationFailed = "The given data was invalid."
	msgTaskNotFound     = "Task not found"
	msgMalformedBody    = "Invalid request format"
	msgBodyTooLarge     = "Request body too large"
	msgInvalidEntity    = "Invalid task data"
	msgStorage          = "Storage temporarily unavailable"
	msgRequestAborted   = "The request was cancelled or timed out"
	msgInvalidToken     = "Invalid token"
	msgUnexpected       = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so that
// internal error types never leak to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, shared.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, shared.ErrMalformedBody):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	case store.IsNotFoundError(err),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusNotFound

	// A constraint violation the validation layer did not anticipate.
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a fixed, user-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpected
	}

	switch {
	case errors.Is(err, shared.ErrBodyTooLarge):
		return msgBodyTooLarge
	case errors.Is(err, shared.ErrMalformedBody):
		return msgMalformedBody
	case errors.Is(err, domain.ErrValidation):
		return msgValidationFailed
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return msgInvalidToken
	case store.IsNotFoundError(err),
		errors.Is(err, domain.ErrInvalidID):
		return msgTaskNotFound
	case errors.Is(err, store.ErrInvalidEntity):
		return msgInvalidEntity
	case store.IsStorageError(err):
		return msgStorage
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return msgRequestAborted
	default:
		return msgUnexpected
	}
}

// HandleAPIError writes the response for err. Validation failures carry
// their per-field messages; everything else gets a fixed message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	var opts []shared.ResponseOption
	if status == http.StatusUnprocessableEntity {
		if fields := domain.FieldErrors(err); len(fields) > 0 {
			opts = append(opts, shared.WithFieldErrors(fields))
		}
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
