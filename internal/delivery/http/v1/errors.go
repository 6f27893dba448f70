package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/analytics"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

var (
	errInvalidRequestBody      = errors.New("invalid request body")
	errInvalidQuery            = errors.New("invalid query parameters")
	errMandatoryCookieNotFound = errors.New("mandatory cookie not found")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

func newUnprocessableEntityError(message string) apiError {
	return newAPIError(http.StatusUnprocessableEntity, message)
}

// newServiceError maps an error returned by a service to its api error.
func newServiceError(err error) apiError {
	var validationErr *analytics.ValidationError
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return newNotFoundError(err.Error())
	case errors.Is(err, services.ErrEmptyTitle),
		errors.Is(err, services.ErrEmptyName),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskPriority),
		errors.Is(err, services.ErrInvalidDueDate),
		errors.Is(err, analytics.ErrUnknownTimeframe):
		return newBadRequestError(err.Error())
	case errors.As(err, &validationErr):
		return newUnprocessableEntityError(validationErr.Error())
	default:
		return newStatusTextError(http.StatusInternalServerError)
	}
}
