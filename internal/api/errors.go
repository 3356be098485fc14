// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error codes carried alongside the human-readable message.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeNotFound     = "CODE_NOT_FOUND"
	CodeNoFile       = "NO_FILE"
	CodeInternal     = "INTERNAL_ERROR"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeHTTP         = "HTTP_ERROR"
	CodeUnknownError = "UNKNOWN_ERROR"
)

// APIError represents a structured API error response. Every body carries an
// "error" string.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause
func (e *APIError) Unwrap() error {
	return e.cause
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
		cause:   cause,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(code, message string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    code,
		Message: message,
	}
}

// NewInternalError creates a 500 Internal Server Error. The cause is logged,
// not returned to the client.
func NewInternalError(message string, cause error) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: message,
		cause:   cause,
	}
}

// NewServiceUnavailableError creates a 503 Service Unavailable error
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Status:  http.StatusServiceUnavailable,
		Code:    CodeUnavailable,
		Message: message,
	}
}

// ErrorHandler renders every handler error as JSON.
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &httpErr):
		apiErr = &APIError{
			Status:  httpErr.Code,
			Code:    CodeHTTP,
			Message: fmt.Sprintf("%v", httpErr.Message),
		}
	default:
		apiErr = &APIError{
			Status:  http.StatusInternalServerError,
			Code:    CodeUnknownError,
			Message: "An unexpected error occurred",
			cause:   err,
		}
	}

	if apiErr.Status >= http.StatusInternalServerError {
		c.Logger().Errorf("[API] %s %s: %v", c.Request().Method, c.Request().URL.Path, apiErr)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(apiErr.Status)
	} else {
		err = c.JSON(apiErr.Status, apiErr)
	}
	if err != nil {
		c.Logger().Errorf("[API] writing error response: %v", err)
	}
}
