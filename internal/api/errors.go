package api

import (
	"errors"
	"fmt"
)

// DefaultErrorMessage is shown when the provider gives no reason for a failure
const DefaultErrorMessage = "Не вдалося отримати дані погоди"

// Common errors
var (
	// ErrNotFound indicates the requested city was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest indicates the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthorized indicates a missing or rejected API key
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServerError indicates a server-side error
	ErrServerError = errors.New("server error")

	// ErrTimeout indicates the request timed out
	ErrTimeout = errors.New("request timed out")

	// ErrCircuitOpen indicates the provider is temporarily short-circuited
	// after repeated failures
	ErrCircuitOpen = errors.New("weather provider temporarily unavailable")

	// ErrMissingAPIKey indicates no provider key is configured. Its text is
	// also the user message, so the dashboard tells how to fix it.
	ErrMissingAPIKey error = missingKeyError{}
)

type missingKeyError struct{}

func (missingKeyError) Error() string {
	return "OPENWEATHER_API_KEY is not defined. Add it to your environment variables"
}

// UserMessage returns the text to show to the user
func (e missingKeyError) UserMessage() string {
	return e.Error()
}

// APIError represents a non-success response from the weather provider
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error %d: %s (endpoint: %s)", e.StatusCode, e.Status, e.Endpoint)
}

// UserMessage returns the text to show to the user
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return DefaultErrorMessage
}

// Is implements errors.Is for APIError
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == 404
	case ErrServerError:
		return e.StatusCode >= 500
	case ErrInvalidRequest:
		return e.StatusCode == 400
	case ErrUnauthorized:
		return e.StatusCode == 401
	}
	return false
}

// NewAPIError creates a new API error
func NewAPIError(statusCode int, status, endpoint string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Status:     status,
		Endpoint:   endpoint,
	}
}

// NewAPIErrorWithMessage creates a new API error with a provider supplied message
func NewAPIErrorWithMessage(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// ValidationError represents a validation error for request parameters
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ErrMissingField reports a required parameter that was empty
func ErrMissingField(field string) error {
	return NewValidationError(field, "field is required")
}

// ErrInvalidValue reports a parameter outside its accepted range
func ErrInvalidValue(field string, value any) error {
	return NewValidationError(field, fmt.Sprintf("invalid value: %v", value))
}
