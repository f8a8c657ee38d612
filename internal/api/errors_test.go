package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *APIError
		wantStr string
	}{
		{
			name: "with message",
			err: &APIError{
				StatusCode: 404,
				Endpoint:   "/weather",
				Message:    "city not found",
			},
			wantStr: "API error 404 (/weather): city not found",
		},
		{
			name: "without message",
			err: &APIError{
				StatusCode: 500,
				Status:     "Internal Server Error",
				Endpoint:   "/forecast",
			},
			wantStr: "API error 500: Internal Server Error (endpoint: /forecast)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStr, tt.err.Error())
		})
	}
}

func TestAPIError_UserMessage(t *testing.T) {
	assert.Equal(t, "city not found", NewAPIErrorWithMessage(404, "/weather", "city not found").UserMessage())
	assert.Equal(t, DefaultErrorMessage, NewAPIError(502, "Bad Gateway", "/weather").UserMessage())
}

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		name      string
		err       *APIError
		target    error
		wantMatch bool
	}{
		{"404 matches ErrNotFound", &APIError{StatusCode: 404}, ErrNotFound, true},
		{"500 matches ErrServerError", &APIError{StatusCode: 500}, ErrServerError, true},
		{"503 matches ErrServerError", &APIError{StatusCode: 503}, ErrServerError, true},
		{"400 matches ErrInvalidRequest", &APIError{StatusCode: 400}, ErrInvalidRequest, true},
		{"401 matches ErrUnauthorized", &APIError{StatusCode: 401}, ErrUnauthorized, true},
		{"404 does not match ErrServerError", &APIError{StatusCode: 404}, ErrServerError, false},
		{"200 does not match ErrNotFound", &APIError{StatusCode: 200}, ErrNotFound, false},
		{"unknown target", &APIError{StatusCode: 404}, ErrTimeout, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMatch, errors.Is(tt.err, tt.target))
		})
	}
}

func TestAPIError_IsWrapped(t *testing.T) {
	err := fmt.Errorf("refresh: %w", NewAPIError(404, "Not Found", "/weather"))

	assert.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("query", "field is required")
	assert.Equal(t, "validation error: query - field is required", err.Error())
}

func TestErrMissingField(t *testing.T) {
	err := ErrMissingField("query")

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "query", ve.Field)
	assert.Equal(t, "field is required", ve.Message)
}

func TestErrInvalidValue(t *testing.T) {
	err := ErrInvalidValue("id", int64(-1))

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "id", ve.Field)
	assert.Equal(t, "invalid value: -1", ve.Message)
}
