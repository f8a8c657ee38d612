package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wthr-dev/wthr/internal/api"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", &ValidationError{Field: "query", Message: MsgDuplicateCity}, MsgDuplicateCity},
		{"api message", api.NewAPIErrorWithMessage(404, "/weather", "city not found"), "city not found"},
		{"wrapped api message", fmt.Errorf("add: %w", api.NewAPIErrorWithMessage(401, "/weather", "Invalid API key")), "Invalid API key"},
		{"api without message", api.NewAPIError(500, "Internal Server Error", "/weather"), api.DefaultErrorMessage},
		{"missing api key", api.ErrMissingAPIKey, api.ErrMissingAPIKey.Error()},
		{"opaque", errors.New("connection reset"), "fallback"},
		{"context", context.Canceled, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err, "fallback"))
		})
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "query", Message: MsgEmptyQuery}
	assert.Equal(t, "validation error: query - "+MsgEmptyQuery, err.Error())
	assert.Equal(t, MsgEmptyQuery, err.UserMessage())
}

func TestRehydrateMessage(t *testing.T) {
	assert.Equal(t, "Не вдалося оновити: Lviv", rehydrateMessage([]string{"Lviv"}))
	assert.Equal(t, "Не вдалося оновити: Lviv, Odesa", rehydrateMessage([]string{"Lviv", "Odesa"}))
}
