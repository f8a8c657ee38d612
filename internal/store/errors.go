package store

import (
	"errors"
	"fmt"
	"strings"
)

// User-facing messages set on State.Error
const (
	MsgEmptyQuery    = "Будь ласка, введіть назву міста"
	MsgDuplicateCity = "Це місто вже додано"
	MsgAddFailed     = "Не вдалося отримати погоду для цього міста"
	MsgRefreshFailed = "Не вдалося оновити погоду"

	// MsgForecastFailed is shown when a forecast cannot be loaded
	MsgForecastFailed = "Не вдалося завантажити прогноз"

	msgRehydratePart = "Не вдалося оновити: "
)

// ErrCityNotFound is returned by lookups of ids that are not in the collection
var ErrCityNotFound = errors.New("city not found")

// ValidationError is a locally rejected input; it never reaches the gateway
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// UserMessage returns the text shown to the user
func (e *ValidationError) UserMessage() string {
	return e.Message
}

type userMessenger interface {
	UserMessage() string
}

// ErrorMessage extracts the user-facing text from err. Errors that carry no
// message of their own (transport failures, timeouts) map to fallback.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var um userMessenger
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}

func rehydrateMessage(failed []string) string {
	return msgRehydratePart + strings.Join(failed, ", ")
}
