package tui

import (
	"time"

	"github.com/wthr-dev/wthr/internal/models"
)

// storeChangedMsg is sent whenever the store reports a state change.
type storeChangedMsg struct{}

// initDoneMsg is sent once rehydration has settled.
type initDoneMsg struct{}

// addResultMsg carries the outcome of an add; the store already holds the state.
type addResultMsg struct {
	query  string
	cityID int64
	err    error
}

// refreshResultMsg carries the outcome of a single-city refresh.
type refreshResultMsg struct {
	cityID int64
	err    error
}

// debounceTickMsg fires after the debounce window; seq is used for stale-tick detection.
type debounceTickMsg struct {
	seq int
}

// suggestResultMsg carries autocomplete suggestions back to the model.
// seq is used for stale-result detection.
type suggestResultMsg struct {
	seq         int
	suggestions []models.CitySuggestion
	err         error
}

// forecastResultMsg carries forecast points for a specific city.
type forecastResultMsg struct {
	cityID int64
	points []models.ForecastPoint
	err    error
}

// autoRefreshTickMsg is sent every refresh interval.
type autoRefreshTickMsg time.Time
