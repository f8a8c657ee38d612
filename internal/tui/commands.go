package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wthr-dev/wthr/internal/store"
)

const (
	apiTimeout  = 15 * time.Second
	initTimeout = 30 * time.Second
)

// waitForChange returns a tea.Cmd that blocks until the store changes.
// It yields nil once the subscription is closed.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// initializeStore returns a tea.Cmd that rehydrates the persisted cities.
func initializeStore(s *store.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
		defer cancel()

		s.Initialize(ctx)
		return initDoneMsg{}
	}
}

// addCity returns a tea.Cmd that adds a city by free-text query.
func addCity(s *store.Store, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		city, err := s.AddCity(ctx, query)
		return addResultMsg{query: query, cityID: city.ID, err: err}
	}
}

// refreshCity returns a tea.Cmd that refreshes one city.
func refreshCity(s *store.Store, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		return refreshResultMsg{cityID: id, err: s.RefreshCity(ctx, id)}
	}
}

// refreshAll returns a tea.Cmd that refreshes every city concurrently.
func refreshAll(s *store.Store, ids []int64) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, refreshCity(s, id))
	}
	return tea.Batch(cmds...)
}

// debounce returns a tea.Cmd that fires after d, tagged with seq.
func debounce(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return debounceTickMsg{seq: seq}
	})
}

// fetchSuggestions returns a tea.Cmd that fetches autocomplete suggestions.
func fetchSuggestions(s *store.Store, query string, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		suggestions, err := s.Suggest(ctx, query)
		return suggestResultMsg{seq: seq, suggestions: suggestions, err: err}
	}
}

// fetchForecast returns a tea.Cmd that fetches the forecast for a city.
func fetchForecast(s *store.Store, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		points, err := s.Forecast(ctx, id)
		return forecastResultMsg{cityID: id, points: points, err: err}
	}
}

// autoRefreshTick returns a tea.Cmd that sends a tick after the refresh interval.
func autoRefreshTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return autoRefreshTickMsg(t)
	})
}
