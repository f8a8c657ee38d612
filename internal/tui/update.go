package tui

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const minSuggestRunes = 2

// Update handles all messages and key events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case storeChangedMsg:
		var cmd tea.Cmd
		m, cmd = m.syncState()
		return m, tea.Batch(cmd, waitForChange(m.changes))

	case initDoneMsg:
		m.lastUpdate = time.Now()
		return m.syncState()

	case addResultMsg:
		return m.handleAddResult(msg)

	case refreshResultMsg:
		return m.handleRefreshResult(msg)

	case debounceTickMsg:
		return m.handleDebounceTick(msg)

	case suggestResultMsg:
		return m.handleSuggestResult(msg)

	case forecastResultMsg:
		return m.handleForecastResult(msg)

	case autoRefreshTickMsg:
		return m.handleAutoRefreshTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Pass remaining messages to textinput when focused
	if m.focus == focusSearch {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

// syncState takes a fresh snapshot and keeps the cursor and forecast in step
// with the city list.
func (m Model) syncState() (Model, tea.Cmd) {
	m.state = m.store.Snapshot()

	if m.cityCursor >= len(m.state.Cities) {
		m.cityCursor = len(m.state.Cities) - 1
	}
	if m.cityCursor < 0 {
		m.cityCursor = 0
	}

	return m.ensureForecast()
}

// ensureForecast fetches the forecast when the selected city changed.
func (m Model) ensureForecast() (Model, tea.Cmd) {
	city, ok := m.selectedCity()
	if !ok {
		m.forecastCityID = 0
		m.forecast = nil
		m.forecastErr = nil
		m.forecastLoading = false
		return m, nil
	}
	if city.ID == m.forecastCityID {
		return m, nil
	}
	return m.loadForecast(city.ID)
}

func (m Model) loadForecast(id int64) (Model, tea.Cmd) {
	m.forecastCityID = id
	m.forecast = nil
	m.forecastErr = nil
	m.forecastLoading = true
	return m, fetchForecast(m.store, id)
}

func (m Model) handleAddResult(msg addResultMsg) (tea.Model, tea.Cmd) {
	m.state = m.store.Snapshot()
	if msg.err != nil {
		return m, nil
	}

	m.searchInput.SetValue("")
	m.suggestions = nil
	m.suggestionCursor = 0
	m.suggestSeq++
	m.suggestLoading = false
	if m.focus == focusSuggestions {
		m.focus = focusSearch
		m.searchInput.Focus()
	}

	// Select the added city; it replaced an existing entry when the id was already present
	for i, c := range m.state.Cities {
		if c.ID == msg.cityID {
			m.cityCursor = i
			break
		}
	}
	m.lastUpdate = time.Now()
	return m.ensureForecast()
}

func (m Model) handleRefreshResult(msg refreshResultMsg) (tea.Model, tea.Cmd) {
	m.state = m.store.Snapshot()
	if msg.err != nil {
		return m, nil
	}
	m.lastUpdate = time.Now()

	if city, ok := m.selectedCity(); ok && city.ID == msg.cityID {
		return m.loadForecast(city.ID)
	}
	return m, nil
}

func (m Model) handleDebounceTick(msg debounceTickMsg) (tea.Model, tea.Cmd) {
	// Ignore ticks superseded by a later keystroke
	if msg.seq != m.suggestSeq {
		return m, nil
	}

	query := strings.TrimSpace(m.searchInput.Value())
	if utf8.RuneCountInString(query) < minSuggestRunes {
		m.suggestions = nil
		m.suggestLoading = false
		return m, nil
	}

	m.suggestLoading = true
	return m, fetchSuggestions(m.store, query, msg.seq)
}

func (m Model) handleSuggestResult(msg suggestResultMsg) (tea.Model, tea.Cmd) {
	// Ignore stale results
	if msg.seq != m.suggestSeq {
		return m, nil
	}
	m.suggestLoading = false
	m.suggestionCursor = 0

	// Suggestion failures are not worth interrupting typing for
	if msg.err != nil {
		m.suggestions = nil
		return m, nil
	}
	m.suggestions = msg.suggestions
	return m, nil
}

func (m Model) handleForecastResult(msg forecastResultMsg) (tea.Model, tea.Cmd) {
	// Ignore if selection changed
	if msg.cityID != m.forecastCityID {
		return m, nil
	}
	m.forecastLoading = false
	m.forecastErr = msg.err
	if msg.err == nil {
		m.forecast = msg.points
	}
	return m, nil
}

func (m Model) handleAutoRefreshTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{autoRefreshTick(m.refreshInterval)}

	// Keep existing data visible until new data arrives
	if ids := m.cityIDs(); len(ids) > 0 {
		cmds = append(cmds, refreshAll(m.store, ids))
	}

	return m, tea.Batch(cmds...)
}

func (m Model) cityIDs() []int64 {
	ids := make([]int64, 0, len(m.state.Cities))
	for _, c := range m.state.Cities {
		ids = append(ids, c.ID)
	}
	return ids
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	}

	switch m.focus {
	case focusSearch:
		return m.handleSearchKeys(msg)
	case focusSuggestions:
		return m.handleSuggestionKeys(msg)
	case focusCities:
		return m.handleCityKeys(msg)
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.state.IsLoading {
			return m, nil
		}
		// Empty input goes to the store as well so the user sees why nothing happened
		return m, addCity(m.store, m.searchInput.Value())

	case "down":
		if len(m.suggestions) > 0 {
			m.focus = focusSuggestions
			m.suggestionCursor = 0
			m.searchInput.Blur()
		}
		return m, nil

	case "esc":
		if m.state.Error != "" {
			m.store.ClearError()
			m.state = m.store.Snapshot()
			return m, nil
		}
		m.searchInput.SetValue("")
		m.suggestions = nil
		m.suggestSeq++
		return m, nil

	case "tab", "shift+tab":
		m.focus = focusCities
		m.searchInput.Blur()
		return m, nil
	}

	// Forward to textinput and debounce a suggestion request when the text changed
	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() == before {
		return m, cmd
	}

	m.suggestSeq++
	return m, tea.Batch(cmd, debounce(m.debounce, m.suggestSeq))
}

func (m Model) handleSuggestionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Defensive clamp at start of handler
	if m.suggestionCursor >= len(m.suggestions) {
		m.suggestionCursor = len(m.suggestions) - 1
	}
	if m.suggestionCursor < 0 {
		m.suggestionCursor = 0
	}

	switch msg.String() {
	case "j", "down":
		if m.suggestionCursor < len(m.suggestions)-1 {
			m.suggestionCursor++
		}
		return m, nil

	case "k", "up":
		if m.suggestionCursor > 0 {
			m.suggestionCursor--
			return m, nil
		}
		m.focus = focusSearch
		m.searchInput.Focus()
		return m, nil

	case "esc":
		m.focus = focusSearch
		m.searchInput.Focus()
		return m, nil

	case "tab":
		m.focus = focusCities
		return m, nil

	case "enter":
		if len(m.suggestions) == 0 || m.state.IsLoading {
			return m, nil
		}
		query := m.suggestions[m.suggestionCursor].Query
		m.searchInput.SetValue(query)
		return m, addCity(m.store, query)
	}

	return m, nil
}

func (m Model) handleCityKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Defensive clamp at start of handler
	if len(m.state.Cities) > 0 {
		if m.cityCursor < 0 {
			m.cityCursor = 0
		}
		if m.cityCursor >= len(m.state.Cities) {
			m.cityCursor = len(m.state.Cities) - 1
		}
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "tab", "shift+tab", "/":
		m.focus = focusSearch
		m.searchInput.Focus()
		return m, nil

	case "esc":
		if m.state.Error != "" {
			m.store.ClearError()
			m.state = m.store.Snapshot()
		}
		return m, nil

	case "j", "down":
		if m.cityCursor < len(m.state.Cities)-1 {
			m.cityCursor++
		}
		return m.ensureForecast()

	case "k", "up":
		if m.cityCursor > 0 {
			m.cityCursor--
		}
		return m.ensureForecast()

	case "home":
		m.cityCursor = 0
		return m.ensureForecast()

	case "end":
		if len(m.state.Cities) > 0 {
			m.cityCursor = len(m.state.Cities) - 1
		}
		return m.ensureForecast()

	case "r":
		city, ok := m.selectedCity()
		if !ok || m.state.Refreshing[city.ID] {
			return m, nil
		}
		return m, refreshCity(m.store, city.ID)

	case "R":
		return m, refreshAll(m.store, m.cityIDs())

	case "d", "x", "delete":
		city, ok := m.selectedCity()
		if !ok {
			return m, nil
		}
		m.store.RemoveCity(city.ID)
		return m.syncState()

	case "enter":
		if city, ok := m.selectedCity(); ok {
			return m.loadForecast(city.ID)
		}
	}

	return m, nil
}
