package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wthr-dev/wthr/internal/models"
	"github.com/wthr-dev/wthr/internal/store"
)

const (
	defaultDebounce        = 300 * time.Millisecond
	defaultRefreshInterval = 10 * time.Minute
)

type focusPanel int

const (
	focusSearch focusPanel = iota
	focusSuggestions
	focusCities
)

// Model is the root Bubble Tea model for the dashboard.
type Model struct {
	store       *store.Store
	changes     <-chan struct{}
	unsubscribe func()

	width  int
	height int

	debounce        time.Duration
	refreshInterval time.Duration

	searchInput textinput.Model
	spinner     spinner.Model
	focus       focusPanel

	// Last store snapshot; the store is the source of truth
	state store.State

	// Autocomplete
	suggestions      []models.CitySuggestion
	suggestionCursor int
	suggestLoading   bool
	suggestSeq       int

	// Left panel - cities
	cityCursor int

	// Right panel - forecast for the selected city
	forecastCityID  int64
	forecast        []models.ForecastPoint
	forecastLoading bool
	forecastErr     error

	lastUpdate time.Time
}

// Option configures the Model
type Option func(*Model)

// WithDebounce sets the autocomplete debounce window
func WithDebounce(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.debounce = d
		}
	}
}

// WithRefreshInterval sets the auto-refresh period; zero disables it
func WithRefreshInterval(d time.Duration) Option {
	return func(m *Model) {
		m.refreshInterval = d
	}
}

// New creates a new TUI model bound to s. Call Close when the program exits.
func New(s *store.Store, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Введіть назву міста..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleLoading

	changes, unsubscribe := s.Subscribe()

	m := Model{
		store:           s,
		changes:         changes,
		unsubscribe:     unsubscribe,
		debounce:        defaultDebounce,
		refreshInterval: defaultRefreshInterval,
		searchInput:     ti,
		spinner:         sp,
		focus:           focusSearch,
		state:           s.Snapshot(),
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// Close cancels the store subscription.
func (m Model) Close() {
	m.unsubscribe()
}

// Init starts rehydration, change listening, the cursor blink and auto-refresh.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		m.spinner.Tick,
		initializeStore(m.store),
		waitForChange(m.changes),
	}
	if m.refreshInterval > 0 {
		cmds = append(cmds, autoRefreshTick(m.refreshInterval))
	}
	return tea.Batch(cmds...)
}

// selectedCity returns the city under the cursor.
func (m Model) selectedCity() (models.City, bool) {
	if m.cityCursor < 0 || m.cityCursor >= len(m.state.Cities) {
		return models.City{}, false
	}
	return m.state.Cities[m.cityCursor], true
}

// busy reports whether any store operation is in flight.
func (m Model) busy() bool {
	return m.state.IsLoading || len(m.state.Refreshing) > 0
}
