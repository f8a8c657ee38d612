package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wthr-dev/wthr/internal/models"
)

func sampleCities() []models.City {
	return []models.City{
		{
			ID: 703448, Name: "Kyiv", Country: "UA",
			Conditions: []models.Condition{{Main: "Clouds", Description: "хмарно"}},
			Main:       models.Measurements{Temp: 12.4, FeelsLike: 11.2, Humidity: 71, Pressure: 1015},
			Wind:       models.Wind{Speed: 4.2},
			Timezone:   10800,
			UpdatedAt:  time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC),
		},
		{ID: 702550, Name: "Lviv", Country: "UA", Main: models.Measurements{Temp: -3}},
	}
}

func sizedModel(t *testing.T) Model {
	t.Helper()
	m, _ := newTestModel(t)
	m.width = 100
	m.height = 50
	return m
}

func TestModel_View_NoSize(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, "Loading...", m.View())
}

func TestModel_View_Empty(t *testing.T) {
	m := sizedModel(t)
	m.state.IsInitialized = true

	output := m.View()
	assert.Contains(t, output, "МІСТА")
	assert.Contains(t, output, "Додайте місто")
	assert.Contains(t, output, "Оберіть місто")
}

func TestModel_View_Initializing(t *testing.T) {
	m := sizedModel(t)
	m.state.IsLoading = true

	assert.Contains(t, m.View(), "Оновлення збережених міст")
}

func TestModel_View_WithCities(t *testing.T) {
	m := sizedModel(t)
	m.state.IsInitialized = true
	m.state.Cities = sampleCities()

	output := m.View()
	assert.Contains(t, output, "Kyiv, UA")
	assert.Contains(t, output, "Lviv, UA")
	assert.Contains(t, output, "хмарно")
	assert.Contains(t, output, "71%")
	assert.Contains(t, output, "ПРОГНОЗ")
}

func TestModel_View_WithForecast(t *testing.T) {
	m := sizedModel(t)
	m.state.Cities = sampleCities()
	m.forecastCityID = 703448
	m.forecast = []models.ForecastPoint{
		{Timestamp: 1718010000, Temperature: 10},
		{Timestamp: 1718020800, Temperature: 14},
	}

	output := m.View()
	assert.Contains(t, output, "█")
	assert.Contains(t, output, "12:00")
}

func TestRenderDetails_ForecastStates(t *testing.T) {
	m := sizedModel(t)
	m.state.Cities = sampleCities()

	m.forecastLoading = true
	assert.Contains(t, m.renderDetails(60, 30), "Завантаження прогнозу")

	m.forecastLoading = false
	m.forecastErr = assert.AnError
	assert.Contains(t, m.renderDetails(60, 30), "Не вдалося завантажити прогноз")

	m.forecastErr = nil
	assert.Contains(t, m.renderDetails(60, 30), "Немає даних прогнозу")
}

func TestRenderDetails_Refreshing(t *testing.T) {
	m := sizedModel(t)
	m.state.Cities = sampleCities()
	m.state.Refreshing = map[int64]bool{703448: true}

	assert.Contains(t, m.renderDetails(60, 30), "оновлення")
}

func TestRenderSuggestions(t *testing.T) {
	m := sizedModel(t)
	assert.Empty(t, m.renderSuggestions())

	m.suggestions = []models.CitySuggestion{
		{Label: "Київ, Kyiv City, UA"},
		{Label: "Kyiv, Minnesota, US"},
	}
	m.focus = focusSuggestions
	m.suggestionCursor = 1

	output := m.renderSuggestions()
	assert.Contains(t, output, "Київ, Kyiv City, UA")
	assert.Contains(t, output, "> Kyiv, Minnesota, US")
}

func TestRenderStatusBar(t *testing.T) {
	m := sizedModel(t)

	for _, panel := range []focusPanel{focusSearch, focusSuggestions, focusCities} {
		m.focus = panel
		assert.NotEmpty(t, m.renderStatusBar())
	}

	m.focus = focusCities
	assert.Contains(t, m.renderStatusBar(), "r:refresh")
}

func TestRenderStatusBar_Error(t *testing.T) {
	m := sizedModel(t)
	m.state.Error = "Це місто вже додано"

	output := m.renderStatusBar()
	assert.Contains(t, output, "! Це місто вже додано")
	assert.Contains(t, output, "Esc")
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		name                   string
		cursor, total, visible int
		wantStart, wantEnd     int
	}{
		{"fits", 2, 5, 10, 0, 5},
		{"top", 0, 20, 5, 0, 5},
		{"middle", 10, 20, 5, 8, 13},
		{"bottom", 19, 20, 5, 15, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := visibleRange(tt.cursor, tt.total, tt.visible)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", truncate("Kyiv", 0))
	assert.Equal(t, "Kyiv", truncate("Kyiv", 4))
	assert.Equal(t, "Льв", truncate("Львів", 3))
	assert.Equal(t, "Дніпр~", truncate("Дніпропетровськ", 6))
	assert.True(t, strings.HasSuffix(truncate("Zaporizhzhia", 8), "~"))
}
