package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wthr-dev/wthr/internal/models"
	"github.com/wthr-dev/wthr/internal/store"
)

// View renders the entire TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Layout: header + search bar + suggestions + panels + status bar
	header := renderHeader()
	searchBar := m.renderSearchBar()
	suggestions := m.renderSuggestions()
	statusBar := m.renderStatusBar()

	used := lipgloss.Height(header) + lipgloss.Height(searchBar) + lipgloss.Height(statusBar)
	if suggestions != "" {
		used += lipgloss.Height(suggestions)
	}
	panelHeight := m.height - used
	if panelHeight < 3 {
		panelHeight = 3
	}

	// Panel widths: ~35% left, ~65% right
	leftWidth := m.width*35/100 - 2 // subtract border
	rightWidth := m.width - leftWidth - 4
	if leftWidth < 20 {
		leftWidth = 20
	}
	if rightWidth < 20 {
		rightWidth = 20
	}

	leftPanel := m.renderCityList(leftWidth, panelHeight-2)
	rightPanel := m.renderDetails(rightWidth, panelHeight-2)

	leftBorder := stylePanelNormal
	if m.focus == focusCities {
		leftBorder = stylePanelFocused
	}
	leftPanel = leftBorder.
		Width(leftWidth).
		Height(panelHeight - 2).
		Render(leftPanel)

	rightPanel = stylePanelNormal.
		Width(rightWidth).
		Height(panelHeight - 2).
		Render(rightPanel)

	panels := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)

	parts := []string{header, searchBar}
	if suggestions != "" {
		parts = append(parts, suggestions)
	}
	parts = append(parts, panels, statusBar)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHeader renders the brand line.
func renderHeader() string {
	logo := "" +
		"   \\  |  /   \n" +
		" -- (   ) -- \n" +
		"   /  |  \\   "

	title := "" +
		"            _   _         \n" +
		" __ __ __ _| |_| |_  _ _  \n" +
		" \\ V  V /  _|  _| ' \\| '_|\n" +
		"  \\_/\\_/ \\__|\\__|_||_|_|  "

	return lipgloss.JoinHorizontal(lipgloss.Bottom, styleLogo.Render(logo), "  ", styleLogo.Render(title))
}

// renderSearchBar renders the city input at the top.
func (m Model) renderSearchBar() string {
	border := stylePanelNormal
	if m.focus == focusSearch {
		border = stylePanelFocused
	}

	label := styleHeader.Render("Місто: ")
	content := label + m.searchInput.View()
	if m.state.IsLoading {
		content += "  " + m.spinner.View() + styleLoading.Render(" Завантаження...")
	} else if m.suggestLoading {
		content += "  " + m.spinner.View()
	}

	return border.Width(m.width - 2).Render(content)
}

// renderSuggestions renders the autocomplete dropdown, or "" when empty.
func (m Model) renderSuggestions() string {
	if len(m.suggestions) == 0 {
		return ""
	}

	var b strings.Builder
	for i, s := range m.suggestions {
		label := truncate(s.Label, m.width-8)
		if m.focus == focusSuggestions && i == m.suggestionCursor {
			b.WriteString(styleSelected.Render(" > " + label))
		} else {
			b.WriteString("   " + label)
		}
		if i < len(m.suggestions)-1 {
			b.WriteString("\n")
		}
	}

	border := stylePanelNormal
	if m.focus == focusSuggestions {
		border = stylePanelFocused
	}
	return border.Width(m.width - 2).Render(b.String())
}

// renderCityList renders the left city panel.
func (m Model) renderCityList(width, height int) string {
	title := styleHeader.Render("МІСТА")

	if !m.state.IsInitialized && m.state.IsLoading {
		return title + "\n" + m.spinner.View() + styleLoading.Render(" Оновлення збережених міст...")
	}
	if len(m.state.Cities) == 0 {
		return title + "\n" + styleMuted.Render(" Додайте місто, щоб побачити погоду")
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	maxVisible := height - 2
	if maxVisible < 1 {
		maxVisible = 1
	}
	start, end := visibleRange(m.cityCursor, len(m.state.Cities), maxVisible)

	for i := start; i < end; i++ {
		city := m.state.Cities[i]
		b.WriteString(m.renderCityLine(city, width, i == m.cityCursor))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderCityLine renders a single city entry.
func (m Model) renderCityLine(city models.City, width int, selected bool) string {
	marker := " "
	if m.state.Refreshing[city.ID] {
		marker = m.spinner.View()
	}

	// cursor + marker + name + temp
	nameWidth := width - 4 - 6
	name := truncate(city.Name+", "+city.Country, nameWidth)
	name += strings.Repeat(" ", max(0, nameWidth-lipgloss.Width(name)))

	if selected {
		return styleSelected.Render(">") + marker + " " + styleSelected.Render(name) + formatTemp(city.Main.Temp)
	}
	return " " + marker + " " + name + formatTemp(city.Main.Temp)
}

// renderDetails renders current conditions and the forecast chart for the
// selected city.
func (m Model) renderDetails(width, height int) string {
	city, ok := m.selectedCity()
	if !ok {
		return styleHeader.Render("ПОГОДА") + "\n" + styleMuted.Render(" Оберіть місто зі списку")
	}

	var b strings.Builder
	b.WriteString(styleName.Render(city.Name) + " " + styleMuted.Render(city.Country))
	if m.state.Refreshing[city.ID] {
		b.WriteString("  " + m.spinner.View() + styleLoading.Render(" оновлення"))
	}
	b.WriteString("\n")

	primary := city.Primary()
	b.WriteString(formatTemp(city.Main.Temp) + "  " + styleCondition.Render(primary.Description) + "\n\n")

	rows := [][2]string{
		{"Відчувається як", models.FormatTemperature(city.Main.FeelsLike)},
		{"Мін / макс", models.FormatTemperature(city.Main.TempMin) + " / " + models.FormatTemperature(city.Main.TempMax)},
		{"Вологість", fmt.Sprintf("%d%%", city.Main.Humidity)},
		{"Тиск", fmt.Sprintf("%d гПа", city.Main.Pressure)},
		{"Вітер", models.FormatWind(city.Wind.Speed)},
		{"Хмарність", fmt.Sprintf("%d%%", city.Clouds)},
		{"Видимість", models.FormatVisibility(city.Visibility)},
		{"Схід / захід", models.FormatTime(city.Sunrise, city.Timezone) + " / " + models.FormatTime(city.Sunset, city.Timezone)},
	}
	for _, row := range rows {
		b.WriteString(styleMuted.Render(fmt.Sprintf(" %-16s", row[0]+":")) + row[1] + "\n")
	}
	if !city.UpdatedAt.IsZero() {
		b.WriteString(styleMuted.Render(" Оновлено " + city.UpdatedAt.Local().Format("15:04:05")) + "\n")
	}

	b.WriteString("\n" + styleHeader.Render("ПРОГНОЗ") + "\n")

	chartHeight := height - len(rows) - 7
	switch {
	case m.forecastLoading:
		b.WriteString(m.spinner.View() + styleLoading.Render(" Завантаження прогнозу..."))
	case m.forecastErr != nil:
		b.WriteString(styleError.Render(" " + store.MsgForecastFailed))
	case len(m.forecast) == 0:
		b.WriteString(styleMuted.Render(" Немає даних прогнозу"))
	default:
		b.WriteString(renderChart(m.forecast, city.Timezone, width-2, chartHeight))
	}

	return b.String()
}

// renderStatusBar renders the store error, or context-aware keyboard hints.
func (m Model) renderStatusBar() string {
	if m.state.Error != "" {
		return styleStatusBar.Width(m.width).Render(" " + styleError.Render("! "+m.state.Error) + styleMuted.Render("  Esc:закрити"))
	}

	var hints string
	switch m.focus {
	case focusSearch:
		hints = "Enter:add  ↓:suggestions  Tab:cities  Esc:clear  Ctrl+C:quit"
	case focusSuggestions:
		hints = "j/k:navigate  Enter:add  Esc:search  Tab:cities  Ctrl+C:quit"
	case focusCities:
		hints = "j/k:navigate  Enter:forecast  r:refresh  R:refresh all  d:remove  Tab:search  q:quit"
	}
	if !m.lastUpdate.IsZero() {
		hints += "  Updated " + m.lastUpdate.Format("15:04")
	}

	prefix := " "
	if m.busy() {
		prefix = m.spinner.View() + " "
	}
	return styleStatusBar.Width(m.width).Render(prefix + hints)
}

// visibleRange calculates the start and end indices for a scrollable list.
func visibleRange(cursor, total, maxVisible int) (int, int) {
	if total <= maxVisible {
		return 0, total
	}

	start := cursor - maxVisible/2
	if start < 0 {
		start = 0
	}
	end := start + maxVisible
	if end > total {
		end = total
		start = end - maxVisible
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

// truncate truncates a string to the given display width.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "~"
}
