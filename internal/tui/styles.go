package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wthr-dev/wthr/internal/models"
)

// Colors matching existing output/colors.go scheme
var (
	colorCyan    = lipgloss.Color("6")  // Cyan - cold, focus
	colorYellow  = lipgloss.Color("3")  // Yellow - warm, loading
	colorRed     = lipgloss.Color("1")  // Red - hot, errors
	colorGreen   = lipgloss.Color("2")  // Green - mild
	colorMagenta = lipgloss.Color("5")  // Magenta - conditions
	colorWhite   = lipgloss.Color("15") // White - names, text
	colorGray    = lipgloss.Color("8")  // Gray - muted text
)

// Text styles
var (
	styleName      = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	styleCondition = lipgloss.NewStyle().Foreground(colorMagenta)
	styleCold      = lipgloss.NewStyle().Foreground(colorCyan)
	styleMild      = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarm      = lipgloss.NewStyle().Foreground(colorYellow)
	styleHot       = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleMuted     = lipgloss.NewStyle().Foreground(colorGray)
	styleHeader    = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
)

// Panel border styles
var (
	stylePanelFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorCyan)

	stylePanelNormal = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorGray)
)

// Selected item in a list
var styleSelected = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)

// Status bar at the bottom
var styleStatusBar = lipgloss.NewStyle().
	Foreground(colorGray).
	Background(lipgloss.Color("0"))

// Loading indicator
var styleLoading = lipgloss.NewStyle().Foreground(colorYellow).Italic(true)

// Error text
var styleError = lipgloss.NewStyle().Foreground(colorRed)

// Logo/brand style
var styleLogo = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)

// tempStyle picks the style for a temperature band
func tempStyle(temp float64) lipgloss.Style {
	switch {
	case temp <= 0:
		return styleCold
	case temp >= 30:
		return styleHot
	case temp >= 20:
		return styleWarm
	default:
		return styleMild
	}
}

// formatTemp returns a styled temperature (5-char width)
func formatTemp(temp float64) string {
	return tempStyle(temp).Render(padLeft(models.FormatTemperature(temp), 5))
}
