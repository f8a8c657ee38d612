package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wthr-dev/wthr/internal/models"
)

const minColumnWidth = 6

// renderChart renders forecast points as vertical bars scaled between the
// lowest and highest temperature, with a temperature row and a time row
// underneath. tzOffset is the city's UTC offset in seconds.
func renderChart(points []models.ForecastPoint, tzOffset, width, height int) string {
	if len(points) > models.MaxForecastPoints {
		points = points[:models.MaxForecastPoints]
	}
	if len(points) == 0 || width < minColumnWidth || height < 3 {
		return ""
	}

	colWidth := width / len(points)
	if colWidth < minColumnWidth {
		colWidth = minColumnWidth
	}
	if fit := width / colWidth; fit < len(points) {
		points = points[:fit]
	}

	barRows := height - 2
	minTemp, maxTemp := models.TemperatureRange(points)

	heights := make([]int, len(points))
	for i, p := range points {
		ratio := (p.Temperature - minTemp) / (maxTemp - minTemp)
		heights[i] = 1 + int(math.Round(ratio*float64(barRows-1)))
	}

	barWidth := colWidth - 2
	lines := make([]string, 0, height)
	for row := barRows; row >= 1; row-- {
		var b strings.Builder
		for i, p := range points {
			cell := strings.Repeat(" ", barWidth)
			if heights[i] >= row {
				cell = tempStyle(p.Temperature).Render(strings.Repeat("█", barWidth))
			}
			b.WriteString(" " + cell + " ")
		}
		lines = append(lines, b.String())
	}

	var temps, times strings.Builder
	for _, p := range points {
		temps.WriteString(center(models.FormatTemperature(p.Temperature), colWidth))
		times.WriteString(styleMuted.Render(center(models.FormatTime(p.Timestamp, tzOffset), colWidth)))
	}
	lines = append(lines, temps.String(), times.String())

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// center pads s with spaces to width, centered by rune count
func center(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

// padLeft right-aligns s in width cells
func padLeft(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}
