package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wthr-dev/wthr/internal/models"
)

func chartPoints(temps ...float64) []models.ForecastPoint {
	points := make([]models.ForecastPoint, len(temps))
	for i, temp := range temps {
		points[i] = models.ForecastPoint{Timestamp: 1718010000 + int64(i)*10800, Temperature: temp}
	}
	return points
}

func TestRenderChart_BarHeights(t *testing.T) {
	out := renderChart(chartPoints(0, 5, 10), 0, 18, 7)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 7)

	// top bar row holds only the warmest column, bottom row holds all of them
	assert.Equal(t, 1, strings.Count(lines[0], "████"))
	assert.Equal(t, 3, strings.Count(lines[4], "████"))
	assert.Contains(t, lines[5], "10°C")
	assert.Contains(t, lines[6], "09:00")
}

func TestRenderChart_TimezoneOffset(t *testing.T) {
	out := renderChart(chartPoints(1, 2), 10800, 20, 4)
	assert.Contains(t, out, "12:00")
}

func TestRenderChart_TruncatesToWidth(t *testing.T) {
	out := renderChart(chartPoints(1, 2, 3, 4, 5), 0, 12, 4)

	lines := strings.Split(out, "\n")
	assert.Equal(t, 2, strings.Count(lines[len(lines)-3], "████"))
}

func TestRenderChart_TooSmall(t *testing.T) {
	assert.Empty(t, renderChart(nil, 0, 40, 10))
	assert.Empty(t, renderChart(chartPoints(1), 0, 3, 10))
	assert.Empty(t, renderChart(chartPoints(1), 0, 40, 2))
}

func TestCenter(t *testing.T) {
	assert.Equal(t, "  ab  ", center("ab", 6))
	assert.Equal(t, "abcdef", center("abcdef", 3))
}

func TestPadLeft(t *testing.T) {
	assert.Equal(t, "   °C", padLeft("°C", 5))
	assert.Equal(t, "long", padLeft("long", 2))
}
