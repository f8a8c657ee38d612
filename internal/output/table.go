package output

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/wthr-dev/wthr/internal/models"
)

// TableOptions configures the table output
type TableOptions struct {
	Colors      *Colors
	ShowDetails bool
	// Refreshing marks cities with an in-flight refresh
	Refreshing map[int64]bool
}

const (
	nameWidth = 18
	chartBars = 20
)

func colorsOrDefault(c *Colors) *Colors {
	if c == nil {
		return NewColors(ColorNever)
	}
	return c
}

// RenderCities renders the city collection as a formatted table
func RenderCities(w io.Writer, cities []models.City, opts TableOptions) {
	if len(cities) == 0 {
		_, _ = fmt.Fprintln(w, "No cities added yet. Use: wthr add <city>")
		return
	}

	c := colorsOrDefault(opts.Colors)

	for _, city := range cities {
		name := city.Name
		if len([]rune(name)) > nameWidth {
			name = string([]rune(name)[:nameWidth])
		}

		marker := " "
		if opts.Refreshing[city.ID] {
			marker = "↻"
		}

		// ID  NAME  CC  TEMP  CONDITION
		_, _ = fmt.Fprintf(w, "%s %s  %s  %s  %s  %s\n",
			marker,
			c.Muted("%8d", city.ID),
			c.Name("%-*s", nameWidth, name),
			c.Country("%-2s", city.Country),
			c.FormatTemp(city.Main.Temp),
			c.Condition("%s", city.Primary().Description),
		)

		if opts.ShowDetails {
			renderDetails(w, &city, c, "             ")
		}
	}
}

// RenderCity renders one city with all current conditions
func RenderCity(w io.Writer, city *models.City, opts TableOptions) {
	if city == nil {
		_, _ = fmt.Fprintln(w, "City not found.")
		return
	}

	c := colorsOrDefault(opts.Colors)

	_, _ = fmt.Fprintf(w, "%s %s\n", c.Header("%s", city.Name), c.Country("%s", city.Country))
	_, _ = fmt.Fprintf(w, "%s  %s\n", c.FormatTemp(city.Main.Temp), c.Condition("%s", city.Primary().Description))
	_, _ = fmt.Fprintln(w)
	renderDetails(w, city, c, "  ")
}

func renderDetails(w io.Writer, city *models.City, c *Colors, indent string) {
	rows := [][2]string{
		{"Відчувається як", models.FormatTemperature(city.Main.FeelsLike)},
		{"Мін / макс", models.FormatTemperature(city.Main.TempMin) + " / " + models.FormatTemperature(city.Main.TempMax)},
		{"Вологість", fmt.Sprintf("%d%%", city.Main.Humidity)},
		{"Тиск", fmt.Sprintf("%d гПа", city.Main.Pressure)},
		{"Вітер", models.FormatWind(city.Wind.Speed)},
		{"Хмарність", fmt.Sprintf("%d%%", city.Clouds)},
		{"Видимість", models.FormatVisibility(city.Visibility)},
		{"Схід", models.FormatTime(city.Sunrise, city.Timezone)},
		{"Захід", models.FormatTime(city.Sunset, city.Timezone)},
	}
	if !city.UpdatedAt.IsZero() {
		rows = append(rows, [2]string{"Оновлено", city.UpdatedAt.Local().Format(time.DateTime)})
	}

	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s%s %s\n", indent, c.Muted("%-16s", row[0]+":"), row[1])
	}
}

// RenderForecast renders forecast points as a horizontal bar chart scaled
// between the lowest and highest temperature
func RenderForecast(w io.Writer, city *models.City, points []models.ForecastPoint, opts TableOptions) {
	if len(points) == 0 {
		_, _ = fmt.Fprintln(w, "No forecast available.")
		return
	}

	c := colorsOrDefault(opts.Colors)

	tz := 0
	if city != nil {
		tz = city.Timezone
		_, _ = fmt.Fprintf(w, "%s %s\n\n", c.Header("Прогноз:"), c.Name("%s", city.Name))
	}

	minTemp, maxTemp := models.TemperatureRange(points)
	for _, p := range points {
		_, _ = fmt.Fprintf(w, "%s %s %s\n",
			c.Muted("%s", models.FormatTime(p.Timestamp, tz)),
			c.FormatTemp(p.Temperature),
			bar(p.Temperature, minTemp, maxTemp),
		)
	}
}

// bar renders a value as 1..chartBars blocks
func bar(v, minTemp, maxTemp float64) string {
	ratio := (v - minTemp) / (maxTemp - minTemp)
	n := 1 + int(math.Round(ratio*float64(chartBars-1)))
	return strings.Repeat("█", n)
}

// RenderSuggestions renders autocomplete suggestions as a list
func RenderSuggestions(w io.Writer, suggestions []models.CitySuggestion, opts TableOptions) {
	if len(suggestions) == 0 {
		_, _ = fmt.Fprintln(w, "No cities found.")
		return
	}

	c := colorsOrDefault(opts.Colors)

	_, _ = fmt.Fprintln(w, c.Header("Found cities:"))
	_, _ = fmt.Fprintln(w)

	for _, s := range suggestions {
		_, _ = fmt.Fprintf(w, "  %s\n", c.Name("%s", s.Label))
		_, _ = fmt.Fprintf(w, "    %s %s\n", c.Muted("Coord:"), s.ID)
		_, _ = fmt.Fprintf(w, "    %s wthr add %q\n", c.Muted("Use:"), s.Query)
		_, _ = fmt.Fprintln(w)
	}
}

// RenderError renders a user-facing store error
func RenderError(w io.Writer, msg string, opts TableOptions) {
	if msg == "" {
		return
	}
	c := colorsOrDefault(opts.Colors)
	_, _ = fmt.Fprintln(w, c.Error("! %s", msg))
}
