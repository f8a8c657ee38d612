package output

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/wthr-dev/wthr/internal/models"
)

// ColorMode represents the color output mode
type ColorMode int

const (
	// ColorAuto enables colors if output is a TTY
	ColorAuto ColorMode = iota
	// ColorAlways forces colors on
	ColorAlways
	// ColorNever disables colors
	ColorNever
)

// Temperature bands used for coloring, in °C
const (
	freezingTemp = 0
	warmTemp     = 20
	hotTemp      = 30
)

// Colors holds the color functions for different output types
type Colors struct {
	Name      func(format string, a ...interface{}) string
	Country   func(format string, a ...interface{}) string
	Condition func(format string, a ...interface{}) string
	Cold      func(format string, a ...interface{}) string
	Mild      func(format string, a ...interface{}) string
	Warm      func(format string, a ...interface{}) string
	Hot       func(format string, a ...interface{}) string
	Error     func(format string, a ...interface{}) string
	Header    func(format string, a ...interface{}) string
	Muted     func(format string, a ...interface{}) string
}

// NewColors creates a new Colors instance based on the color mode
func NewColors(mode ColorMode) *Colors {
	useColors := false
	switch mode {
	case ColorAlways:
		useColors = true
		color.NoColor = false // Force colors on
	case ColorNever:
		useColors = false
	case ColorAuto:
		useColors = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	if !useColors {
		noColor := func(format string, a ...interface{}) string {
			if len(a) == 0 {
				return format
			}
			return color.New().Sprintf(format, a...)
		}
		return &Colors{
			Name:      noColor,
			Country:   noColor,
			Condition: noColor,
			Cold:      noColor,
			Mild:      noColor,
			Warm:      noColor,
			Hot:       noColor,
			Error:     noColor,
			Header:    noColor,
			Muted:     noColor,
		}
	}

	return &Colors{
		Name:      color.New(color.FgWhite, color.Bold).SprintfFunc(),
		Country:   color.New(color.FgHiBlack).SprintfFunc(),
		Condition: color.New(color.FgMagenta).SprintfFunc(),
		Cold:      color.New(color.FgCyan).SprintfFunc(),
		Mild:      color.New(color.FgGreen).SprintfFunc(),
		Warm:      color.New(color.FgYellow).SprintfFunc(),
		Hot:       color.New(color.FgRed, color.Bold).SprintfFunc(),
		Error:     color.New(color.FgRed, color.Bold).SprintfFunc(),
		Header:    color.New(color.FgWhite, color.Bold).SprintfFunc(),
		Muted:     color.New(color.FgHiBlack).SprintfFunc(),
	}
}

// FormatTemp formats a temperature colored by band (fixed 5-char width)
func (c *Colors) FormatTemp(temp float64) string {
	s := models.FormatTemperature(temp)
	switch {
	case temp <= freezingTemp:
		return c.Cold("%5s", s)
	case temp >= hotTemp:
		return c.Hot("%5s", s)
	case temp >= warmTemp:
		return c.Warm("%5s", s)
	default:
		return c.Mild("%5s", s)
	}
}

// ParseColorMode parses a color mode string
func ParseColorMode(s string) ColorMode {
	switch s {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}
