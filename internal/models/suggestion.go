package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// localePreference is the order in which localized city names are picked
var localePreference = []string{"uk", "ru", "en"}

// CitySuggestion is an autocomplete candidate; it is never persisted
type CitySuggestion struct {
	ID    string      `json:"id"`
	Label string      `json:"label"`
	Query string      `json:"query"`
	Coord Coordinates `json:"coord"`
}

// GeocodeResponse represents a single entry of the provider's geocoding response
type GeocodeResponse struct {
	Name       string            `json:"name"`
	LocalNames map[string]string `json:"local_names,omitempty"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	Country    string            `json:"country"`
	State      string            `json:"state,omitempty"`
}

// LocalizedName returns the preferred localized name, falling back to the default name
func (r *GeocodeResponse) LocalizedName() string {
	for _, lang := range localePreference {
		if name := r.LocalNames[lang]; name != "" {
			return name
		}
	}
	return r.Name
}

// ToSuggestion converts the geocoding entry to a CitySuggestion.
// The ID is derived from the coordinates rounded to 4 decimal places.
func (r *GeocodeResponse) ToSuggestion() *CitySuggestion {
	base := r.LocalizedName()
	parts := []string{base}
	if r.State != "" && r.State != base {
		parts = append(parts, r.State)
	}
	parts = append(parts, r.Country)

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	label := strings.Join(nonEmpty, ", ")

	return &CitySuggestion{
		ID:    SuggestionID(r.Lat, r.Lon),
		Label: label,
		Query: label,
		Coord: Coordinates{Lat: r.Lat, Lon: r.Lon},
	}
}

// SuggestionID formats coordinates as "lat:lon" with 4 fixed decimals
func SuggestionID(lat, lon float64) string {
	return decimal.NewFromFloat(lat).StringFixed(4) + ":" + decimal.NewFromFloat(lon).StringFixed(4)
}
