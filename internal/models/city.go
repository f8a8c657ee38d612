package models

import (
	"time"
)

// Coordinates is a geographic position in decimal degrees
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Condition is a textual/icon weather condition
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Measurements holds the temperature block of an observation
type Measurements struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feelsLike"`
	TempMin   float64 `json:"tempMin"`
	TempMax   float64 `json:"tempMax"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

// Wind holds wind speed (m/s) and direction (degrees)
type Wind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
	Gust  float64 `json:"gust,omitempty"`
}

// City is a hydrated weather snapshot for one location
type City struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Country    string       `json:"country"`
	Coord      Coordinates  `json:"coord"`
	Conditions []Condition  `json:"conditions,omitempty"`
	Main       Measurements `json:"main"`
	Wind       Wind         `json:"wind"`
	Clouds     int          `json:"clouds"`
	Visibility int          `json:"visibility"`
	Sunrise    int64        `json:"sunrise"`
	Sunset     int64        `json:"sunset"`
	Observed   int64        `json:"observed"`
	Timezone   int          `json:"timezone"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// Primary returns the first reported condition, or the zero value
func (c *City) Primary() Condition {
	if len(c.Conditions) == 0 {
		return Condition{}
	}
	return c.Conditions[0]
}

// CurrentWeatherResponse represents the raw JSON of the provider's current weather endpoint
type CurrentWeatherResponse struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Coord   Coordinates `json:"coord"`
	Weather []Condition `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind   Wind `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Dt         int64 `json:"dt"`
	Timezone   int   `json:"timezone"`
	Visibility int   `json:"visibility"`
}

// ToCity converts the raw response to a City hydrated at updatedAt
func (r *CurrentWeatherResponse) ToCity(updatedAt time.Time) *City {
	conditions := make([]Condition, len(r.Weather))
	copy(conditions, r.Weather)

	return &City{
		ID:         r.ID,
		Name:       r.Name,
		Country:    r.Sys.Country,
		Coord:      r.Coord,
		Conditions: conditions,
		Main: Measurements{
			Temp:      r.Main.Temp,
			FeelsLike: r.Main.FeelsLike,
			TempMin:   r.Main.TempMin,
			TempMax:   r.Main.TempMax,
			Pressure:  r.Main.Pressure,
			Humidity:  r.Main.Humidity,
		},
		Wind:       r.Wind,
		Clouds:     r.Clouds.All,
		Visibility: r.Visibility,
		Sunrise:    r.Sys.Sunrise,
		Sunset:     r.Sys.Sunset,
		Observed:   r.Dt,
		Timezone:   r.Timezone,
		UpdatedAt:  updatedAt,
	}
}

// StoredCity is the durable {id, name} reference kept across sessions
type StoredCity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Valid reports whether the reference can be used for rehydration
func (s StoredCity) Valid() bool {
	return s.ID > 0 && s.Name != ""
}

// StoredCities projects cities onto their durable references, preserving order
func StoredCities(cities []City) []StoredCity {
	refs := make([]StoredCity, 0, len(cities))
	for _, c := range cities {
		refs = append(refs, StoredCity{ID: c.ID, Name: c.Name})
	}
	return refs
}
