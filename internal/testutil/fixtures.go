package testutil

import (
	"fmt"
	"strings"
)

// Sample JSON responses for API testing

// SampleCurrentResponse is a current weather response for Kyiv
const SampleCurrentResponse = `{
	"coord": {"lon": 30.5167, "lat": 50.4333},
	"weather": [
		{"id": 803, "main": "Clouds", "description": "хмарно", "icon": "04d"}
	],
	"base": "stations",
	"main": {
		"temp": 12.4,
		"feels_like": 11.2,
		"temp_min": 10.9,
		"temp_max": 13.6,
		"pressure": 1015,
		"humidity": 71
	},
	"visibility": 10000,
	"wind": {"speed": 4.2, "deg": 250, "gust": 7.1},
	"clouds": {"all": 75},
	"dt": 1718010000,
	"sys": {"country": "UA", "sunrise": 1717984500, "sunset": 1718043900},
	"timezone": 10800,
	"id": 703448,
	"name": "Kyiv",
	"cod": 200
}`

// SampleLvivResponse is a current weather response for Lviv
const SampleLvivResponse = `{
	"coord": {"lon": 24.0232, "lat": 49.8383},
	"weather": [
		{"id": 500, "main": "Rain", "description": "легкий дощ", "icon": "10d"}
	],
	"main": {
		"temp": 9.1,
		"feels_like": 7.6,
		"temp_min": 8.4,
		"temp_max": 9.9,
		"pressure": 1012,
		"humidity": 88
	},
	"visibility": 8000,
	"wind": {"speed": 3.1, "deg": 190},
	"clouds": {"all": 90},
	"dt": 1718010000,
	"sys": {"country": "UA", "sunrise": 1717986100, "sunset": 1718045500},
	"timezone": 10800,
	"id": 702550,
	"name": "Lviv",
	"cod": 200
}`

// CurrentResponse builds a minimal current weather response for an arbitrary city
func CurrentResponse(id int64, name string, temp float64) string {
	return fmt.Sprintf(`{
	"coord": {"lon": 0, "lat": 0},
	"weather": [{"id": 800, "main": "Clear", "description": "ясно", "icon": "01d"}],
	"main": {"temp": %g, "feels_like": %g, "temp_min": %g, "temp_max": %g, "pressure": 1010, "humidity": 50},
	"visibility": 10000,
	"wind": {"speed": 1.0, "deg": 0},
	"clouds": {"all": 0},
	"dt": 1718010000,
	"sys": {"country": "UA", "sunrise": 1717984500, "sunset": 1718043900},
	"timezone": 10800,
	"id": %d,
	"name": %q,
	"cod": 200
}`, temp, temp, temp, temp, id, name)
}

// SampleForecastResponse is a 3-hourly forecast with more entries than the client keeps
var SampleForecastResponse = forecastResponse(10)

func forecastResponse(n int) string {
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		dt := int64(1718010000 + i*10800)
		items = append(items, fmt.Sprintf(
			`{"dt": %d, "main": {"temp": %.1f}, "dt_txt": "step-%d"}`,
			dt, 10.0+float64(i), i,
		))
	}
	return fmt.Sprintf(`{
	"cod": "200",
	"cnt": %d,
	"list": [%s],
	"city": {"id": 703448, "name": "Kyiv", "coord": {"lat": 50.4333, "lon": 30.5167}, "country": "UA", "timezone": 10800}
}`, n, strings.Join(items, ","))
}

// SampleGeocodeResponse is a direct geocoding response for "Kyi"
const SampleGeocodeResponse = `[
	{
		"name": "Kyiv",
		"local_names": {"uk": "Київ", "en": "Kyiv", "ru": "Киев"},
		"lat": 50.4500336,
		"lon": 30.5241361,
		"country": "UA",
		"state": "Kyiv City"
	},
	{
		"name": "Kyiv",
		"local_names": {"en": "Kyiv"},
		"lat": 44.9661,
		"lon": -93.2655,
		"country": "US",
		"state": "Minnesota"
	}
]`

// SampleErrorResponse is the provider's body for an unknown city
const SampleErrorResponse = `{"cod": "404", "message": "city not found"}`

// SampleUnauthorizedResponse is the provider's body for a rejected key
const SampleUnauthorizedResponse = `{"cod": 401, "message": "Invalid API key. Please see https://openweathermap.org/faq#error401 for more info."}`
