package api

const (
	// BaseURL is the base URL for the OpenWeatherMap data API
	BaseURL = "https://api.openweathermap.org/data/2.5"

	// GeoBaseURL is the base URL for the OpenWeatherMap geocoding API
	GeoBaseURL = "https://api.openweathermap.org/geo/1.0"

	// EndpointCurrent returns current weather
	// Required params: appid and one of q, id; optional units, lang
	EndpointCurrent = "/weather"

	// EndpointForecast returns the 3-hour step forecast
	// Required params: appid, lat, lon; optional cnt, units, lang
	EndpointForecast = "/forecast"

	// EndpointDirect resolves a free-text city name to coordinates
	// Required params: appid, q; optional limit (max 5)
	EndpointDirect = "/direct"
)

// Provider defaults
const (
	DefaultUnits        = "metric"
	DefaultLang         = "uk"
	DefaultSuggestLimit = 5

	// minSuggestRunes is the shortest query sent to the geocoding endpoint
	minSuggestRunes = 2
)
