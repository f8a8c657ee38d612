package models

// MaxForecastPoints is the number of 3-hour forecast steps shown for a city
const MaxForecastPoints = 8

// ForecastPoint is a single temperature sample of the short-range forecast
type ForecastPoint struct {
	Timestamp   int64   `json:"timestamp"`
	Temperature float64 `json:"temperature"`
}

// ForecastResponse represents the raw JSON of the provider's forecast endpoint
type ForecastResponse struct {
	Cnt  int `json:"cnt"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		DtTxt string `json:"dt_txt"`
	} `json:"list"`
	City struct {
		ID       int64       `json:"id"`
		Name     string      `json:"name"`
		Coord    Coordinates `json:"coord"`
		Country  string      `json:"country"`
		Timezone int         `json:"timezone"`
	} `json:"city"`
}

// ToPoints converts the forecast list to at most MaxForecastPoints points, in provider order
func (r *ForecastResponse) ToPoints() []ForecastPoint {
	n := len(r.List)
	if n > MaxForecastPoints {
		n = MaxForecastPoints
	}

	points := make([]ForecastPoint, 0, n)
	for _, item := range r.List[:n] {
		points = append(points, ForecastPoint{
			Timestamp:   item.Dt,
			Temperature: item.Main.Temp,
		})
	}
	return points
}

// TemperatureRange returns the min and max temperature of the points.
// The spread is widened to at least 1 degree so callers can normalize safely.
func TemperatureRange(points []ForecastPoint) (minTemp, maxTemp float64) {
	if len(points) == 0 {
		return 0, 1
	}
	minTemp, maxTemp = points[0].Temperature, points[0].Temperature
	for _, p := range points[1:] {
		if p.Temperature < minTemp {
			minTemp = p.Temperature
		}
		if p.Temperature > maxTemp {
			maxTemp = p.Temperature
		}
	}
	if maxTemp-minTemp < 1 {
		maxTemp = minTemp + 1
	}
	return minTemp, maxTemp
}
