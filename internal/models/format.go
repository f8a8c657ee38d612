package models

import (
	"fmt"
	"math"
	"time"
)

// FormatTemperature renders a temperature rounded to whole degrees Celsius
func FormatTemperature(value float64) string {
	return fmt.Sprintf("%d°C", int(math.Round(value)))
}

// FormatTime renders a unix timestamp as HH:MM in the location's UTC offset (seconds)
func FormatTime(timestamp int64, tzOffset int) string {
	loc := time.FixedZone("", tzOffset)
	return time.Unix(timestamp, 0).In(loc).Format("15:04")
}

// FormatWind renders a wind speed with one decimal
func FormatWind(speed float64) string {
	return fmt.Sprintf("%.1f м/с", speed)
}

// FormatVisibility renders visibility in kilometres
func FormatVisibility(meters int) string {
	return fmt.Sprintf("%.1f км", float64(meters)/1000)
}
