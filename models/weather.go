package models

// CurrentObservation is the current-conditions report for a city as returned by a provider,
// before any rounding or formatting. Optional upstream fields are zero when absent.
type CurrentObservation struct {
	Latitude    float64
	Longitude   float64
	City        string
	Country     string
	Temperature float64 // in Celsius
	FeelsLike   float64 // in Celsius
	Humidity    float64 // percentage
	Pressure    float64 // in hPa
	WindSpeed   float64 // in m/s
	WindDeg     float64 // wind direction in degrees
	Visibility  float64 // in meters
	Description string
	Icon        string
	Main        string // weather category, e.g. "Rain"
	Sunrise     int64  // unix seconds
	Sunset      int64  // unix seconds
	Timezone    int    // shift from UTC in seconds
}

// CurrentConditions is the normalized current weather returned to clients
type CurrentConditions struct {
	City          string  `json:"city"`
	Country       string  `json:"country"`
	Temperature   int     `json:"temperature"`
	Description   string  `json:"description"`
	Humidity      float64 `json:"humidity"`
	FeelsLike     int     `json:"feels_like"`
	Pressure      float64 `json:"pressure"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection float64 `json:"wind_direction"`
	Visibility    int     `json:"visibility"` // in km
	WeatherIcon   string  `json:"weather_icon"`
	WeatherMain   string  `json:"weather_main"`
	Sunrise       int64   `json:"sunrise"`
	Sunset        int64   `json:"sunset"`
	Timezone      int     `json:"timezone"`
}

// AggregatedWeather is the combined payload for one city.
// Forecast is nil when the forecast could not be fetched.
type AggregatedWeather struct {
	Current  CurrentConditions `json:"current"`
	Forecast *ForecastSummary  `json:"forecast,omitempty"`
}
