package models

// ForecastEntry represents a single 3-hour forecast point as returned by a provider
type ForecastEntry struct {
	Timestamp   int64   // unix seconds
	LocalTime   string  // provider time label, "2006-01-02 15:04:05"
	Temperature float64 // in Celsius
	Humidity    float64 // percentage
	WindSpeed   float64 // in m/s
	Description string
	Icon        string
}

// HourlyEntry is one of the near-term forecast points returned to clients
type HourlyEntry struct {
	Time        string  `json:"time"`
	Timestamp   int64   `json:"timestamp"`
	Temperature int     `json:"temperature"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
}

// DailySummary aggregates all forecast points of one calendar date
type DailySummary struct {
	Date        string  `json:"date"`
	Timestamp   int64   `json:"timestamp"` // first forecast point of the day
	TempMax     int     `json:"temp_max"`
	TempMin     int     `json:"temp_min"`
	Description string  `json:"description"` // most frequent description
	Icon        string  `json:"icon"`        // most frequent icon
	Humidity    int     `json:"humidity"`    // mean
	WindSpeed   float64 `json:"wind_speed"`  // mean, one decimal
}

// ForecastSummary holds the daily and hourly views of a forecast
type ForecastSummary struct {
	Daily  []DailySummary `json:"daily"`
	Hourly []HourlyEntry  `json:"hourly"`
}
