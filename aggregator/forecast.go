package aggregator

import (
	"strings"

	"weather-proxy/models"
)

const (
	// maxForecastEntries is five days of 3-hour steps, the upstream's native cadence
	maxForecastEntries = 40
	hourlyEntries      = 8
	maxForecastDays    = 5
)

// dailyBucket collects the raw values of every forecast entry sharing one date
type dailyBucket struct {
	date         string
	timestamp    int64
	temps        []float64
	descriptions []string
	icons        []string
	humidity     []float64
	windSpeed    []float64
}

// SummarizeForecast builds the hourly and daily views from upstream forecast entries.
// Only the first 40 entries are considered. Hourly holds the first 8 of them, Daily at most
// 5 dates in the order they first appear.
func SummarizeForecast(entries []models.ForecastEntry) models.ForecastSummary {
	if len(entries) > maxForecastEntries {
		entries = entries[:maxForecastEntries]
	}

	summary := models.ForecastSummary{
		Daily:  make([]models.DailySummary, 0, maxForecastDays),
		Hourly: make([]models.HourlyEntry, 0, hourlyEntries),
	}

	var order []string
	buckets := make(map[string]*dailyBucket)

	for _, entry := range entries {
		if len(summary.Hourly) < hourlyEntries {
			summary.Hourly = append(summary.Hourly, models.HourlyEntry{
				Time:        entry.LocalTime,
				Timestamp:   entry.Timestamp,
				Temperature: roundInt(entry.Temperature),
				Description: titleCase(entry.Description),
				Icon:        entry.Icon,
				Humidity:    entry.Humidity,
				WindSpeed:   entry.WindSpeed,
			})
		}

		date := dateKey(entry.LocalTime)
		bucket, ok := buckets[date]
		if !ok {
			bucket = &dailyBucket{date: date, timestamp: entry.Timestamp}
			buckets[date] = bucket
			order = append(order, date)
		}
		bucket.temps = append(bucket.temps, entry.Temperature)
		bucket.descriptions = append(bucket.descriptions, entry.Description)
		bucket.icons = append(bucket.icons, entry.Icon)
		bucket.humidity = append(bucket.humidity, entry.Humidity)
		bucket.windSpeed = append(bucket.windSpeed, entry.WindSpeed)
	}

	if len(order) > maxForecastDays {
		order = order[:maxForecastDays]
	}
	for _, date := range order {
		summary.Daily = append(summary.Daily, buckets[date].summarize())
	}

	return summary
}

// dateKey returns the date part of a "2006-01-02 15:04:05" label
func dateKey(localTime string) string {
	date, _, _ := strings.Cut(localTime, " ")
	return date
}

func (b *dailyBucket) summarize() models.DailySummary {
	return models.DailySummary{
		Date:        b.date,
		Timestamp:   b.timestamp,
		TempMax:     roundInt(maxOf(b.temps)),
		TempMin:     roundInt(minOf(b.temps)),
		Description: titleCase(mode(b.descriptions)),
		Icon:        mode(b.icons),
		Humidity:    roundInt(mean(b.humidity)),
		WindSpeed:   roundTenth(mean(b.windSpeed)),
	}
}

// mode returns the most frequent value; on equal counts the value seen first wins
func mode(values []string) string {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	best, bestCount := "", 0
	for _, v := range values {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
