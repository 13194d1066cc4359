package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"weather-proxy/datasource"
	"weather-proxy/models"
)

// Aggregator combines current conditions and the forecast for a city into one payload
type Aggregator struct {
	apiKey   string
	weather  datasource.WeatherProvider
	forecast datasource.ForecastSource
}

// New creates an Aggregator. apiKey is only checked for presence; the providers carry
// their own credentials.
func New(apiKey string, weather datasource.WeatherProvider, forecast datasource.ForecastSource) *Aggregator {
	return &Aggregator{
		apiKey:   apiKey,
		weather:  weather,
		forecast: forecast,
	}
}

// FetchWeather fetches current conditions for city, then the forecast for the returned
// coordinates. A forecast that cannot be fetched is omitted from the result rather than
// failing the call; a forecast that arrives malformed fails it with ErrInternal.
func (a *Aggregator) FetchWeather(ctx context.Context, city string) (models.AggregatedWeather, error) {
	if a.apiKey == "" {
		return models.AggregatedWeather{}, ErrNotConfigured
	}

	city = strings.TrimSpace(city)
	if city == "" {
		return models.AggregatedWeather{}, ErrInvalidInput
	}

	observation, err := a.weather.GetWeather(ctx, city)
	if err != nil {
		return models.AggregatedWeather{}, classify(err)
	}

	result := models.AggregatedWeather{
		Current: currentConditions(observation),
	}

	entries, err := a.forecast.FetchForecast(ctx, observation.Latitude, observation.Longitude)
	switch {
	case err == nil:
		summary := SummarizeForecast(entries)
		result.Forecast = &summary
	case errors.Is(err, datasource.ErrMalformedResponse):
		return models.AggregatedWeather{}, fmt.Errorf("%w: forecast: %w", ErrInternal, err)
	default:
		log.Printf("Forecast unavailable for %s from %s: %v", city, a.forecast.Name(), err)
	}

	return result, nil
}

func currentConditions(o models.CurrentObservation) models.CurrentConditions {
	return models.CurrentConditions{
		City:          o.City,
		Country:       o.Country,
		Temperature:   roundInt(o.Temperature),
		Description:   titleCase(o.Description),
		Humidity:      o.Humidity,
		FeelsLike:     roundInt(o.FeelsLike),
		Pressure:      o.Pressure,
		WindSpeed:     o.WindSpeed,
		WindDirection: o.WindDeg,
		Visibility:    metersToKm(o.Visibility),
		WeatherIcon:   o.Icon,
		WeatherMain:   o.Main,
		Sunrise:       o.Sunrise,
		Sunset:        o.Sunset,
		Timezone:      o.Timezone,
	}
}
