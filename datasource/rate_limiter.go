package datasource

import (
	"context"
	"fmt"

	"weather-proxy/models"

	"golang.org/x/time/rate"
)

// RateLimitedProvider wraps a Provider with separate token buckets for current-weather
// and forecast calls
type RateLimitedProvider struct {
	provider        Provider
	weatherLimiter  *rate.Limiter
	forecastLimiter *rate.Limiter
	name            string
}

// NewRateLimitedProvider creates a provider that implements both interfaces with rate limiting.
// weatherRPS and forecastRPS are the maximum requests per second for each endpoint,
// burst is the maximum burst size for both.
func NewRateLimitedProvider(provider Provider, weatherRPS, forecastRPS float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider:        provider,
		weatherLimiter:  rate.NewLimiter(rate.Limit(weatherRPS), burst),
		forecastLimiter: rate.NewLimiter(rate.Limit(forecastRPS), burst),
		name:            fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

// GetWeather implements WeatherProvider interface with rate limiting
func (r *RateLimitedProvider) GetWeather(ctx context.Context, city string) (models.CurrentObservation, error) {
	if err := r.weatherLimiter.Wait(ctx); err != nil {
		return models.CurrentObservation{}, fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return r.provider.GetWeather(ctx, city)
}

// FetchForecast implements ForecastSource interface with rate limiting
func (r *RateLimitedProvider) FetchForecast(ctx context.Context, lat, lon float64) ([]models.ForecastEntry, error) {
	if err := r.forecastLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return r.provider.FetchForecast(ctx, lat, lon)
}

// Name returns the provider name
func (r *RateLimitedProvider) Name() string {
	return r.name
}

var _ Provider = (*RateLimitedProvider)(nil)
