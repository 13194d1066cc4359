package aggregator

import (
	"errors"
	"fmt"

	"weather-proxy/datasource"
)

// Error kinds returned by FetchWeather. Callers match them with errors.Is.
var (
	ErrInvalidInput  = errors.New("city name is required")
	ErrNotConfigured = errors.New("api key not configured")
	ErrNotFound      = errors.New("city not found")
	ErrUpstream      = errors.New("failed to fetch weather data")
	ErrNetwork       = errors.New("network error")
	ErrInternal      = errors.New("internal error")
)

// classify maps a data source failure onto one of the error kinds, keeping the cause
func classify(err error) error {
	switch {
	case errors.Is(err, datasource.ErrCityNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, datasource.ErrNetwork):
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	case errors.Is(err, datasource.ErrUpstreamStatus), errors.Is(err, datasource.ErrRateLimited):
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	default:
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}
