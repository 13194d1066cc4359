package api

import (
	"errors"
	"net/http"

	"weather-proxy/aggregator"
)

// ErrorResponse maps an aggregator error to the status code and the message shown to clients.
// The message never includes upstream detail.
func ErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, aggregator.ErrInvalidInput):
		return http.StatusBadRequest, "City name is required"
	case errors.Is(err, aggregator.ErrNotConfigured):
		return http.StatusInternalServerError, "API key not configured"
	case errors.Is(err, aggregator.ErrNotFound):
		return http.StatusNotFound, "City not found"
	case errors.Is(err, aggregator.ErrUpstream):
		return http.StatusInternalServerError, "Failed to fetch weather data"
	case errors.Is(err, aggregator.ErrNetwork):
		return http.StatusInternalServerError, "Network error occurred"
	default:
		return http.StatusInternalServerError, "An unexpected error occurred"
	}
}
