package datasource

import (
	"context"
	"errors"
	"testing"
	"time"

	"weather-proxy/models"
)

// countingProvider implements Provider and counts forwarded calls
type countingProvider struct {
	weatherCalls  int
	forecastCalls int
}

func (c *countingProvider) Name() string { return "Counting" }

func (c *countingProvider) GetWeather(ctx context.Context, city string) (models.CurrentObservation, error) {
	c.weatherCalls++
	return models.CurrentObservation{City: city}, nil
}

func (c *countingProvider) FetchForecast(ctx context.Context, lat, lon float64) ([]models.ForecastEntry, error) {
	c.forecastCalls++
	return []models.ForecastEntry{{Timestamp: 1}}, nil
}

func TestRateLimitedProviderForwards(t *testing.T) {
	inner := &countingProvider{}
	limited := NewRateLimitedProvider(inner, 100, 100, 5)

	if limited.Name() != "Counting [Rate Limited]" {
		t.Errorf("Unexpected name %q", limited.Name())
	}

	data, err := limited.GetWeather(context.Background(), "London")
	if err != nil || data.City != "London" {
		t.Fatalf("GetWeather = %+v, %v", data, err)
	}
	entries, err := limited.FetchForecast(context.Background(), 1, 2)
	if err != nil || len(entries) != 1 {
		t.Fatalf("FetchForecast = %v, %v", entries, err)
	}
	if inner.weatherCalls != 1 || inner.forecastCalls != 1 {
		t.Errorf("Expected one forwarded call each, got %d/%d", inner.weatherCalls, inner.forecastCalls)
	}
}

func TestRateLimitedProviderRejectsWhenExhausted(t *testing.T) {
	inner := &countingProvider{}
	// One token, refilled every 100 seconds
	limited := NewRateLimitedProvider(inner, 0.01, 0.01, 1)

	if _, err := limited.GetWeather(context.Background(), "London"); err != nil {
		t.Fatalf("First call should pass, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := limited.GetWeather(ctx, "London")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("error = %v, expected ErrRateLimited", err)
	}
	if inner.weatherCalls != 1 {
		t.Errorf("Expected the rejected call not to be forwarded, got %d calls", inner.weatherCalls)
	}

	// Forecast calls have their own bucket
	if _, err := limited.FetchForecast(context.Background(), 1, 2); err != nil {
		t.Errorf("Forecast bucket should be independent, got %v", err)
	}
}
