package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"weather-proxy/models"
)

// WeatherProvider is an interface for services that can fetch current weather data
type WeatherProvider interface {
	// GetWeather fetches current weather for a city
	GetWeather(ctx context.Context, city string) (models.CurrentObservation, error)

	// Name returns the provider's name
	Name() string
}

// ForecastSource is an interface for services that can fetch 3-hourly weather forecasts
type ForecastSource interface {
	// FetchForecast fetches the forecast entries for a coordinate pair, in upstream order
	FetchForecast(ctx context.Context, lat, lon float64) ([]models.ForecastEntry, error)

	// Name returns the source's name
	Name() string
}

// Provider is implemented by sources that serve both current conditions and forecasts
type Provider interface {
	WeatherProvider
	ForecastSource
}

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	DefaultTimeout = 10 * time.Second
	DefaultPort    = 8080
	DefaultBurst   = 5
)

// Config represents the application configuration
type Config struct {
	OpenWeatherMap struct {
		APIKey  string `json:"apiKey"`
		BaseURL string `json:"baseURL"`
		// Timeout bounds each outbound call, in time.ParseDuration format
		Timeout string `json:"timeout"`
		// RateLimit is the maximum requests per second per endpoint; 0 disables limiting
		RateLimit float64 `json:"rateLimit"`
		RateBurst int     `json:"rateBurst"`
	} `json:"openWeatherMap"`

	Port int `json:"port"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	config := &Config{Port: DefaultPort}
	config.OpenWeatherMap.BaseURL = DefaultBaseURL
	config.OpenWeatherMap.Timeout = DefaultTimeout.String()
	config.OpenWeatherMap.RateBurst = DefaultBurst
	return config
}

// LoadConfig builds the configuration from defaults, an optional JSON file and the
// process environment, in that order of precedence (environment wins).
// An empty filename or a missing file is not an error.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	if filename != "" {
		file, err := os.Open(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			defer file.Close()
			if err := json.NewDecoder(file).Decode(config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
			}
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if _, err := config.RequestTimeout(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("OPENWEATHER_API_KEY"); ok {
		c.OpenWeatherMap.APIKey = v
	}
	if v, ok := os.LookupEnv("OPENWEATHER_BASE_URL"); ok && v != "" {
		c.OpenWeatherMap.BaseURL = v
	}
	if v, ok := os.LookupEnv("OPENWEATHER_TIMEOUT"); ok && v != "" {
		c.OpenWeatherMap.Timeout = v
	}
	if v, ok := os.LookupEnv("OPENWEATHER_RATE_LIMIT"); ok && v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps < 0 {
			return fmt.Errorf("invalid OPENWEATHER_RATE_LIMIT %q", v)
		}
		c.OpenWeatherMap.RateLimit = rps
	}
	if v, ok := os.LookupEnv("OPENWEATHER_RATE_BURST"); ok && v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 1 {
			return fmt.Errorf("invalid OPENWEATHER_RATE_BURST %q", v)
		}
		c.OpenWeatherMap.RateBurst = burst
	}
	if v, ok := os.LookupEnv("SERVER_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return fmt.Errorf("invalid SERVER_PORT %q", v)
		}
		c.Port = port
	}
	return nil
}

// RequestTimeout returns the per-call timeout for outbound requests
func (c *Config) RequestTimeout() (time.Duration, error) {
	if c.OpenWeatherMap.Timeout == "" {
		return DefaultTimeout, nil
	}
	timeout, err := time.ParseDuration(c.OpenWeatherMap.Timeout)
	if err != nil || timeout <= 0 {
		return 0, fmt.Errorf("invalid OpenWeatherMap timeout %q", c.OpenWeatherMap.Timeout)
	}
	return timeout, nil
}
