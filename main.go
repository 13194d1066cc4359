package main

import (
	"log"
	"os"

	"weather-proxy/aggregator"
	"weather-proxy/datasource"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "weather-proxy",
	Short: "Weather proxy for OpenWeatherMap",
	Long: `weather-proxy looks up current conditions and a 5-day forecast for a city
on OpenWeatherMap and returns them as a single simplified JSON payload.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to an optional JSON configuration file")
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newAggregator wires the OpenWeatherMap provider, rate limited when configured
func newAggregator(config *datasource.Config, enableRateLimiting bool) (*aggregator.Aggregator, error) {
	timeout, err := config.RequestTimeout()
	if err != nil {
		return nil, err
	}

	owm := config.OpenWeatherMap
	if owm.APIKey == "" {
		log.Println("Warning: OPENWEATHER_API_KEY is not set, weather requests will fail")
	}

	var provider datasource.Provider = datasource.NewOpenWeatherMapProvider(owm.APIKey, owm.BaseURL, timeout)

	if enableRateLimiting && owm.RateLimit > 0 {
		burst := owm.RateBurst
		if burst < 1 {
			burst = datasource.DefaultBurst
		}
		provider = datasource.NewRateLimitedProvider(provider, owm.RateLimit, owm.RateLimit, burst)
		log.Printf("Applied rate limiting to %s provider (%.2f req/s, burst %d)", provider.Name(), owm.RateLimit, burst)
	}

	return aggregator.New(owm.APIKey, provider, provider), nil
}
