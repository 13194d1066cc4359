package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"weather-proxy/api"
	"weather-proxy/datasource"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <city>",
	Short: "Fetch the weather for a city once",
	Long:  `Fetch current conditions and forecast for a city and print the JSON payload.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	config, err := datasource.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	weather, err := newAggregator(config, false)
	if err != nil {
		return err
	}

	// Allow unquoted multi-word names such as: fetch New York
	city := strings.Join(args, " ")

	data, err := weather.FetchWeather(cmd.Context(), city)
	if err != nil {
		log.Printf("Weather lookup for %q failed: %v", city, err)
		_, message := api.ErrorResponse(err)
		return errors.New(message)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
