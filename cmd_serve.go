package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-proxy/api"
	"weather-proxy/datasource"

	"github.com/spf13/cobra"
)

var (
	servePort          int
	enableRateLimiting bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the weather proxy server",
	Long:  `Start the HTTP server exposing POST /get_weather.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to run the server on (overrides SERVER_PORT)")
	serveCmd.Flags().BoolVar(&enableRateLimiting, "rate-limit", true, "Enable API rate limiting when OPENWEATHER_RATE_LIMIT is set")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	config, err := datasource.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if servePort > 0 {
		config.Port = servePort
	}

	weather, err := newAggregator(config, enableRateLimiting)
	if err != nil {
		return err
	}

	server := api.NewServer(weather, config.Port)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Shutting down due to %s signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Println("Shutdown complete")
	return nil
}
