package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"weather-proxy/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

//go:embed web/index.html
var indexPage []byte

// WeatherFetcher produces the aggregated weather for a city
type WeatherFetcher interface {
	FetchWeather(ctx context.Context, city string) (models.AggregatedWeather, error)
}

// Server represents the API server
type Server struct {
	fetcher WeatherFetcher
	router  *mux.Router
	server  *http.Server
}

// weatherRequest is the body of POST /get_weather
type weatherRequest struct {
	City string `json:"city"`
}

type requestIDKey struct{}

// NewServer creates a new API server
func NewServer(fetcher WeatherFetcher, port int) *Server {
	router := mux.NewRouter()

	server := &Server{
		fetcher: fetcher,
		router:  router,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      router,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}

	router.Use(requestIDMiddleware)

	router.HandleFunc("/", server.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/get_weather", server.handleGetWeather).Methods(http.MethodPost)

	// Health check
	router.HandleFunc("/api/health", server.handleHealthCheck).Methods(http.MethodGet)

	return server
}

// Router returns the HTTP handler serving all routes
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins the API server. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	log.Printf("Starting API server on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// requestIDMiddleware tags every request with an ID, echoed in X-Request-ID, and logs it
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		log.Printf("[%s] %s %s (%s)", id, r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(indexPage)
}

// handleGetWeather proxies a city lookup to the weather fetcher
func (s *Server) handleGetWeather(w http.ResponseWriter, r *http.Request) {
	var req weatherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// An unreadable body carries no city; the fetcher reports that consistently
		log.Printf("[%s] Invalid request body: %v", requestID(r.Context()), err)
		req = weatherRequest{}
	}

	data, err := s.fetcher.FetchWeather(r.Context(), req.City)
	if err != nil {
		status, message := ErrorResponse(err)
		if status == http.StatusInternalServerError {
			log.Printf("[%s] Weather lookup for %q failed: %v", requestID(r.Context()), req.City, err)
		}
		writeJSON(w, status, map[string]string{"error": message})
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
