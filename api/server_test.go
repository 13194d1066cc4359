package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"weather-proxy/aggregator"
	"weather-proxy/datasource"
	"weather-proxy/models"
)

const londonCurrent = `{
	"coord": {"lat": 51.5, "lon": -0.1},
	"name": "London",
	"sys": {"country": "GB", "sunrise": 1, "sunset": 2},
	"main": {"temp": 15.4, "humidity": 70, "feels_like": 14.9, "pressure": 1012},
	"weather": [{"description": "light rain", "icon": "10d", "main": "Rain"}],
	"wind": {"speed": 3.1, "deg": 200},
	"visibility": 9000,
	"timezone": 0
}`

// forecastBody builds a /forecast answer with 40 entries over 5 dates
func forecastBody() string {
	items := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		items = append(items, fmt.Sprintf(
			`{"dt": %d, "dt_txt": "2024-03-%02d %02d:00:00", "main": {"temp": %d, "humidity": 60},
			  "weather": [{"description": "scattered clouds", "icon": "03d"}], "wind": {"speed": 2}}`,
			1709251200+i*10800, 1+i/8, (i%8)*3, i))
	}
	return `{"list": [` + strings.Join(items, ",") + `]}`
}

// callCounter counts upstream calls per path
type callCounter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *callCounter) add(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[path]++
}

func (c *callCounter) count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[path]
}

func (c *callCounter) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

// mockUpstream fakes OpenWeatherMap and counts calls per path
func mockUpstream(t *testing.T, currentStatus, forecastStatus int) (*httptest.Server, *callCounter) {
	t.Helper()
	calls := &callCounter{calls: make(map[string]int)}
	forecast := forecastBody()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.add(r.URL.Path)
		switch r.URL.Path {
		case "/weather":
			w.WriteHeader(currentStatus)
			if currentStatus == http.StatusOK {
				io.WriteString(w, londonCurrent)
			} else {
				io.WriteString(w, `{"cod":"404","message":"city not found"}`)
			}
		case "/forecast":
			w.WriteHeader(forecastStatus)
			if forecastStatus == http.StatusOK {
				io.WriteString(w, forecast)
			}
		}
	}))
	t.Cleanup(server.Close)
	return server, calls
}

func newTestServer(apiKey, upstreamURL string) *httptest.Server {
	provider := datasource.NewOpenWeatherMapProvider(apiKey, upstreamURL, time.Second)
	server := NewServer(aggregator.New(apiKey, provider, provider), 0)
	return httptest.NewServer(server.Router())
}

func postWeather(t *testing.T, baseURL, body string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	resp, err := http.Post(baseURL+"/get_weather", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post request failed: %v", err)
	}
	defer resp.Body.Close()

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return resp, payload
}

func TestGetWeatherEndToEnd(t *testing.T) {
	upstream, calls := mockUpstream(t, http.StatusOK, http.StatusOK)
	ts := newTestServer("secret", upstream.URL)
	defer ts.Close()

	resp, payload := postWeather(t, ts.URL, `{"city":"London"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("Expected an X-Request-ID header")
	}

	var current models.CurrentConditions
	if err := json.Unmarshal(payload["current"], &current); err != nil {
		t.Fatalf("decode current failed: %v", err)
	}
	if current.Temperature != 15 || current.Description != "Light Rain" || current.Visibility != 9 {
		t.Errorf("Unexpected current conditions %+v", current)
	}

	var forecast models.ForecastSummary
	if err := json.Unmarshal(payload["forecast"], &forecast); err != nil {
		t.Fatalf("decode forecast failed: %v", err)
	}
	if len(forecast.Daily) != 5 || len(forecast.Hourly) != 8 {
		t.Fatalf("Expected 5 daily and 8 hourly entries, got %d and %d", len(forecast.Daily), len(forecast.Hourly))
	}
	for i, day := range forecast.Daily {
		if expected := fmt.Sprintf("2024-03-%02d", i+1); day.Date != expected {
			t.Errorf("Daily[%d].Date = %s, expected %s", i, day.Date, expected)
		}
	}
	if forecast.Hourly[0].Description != "Scattered Clouds" {
		t.Errorf("Hourly[0].Description = %q", forecast.Hourly[0].Description)
	}

	if calls.count("/weather") != 1 || calls.count("/forecast") != 1 {
		t.Errorf("Expected one call per endpoint, got %d/%d", calls.count("/weather"), calls.count("/forecast"))
	}
}

func TestGetWeatherUsesSnakeCaseFields(t *testing.T) {
	upstream, _ := mockUpstream(t, http.StatusOK, http.StatusOK)
	ts := newTestServer("secret", upstream.URL)
	defer ts.Close()

	_, payload := postWeather(t, ts.URL, `{"city":"London"}`)

	var current map[string]interface{}
	if err := json.Unmarshal(payload["current"], &current); err != nil {
		t.Fatalf("decode current failed: %v", err)
	}
	for _, key := range []string{"feels_like", "wind_speed", "wind_direction", "weather_icon", "weather_main", "sunrise", "sunset", "timezone"} {
		if _, ok := current[key]; !ok {
			t.Errorf("Expected key %q in current", key)
		}
	}
}

func TestGetWeatherForecastUnavailable(t *testing.T) {
	upstream, _ := mockUpstream(t, http.StatusOK, http.StatusInternalServerError)
	ts := newTestServer("secret", upstream.URL)
	defer ts.Close()

	resp, payload := postWeather(t, ts.URL, `{"city":"London"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if _, ok := payload["current"]; !ok {
		t.Error("Expected a current section")
	}
	if _, ok := payload["forecast"]; ok {
		t.Error("Expected the forecast key to be omitted")
	}
}

func TestGetWeatherCityNotFound(t *testing.T) {
	upstream, calls := mockUpstream(t, http.StatusNotFound, http.StatusOK)
	ts := newTestServer("secret", upstream.URL)
	defer ts.Close()

	resp, payload := postWeather(t, ts.URL, `{"city":"Atlantis"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
	if string(payload["error"]) != `"City not found"` {
		t.Errorf("Unexpected error body %s", payload["error"])
	}
	if calls.count("/forecast") != 0 {
		t.Errorf("Expected no forecast call, got %d", calls.count("/forecast"))
	}
}

func TestGetWeatherInvalidInput(t *testing.T) {
	upstream, calls := mockUpstream(t, http.StatusOK, http.StatusOK)
	ts := newTestServer("secret", upstream.URL)
	defer ts.Close()

	for _, body := range []string{`{"city":""}`, `{"city":"   "}`, `{}`, `not json`} {
		resp, payload := postWeather(t, ts.URL, body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %s: expected status 400, got %d", body, resp.StatusCode)
		}
		if string(payload["error"]) != `"City name is required"` {
			t.Errorf("body %s: unexpected error body %s", body, payload["error"])
		}
	}
	if calls.total() != 0 {
		t.Errorf("Expected no upstream calls, got %d", calls.total())
	}
}

func TestGetWeatherNotConfigured(t *testing.T) {
	upstream, calls := mockUpstream(t, http.StatusOK, http.StatusOK)
	ts := newTestServer("", upstream.URL)
	defer ts.Close()

	for _, body := range []string{`{"city":"London"}`, `{"city":""}`} {
		resp, payload := postWeather(t, ts.URL, body)
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("body %s: expected status 500, got %d", body, resp.StatusCode)
		}
		if string(payload["error"]) != `"API key not configured"` {
			t.Errorf("body %s: unexpected error body %s", body, payload["error"])
		}
	}
	if calls.total() != 0 {
		t.Errorf("Expected no upstream calls, got %d", calls.total())
	}
}

// stubFetcher records the requested city and returns a fixed error
type stubFetcher struct {
	err     error
	gotCity string
}

func (s *stubFetcher) FetchWeather(ctx context.Context, city string) (models.AggregatedWeather, error) {
	s.gotCity = city
	return models.AggregatedWeather{}, s.err
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{aggregator.ErrInvalidInput, http.StatusBadRequest, "City name is required"},
		{aggregator.ErrNotConfigured, http.StatusInternalServerError, "API key not configured"},
		{fmt.Errorf("%w: upstream said 404", aggregator.ErrNotFound), http.StatusNotFound, "City not found"},
		{fmt.Errorf("%w: status 502", aggregator.ErrUpstream), http.StatusInternalServerError, "Failed to fetch weather data"},
		{fmt.Errorf("%w: dial tcp: refused", aggregator.ErrNetwork), http.StatusInternalServerError, "Network error occurred"},
		{fmt.Errorf("%w: secret detail", aggregator.ErrInternal), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		fetcher := &stubFetcher{err: tt.err}
		ts := httptest.NewServer(NewServer(fetcher, 0).Router())

		resp, payload := postWeather(t, ts.URL, `{"city":"London"}`)
		ts.Close()

		if fetcher.gotCity != "London" {
			t.Errorf("%v: fetcher got city %q", tt.err, fetcher.gotCity)
		}
		if resp.StatusCode != tt.status {
			t.Errorf("%v: status = %d, expected %d", tt.err, resp.StatusCode, tt.status)
		}
		var message string
		json.Unmarshal(payload["error"], &message)
		if message != tt.message {
			t.Errorf("%v: message = %q, expected %q", tt.err, message, tt.message)
		}
		if len(payload) != 1 {
			t.Errorf("%v: expected only the error key, got %v", tt.err, payload)
		}
	}
}

func TestGetWeatherRejectsOtherMethods(t *testing.T) {
	ts := httptest.NewServer(NewServer(&stubFetcher{}, 0).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/get_weather")
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", resp.StatusCode)
	}
}

func TestHealthAndIndex(t *testing.T) {
	ts := httptest.NewServer(NewServer(&stubFetcher{}, 0).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	var health map[string]string
	json.NewDecoder(resp.Body).Decode(&health)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || health["status"] != "ok" {
		t.Errorf("Unexpected health answer %d %v", resp.StatusCode, health)
	}

	resp, err = http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("index request failed: %v", err)
	}
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(page), "/get_weather") {
		t.Errorf("Unexpected index answer %d", resp.StatusCode)
	}
}

func TestNetworkFailureLogOmitsAPIKey(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	closedURL := upstream.URL
	upstream.Close()

	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	ts := newTestServer("SUPERSECRETKEY", closedURL)
	defer ts.Close()

	resp, payload := postWeather(t, ts.URL, `{"city":"London"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", resp.StatusCode)
	}
	if string(payload["error"]) != `"Network error occurred"` {
		t.Errorf("Unexpected error body %s", payload["error"])
	}
	if !strings.Contains(logs.String(), "London") {
		t.Errorf("Expected the failure to be logged, got %q", logs.String())
	}
	if strings.Contains(logs.String(), "SUPERSECRETKEY") {
		t.Errorf("Log output leaks the API key: %s", logs.String())
	}
}
