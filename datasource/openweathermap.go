package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"weather-proxy/models"
)

// OpenWeatherMapProvider implements both WeatherProvider and ForecastSource interfaces
type OpenWeatherMapProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenWeatherMapProvider creates a new OpenWeatherMap provider.
// An empty baseURL selects DefaultBaseURL and a non-positive timeout selects DefaultTimeout.
func NewOpenWeatherMapProvider(apiKey, baseURL string, timeout time.Duration) *OpenWeatherMapProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OpenWeatherMapProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the provider name
func (p *OpenWeatherMapProvider) Name() string {
	return "OpenWeatherMap"
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmWind struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
}

// owmCurrentResponse mirrors /weather. Coord, Main and a non-empty Weather are required;
// Wind and Visibility are optional and default to zero.
type owmCurrentResponse struct {
	Coord *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Weather    []owmCondition `json:"weather"`
	Wind       *owmWind       `json:"wind"`
	Visibility *float64       `json:"visibility"`
	Timezone   int            `json:"timezone"`
}

// owmForecastResponse mirrors /forecast, a list of 3-hour steps
type owmForecastResponse struct {
	List []struct {
		Dt    int64  `json:"dt"`
		DtTxt string `json:"dt_txt"`
		Main  *struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Weather []owmCondition `json:"weather"`
		Wind    *owmWind       `json:"wind"`
	} `json:"list"`
}

// GetWeather fetches current weather for a city
func (p *OpenWeatherMapProvider) GetWeather(ctx context.Context, city string) (models.CurrentObservation, error) {
	params := url.Values{}
	params.Add("q", city)

	body, err := p.get(ctx, "weather", params)
	if err != nil {
		return models.CurrentObservation{}, err
	}

	var response owmCurrentResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return models.CurrentObservation{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	switch {
	case response.Coord == nil:
		return models.CurrentObservation{}, fmt.Errorf("%w: missing coord", ErrMalformedResponse)
	case response.Main == nil:
		return models.CurrentObservation{}, fmt.Errorf("%w: missing main", ErrMalformedResponse)
	case len(response.Weather) == 0:
		return models.CurrentObservation{}, fmt.Errorf("%w: missing weather", ErrMalformedResponse)
	}

	data := models.CurrentObservation{
		Latitude:    response.Coord.Lat,
		Longitude:   response.Coord.Lon,
		City:        response.Name,
		Country:     response.Sys.Country,
		Temperature: response.Main.Temp,
		FeelsLike:   response.Main.FeelsLike,
		Humidity:    response.Main.Humidity,
		Pressure:    response.Main.Pressure,
		Description: response.Weather[0].Description,
		Icon:        response.Weather[0].Icon,
		Main:        response.Weather[0].Main,
		Sunrise:     response.Sys.Sunrise,
		Sunset:      response.Sys.Sunset,
		Timezone:    response.Timezone,
	}
	if response.Wind != nil {
		data.WindSpeed = response.Wind.Speed
		data.WindDeg = response.Wind.Deg
	}
	if response.Visibility != nil {
		data.Visibility = *response.Visibility
	}

	return data, nil
}

// FetchForecast fetches the 5-day, 3-hour step forecast for a coordinate pair
func (p *OpenWeatherMapProvider) FetchForecast(ctx context.Context, lat, lon float64) ([]models.ForecastEntry, error) {
	params := url.Values{}
	params.Add("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Add("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	body, err := p.get(ctx, "forecast", params)
	if err != nil {
		return nil, err
	}

	var response owmForecastResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	entries := make([]models.ForecastEntry, 0, len(response.List))
	for i, item := range response.List {
		switch {
		case item.Main == nil:
			return nil, fmt.Errorf("%w: list[%d] missing main", ErrMalformedResponse, i)
		case len(item.Weather) == 0:
			return nil, fmt.Errorf("%w: list[%d] missing weather", ErrMalformedResponse, i)
		case item.DtTxt == "":
			return nil, fmt.Errorf("%w: list[%d] missing dt_txt", ErrMalformedResponse, i)
		}

		entry := models.ForecastEntry{
			Timestamp:   item.Dt,
			LocalTime:   item.DtTxt,
			Temperature: item.Main.Temp,
			Humidity:    item.Main.Humidity,
			Description: item.Weather[0].Description,
			Icon:        item.Weather[0].Icon,
		}
		if item.Wind != nil {
			entry.WindSpeed = item.Wind.Speed
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// get performs an authenticated GET against an API path and returns the body of a 200 answer
func (p *OpenWeatherMapProvider) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	// Build URL
	endpoint := p.baseURL + "/" + path
	params.Set("appid", p.apiKey)
	params.Set("units", "metric") // Use metric units

	// Create request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", redactURL(err, endpoint))
	}

	// Execute request
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, redactURL(err, endpoint))
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrNetwork, err)
	}

	// Check for error status code
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// redactURL drops the query from the URL carried by a *url.Error so the appid never reaches logs
func redactURL(err error, endpoint string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = endpoint
	}
	return err
}

// Ensure OpenWeatherMapProvider implements both interfaces
var _ Provider = (*OpenWeatherMapProvider)(nil)
