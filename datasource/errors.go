package datasource

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrCityNotFound is returned when the upstream cannot resolve the requested city
	ErrCityNotFound = errors.New("city not found")

	// ErrUpstreamStatus is returned when the upstream answers with an unexpected status
	ErrUpstreamStatus = errors.New("unexpected upstream status")

	// ErrNetwork is returned when the upstream could not be reached
	ErrNetwork = errors.New("upstream unreachable")

	// ErrMalformedResponse is returned when an upstream body does not have the expected shape
	ErrMalformedResponse = errors.New("malformed upstream response")

	// ErrRateLimited is returned when a rate limited call could not be admitted in time
	ErrRateLimited = errors.New("rate limit wait canceled")
)

// StatusError carries a non-200 upstream answer
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// Unwrap maps a 404 to ErrCityNotFound and anything else to ErrUpstreamStatus
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrCityNotFound
	}
	return ErrUpstreamStatus
}
