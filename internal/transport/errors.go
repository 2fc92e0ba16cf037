package transport

import (
	"fmt"
	"net/http"
)

// HTTPError is returned when the server answered with a non-2xx status.
// The response body is kept so callers can pull a message out of it.
type HTTPError struct {
	StatusCode int
	StatusText string
	Header     http.Header
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.StatusText)
}

// NetworkError is returned when no response was received at all
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}
