package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"time"
)

const (
	httpTimeout     = 10 * time.Second
	defaultAttempts = 3
	defaultBackoff  = time.Second
)

var (
	// ErrNotFound is returned when a resource doesn't exist in the remote API.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-2xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for catalog requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// redactURLError strips the query string from *url.Error values so that API
// keys never end up in logs.
func redactURLError(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	u, perr := url.Parse(ue.URL)
	if perr != nil {
		return ue.Err
	}
	u.RawQuery = ""
	return &url.Error{Op: ue.Op, URL: u.String(), Err: ue.Err}
}
