package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrTooManyRedirects is returned when a redirect chain exceeds MaxRedirects.
var ErrTooManyRedirects = errors.New("too many redirects")

// NetworkError represents a transport-level failure (DNS, connect, TLS, body read, refused redirect).
type NetworkError struct {
	URL     string
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error for URL '%s': %s: %v", e.URL, e.Message, e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError.
func NewNetworkError(url, message string, err error) error {
	return &NetworkError{URL: url, Message: message, Err: err}
}

// HTTPError represents an HTTP-level error (non-2xx status code).
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error for URL '%s': status %d", e.URL, e.StatusCode)
}

// NewHTTPErrorWithURL creates a new HTTPError.
func NewHTTPErrorWithURL(statusCode int, url string) error {
	return &HTTPError{StatusCode: statusCode, URL: url}
}

// IsTimeout reports whether err was caused by a deadline rather than a refusal or a reset.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
