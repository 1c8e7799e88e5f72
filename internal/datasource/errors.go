package datasource

import (
	"errors"
	"fmt"
	"net/http"
)

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

var (
	// ErrUpstreamUnavailable means a feed has not been published (HTTP 404).
	ErrUpstreamUnavailable = errors.New("upstream data unavailable")
	ErrRateLimitExceeded   = errors.New("rate limit exceeded")
	ErrCircuitOpen         = errors.New("circuit breaker open")
	ErrMissingAPIKey       = errors.New("odds API key not configured")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// HTTPStatusError is a non-2xx response.
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// Unwrap maps 404 to ErrUpstreamUnavailable and 429 to ErrRateLimitExceeded.
func (e *HTTPStatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrUpstreamUnavailable
	case http.StatusTooManyRequests:
		return ErrRateLimitExceeded
	}
	return nil
}

// codeForStatus maps an HTTP status to an error code.
func codeForStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrCodeAuthenticationFailed
	case status == http.StatusTooManyRequests:
		return ErrCodeRateLimitExceeded
	case status >= 500:
		return ErrCodeServerError
	default:
		return ErrCodeUnknown
	}
}
