package tunebat

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	Code       int           // HTTP status code
	RetryAfter time.Duration // Parsed Retry-After header, zero if absent
}

// Error returns the error message.
func (e *StatusError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("tunebat: unexpected status %d (retry after %s)", e.Code, e.RetryAfter)
	}
	return fmt.Sprintf("tunebat: unexpected status %d", e.Code)
}

// RateLimited reports whether the API rejected the request with HTTP 429.
func (e *StatusError) RateLimited() bool {
	return e.Code == http.StatusTooManyRequests
}

// Temporary returns true for statuses that usually clear on their own:
// rate limiting and 5xx server errors. The client never retries by itself;
// this is a hint for callers.
func (e *StatusError) Temporary() bool {
	return e.RateLimited() || e.Code >= 500
}

// Predefined errors for common cases.
var (
	// ErrMalformedResponse is returned when a response body is not valid
	// JSON or is missing the data.items list.
	ErrMalformedResponse = errors.New("tunebat: malformed response")

	// ErrInvalidConfig is returned when client configuration is invalid.
	ErrInvalidConfig = errors.New("tunebat: invalid configuration")
)

// parseRetryAfter understands both forms of the Retry-After header:
// delay-seconds and an HTTP date.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d.Round(time.Second)
		}
	}

	return 0
}
