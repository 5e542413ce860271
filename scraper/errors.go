package scraper

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoData is delivered to queue waiters when every strategy in the chain
// failed or produced zero posts. Callers should treat it as "no data
// available", not as a system malfunction.
var ErrNoData = errors.New("no data available from any strategy")

// AuthError means credentials are missing or the token endpoint rejected us.
// It carries the HTTP status and response body for diagnosability.
type AuthError struct {
	Status int
	Body   string
	Reason string
}

func (e *AuthError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("authentication: %s", e.Reason)
	}
	return fmt.Sprintf("authentication: token endpoint returned %d: %s", e.Status, e.Body)
}

// RateLimitError is an HTTP 429 from an upstream, with the retry-after hint
// the server gave us (60s when absent).
type RateLimitError struct {
	Upstream   string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limited, retry after %s", e.Upstream, e.RetryAfter)
}

// UpstreamError is any other non-2xx or transport failure from a strategy.
type UpstreamError struct {
	Upstream string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Upstream, e.Body)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Upstream, e.Status, e.Body)
}

// IsRateLimited reports whether err (anywhere in its chain) is a 429.
func IsRateLimited(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

func truncateError(err error) string {
	msg := err.Error()
	if len(msg) > 300 {
		return msg[:300] + "..."
	}
	return msg
}
