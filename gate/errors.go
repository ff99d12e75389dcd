package gate

import (
	"fmt"
	"net/http"
	"time"
)

// RateLimitError is returned when the upstream kept answering 429 Too Many
// Requests until the retry budget was exhausted.
type RateLimitError struct {
	Attempts       int           // requests issued
	LastRetryAfter time.Duration // last Retry-After received, 0 if none
}

func (e *RateLimitError) Error() string {
	if e.LastRetryAfter > 0 {
		return fmt.Sprintf("rate limit exceeded after %d attempts (retry after %v)", e.Attempts, e.LastRetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded after %d attempts", e.Attempts)
}

// TransportError is returned when no response could be obtained: connection
// failures, timeouts, or a cancelled context.
type TransportError struct {
	Attempts int  // requests issued
	Timeout  bool // the call deadline expired
	Err      error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("transport failure after %d attempts: timeout: %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("transport failure after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError is returned for any non 2xx response other than 429. It is
// never retried.
type UpstreamError struct {
	Status int
	Body   []byte
}

func (e *UpstreamError) Error() string {
	const max = 200
	body := e.Body
	if len(body) > max {
		body = body[:max]
	}
	if len(body) == 0 {
		return fmt.Sprintf("upstream error: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("upstream error: %d %s: %s", e.Status, http.StatusText(e.Status), body)
}
