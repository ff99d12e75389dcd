// Package gate is a rate limited HTTP client for a single origin.
//
// A Gate enforces a minimum interval between two requests, backs off when the
// upstream answers 429 Too Many Requests, and retries transport failures a
// bounded number of times. It returns raw response bodies and never
// interprets them.
//
// Every call on the same Gate shares the same pacing: concurrent callers are
// linearized, so two requests never start within the minimum interval of each
// other.
package gate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Defaults for a Gate, suited to the CoinGecko public API.
const (
	DefaultMinInterval      = 1500 * time.Millisecond
	DefaultMaxRetries       = 3
	DefaultTransportBackoff = 2 * time.Second
	DefaultTimeout          = 30 * time.Second
)

// MaxBackoff caps the exponential backoff after a 429 without Retry-After.
const MaxBackoff = time.Hour

// Request is a GET request relative to the gate's base URL.
type Request struct {
	Path  string
	Query url.Values
}

// Gate is a paced and retrying GET client. It is safe for concurrent use.
type Gate struct {
	baseURL          string
	minInterval      time.Duration
	maxRetries       int
	transportBackoff time.Duration
	timeout          time.Duration
	client           *http.Client
	clock            Clock
	logger           *log.Logger
	header           http.Header

	sem  chan struct{} // one slot, held for the whole call
	last time.Time     // when the previous request returned, guarded by sem
}

// Option configures a Gate.
type Option func(*Gate)

// WithMinInterval sets the minimum delay between two requests.
func WithMinInterval(d time.Duration) Option { return func(g *Gate) { g.minInterval = d } }

// WithMaxRetries sets the maximum number of requests issued by a single call.
// Values below 1 mean 1.
func WithMaxRetries(n int) Option { return func(g *Gate) { g.maxRetries = n } }

// WithTransportBackoff sets the delay before retrying a transport failure.
func WithTransportBackoff(d time.Duration) Option {
	return func(g *Gate) { g.transportBackoff = d }
}

// WithTimeout sets the deadline of a call, waits and retries included.
func WithTimeout(d time.Duration) Option { return func(g *Gate) { g.timeout = d } }

// WithClient sets the HTTP client. Its transport gets decorated, the client
// itself is not modified.
func WithClient(c *http.Client) Option { return func(g *Gate) { g.client = c } }

// WithClock sets the clock used for pacing, backoff and deadlines.
func WithClock(c Clock) Option { return func(g *Gate) { g.clock = c } }

// WithLogger sets the logger of requests and retries.
func WithLogger(l *log.Logger) Option { return func(g *Gate) { g.logger = l } }

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option { return func(g *Gate) { g.header.Add(key, value) } }

// New returns a Gate sending requests to baseURL.
func New(baseURL string, opts ...Option) *Gate {
	g := &Gate{
		baseURL:          strings.TrimSuffix(baseURL, "/"),
		minInterval:      DefaultMinInterval,
		maxRetries:       DefaultMaxRetries,
		transportBackoff: DefaultTransportBackoff,
		timeout:          DefaultTimeout,
		client:           http.DefaultClient,
		clock:            realClock{},
		logger:           log.Default(),
		header:           make(http.Header),
		sem:              make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.maxRetries < 1 {
		g.maxRetries = 1
	}

	// work on a copy, never on the caller's client.
	client := *g.client
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	client.Transport = &logTransport{base: base, log: g.logger}
	g.client = &client
	return g
}

// response is what is left of an HTTP response once read.
type response struct {
	status int
	header http.Header
	body   []byte
}

// Get issues a GET request and returns the body of the 2xx response.
//
// It fails with *RateLimitError, *TransportError or *UpstreamError.
func (g *Gate) Get(ctx context.Context, req Request) ([]byte, error) {
	deadline := g.clock.Now().Add(g.timeout)

	select {
	case g.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, contextError(0, ctx.Err())
	}
	defer func() { <-g.sem }()

	var (
		attempts       int
		backoff        time.Duration // extra wait before the next attempt
		rateLimited    int           // 429 received so far
		lastRetryAfter time.Duration
		lastErr        error
	)
	for attempts < g.maxRetries {
		wait := backoff
		if !g.last.IsZero() {
			if pace := g.minInterval - g.clock.Now().Sub(g.last); pace > wait {
				wait = pace
			}
		}
		if wait > 0 {
			if g.clock.Now().Add(wait).After(deadline) {
				return nil, &TransportError{Attempts: attempts, Timeout: true, Err: context.DeadlineExceeded}
			}
			if err := g.clock.Sleep(ctx, wait); err != nil {
				return nil, contextError(attempts, err)
			}
		}

		attempts++
		resp, err := g.do(ctx, req, deadline)
		g.last = g.clock.Now()

		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, contextError(attempts, ctx.Err())
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, &TransportError{Attempts: attempts, Timeout: true, Err: err}
			}
			lastErr = err
			backoff = g.transportBackoff
			if attempts < g.maxRetries {
				g.logger.Printf("GET %v failed, retrying in %v: %v", req.Path, backoff, err)
			}

		case resp.status == http.StatusTooManyRequests:
			lastErr = nil
			rateLimited++
			if d, ok := retryAfter(resp.header, g.clock.Now()); ok {
				lastRetryAfter = d
				backoff = d
			} else {
				backoff = expBackoff(g.minInterval, rateLimited-1)
			}
			if attempts < g.maxRetries {
				g.logger.Printf("GET %v rate limited, retrying in %v", req.Path, backoff)
			}

		case resp.status >= 200 && resp.status < 300:
			return resp.body, nil

		default:
			return nil, &UpstreamError{Status: resp.status, Body: resp.body}
		}
	}

	if lastErr != nil {
		return nil, &TransportError{Attempts: attempts, Err: lastErr}
	}
	return nil, &RateLimitError{Attempts: attempts, LastRetryAfter: lastRetryAfter}
}

// expBackoff returns base x 2^n, capped at MaxBackoff.
func expBackoff(base time.Duration, n int) time.Duration {
	d := base
	for ; n > 0 && d < MaxBackoff; n-- {
		d *= 2
	}
	return min(d, MaxBackoff)
}

// GetJSON issues a GET request and decodes the JSON body into v.
func (g *Gate) GetJSON(ctx context.Context, req Request, v any) error {
	body, err := g.Get(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("cannot decode %v: %w", req.Path, err)
	}
	return nil
}

// URL returns the absolute URL of req.
func (g *Gate) URL(req Request) string {
	addr := g.baseURL + "/" + strings.TrimPrefix(req.Path, "/")
	if len(req.Query) > 0 {
		addr += "?" + req.Query.Encode()
	}
	return addr
}

// do performs a single round trip, bounded by the call deadline.
func (g *Gate) do(ctx context.Context, req Request, deadline time.Time) (*response, error) {
	remaining := deadline.Sub(g.clock.Now())
	if remaining <= 0 {
		return nil, context.DeadlineExceeded
	}
	ctx, cancel := context.WithTimeout(ctx, remaining)
	defer cancel()

	hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.URL(req), nil)
	if err != nil {
		return nil, err
	}
	for k, v := range g.header {
		hreq.Header[k] = v
	}
	if hreq.Header.Get("Accept") == "" {
		hreq.Header.Set("Accept", "application/json")
	}

	resp, err := g.client.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

// retryAfter parses the Retry-After header, either delay-seconds or an
// HTTP-date relative to now.
func retryAfter(h http.Header, now time.Time) (time.Duration, bool) {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		d := t.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}

func contextError(attempts int, err error) error {
	return &TransportError{Attempts: attempts, Timeout: errors.Is(err, context.DeadlineExceeded), Err: err}
}
