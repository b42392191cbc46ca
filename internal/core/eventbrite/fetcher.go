// Package eventbrite talks to Eventbrite: it scrapes marketplace search
// pages for embedded event data and calls the REST API for per-event
// ticketing and description content.
package eventbrite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrTooManyRedirects indicates too many HTTP redirects.
var ErrTooManyRedirects = errors.New("too many redirects")

// ErrHTTPStatus indicates an HTTP response with a non-200 status code.
var ErrHTTPStatus = errors.New("HTTP status not OK")

const (
	defaultFetchTimeoutSeconds = 10
	globalLimiterBurst         = 2
	maxRedirects               = 5
	maxBodySizeMB              = 5
	maxBodySizeBytes           = maxBodySizeMB * 1024 * 1024
	domainLimiterRate          = 1
	domainLimiterBurst         = 2

	userAgent = "EventHarvester/1.0 (Automotive Event Aggregator)"
)

// Fetcher performs rate-limited GETs against Eventbrite hosts. One global
// limiter paces the whole harvest; per-domain limiters keep the search pages
// and the API from bursting the same host.
type Fetcher struct {
	client         *http.Client
	globalLimiter  *rate.Limiter
	domainLimiters map[string]*rate.Limiter
	mu             sync.RWMutex
}

// NewFetcher creates a Fetcher limited to rps requests per second overall.
// Non-positive timeout falls back to the default.
func NewFetcher(rps float64, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeoutSeconds * time.Second
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return ErrTooManyRedirects
				}

				return nil
			},
		},
		globalLimiter:  rate.NewLimiter(rate.Limit(rps), globalLimiterBurst),
		domainLimiters: make(map[string]*rate.Limiter),
	}
}

// Fetch GETs an HTML page.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	return f.do(ctx, rawURL, "text/html,application/xhtml+xml", "")
}

// FetchJSON GETs an API resource, attaching bearer auth when token is
// non-empty.
func (f *Fetcher) FetchJSON(ctx context.Context, rawURL, token string) ([]byte, error) {
	return f.do(ctx, rawURL, "application/json", token)
}

func (f *Fetcher) do(ctx context.Context, rawURL, accept, token string) ([]byte, error) {
	// Global rate limit
	if err := f.globalLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("global rate limiter wait: %w", err)
	}

	// Per-domain rate limit
	domainLimiter := f.getDomainLimiter(f.extractDomain(rawURL))
	if err := domainLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("domain rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}

func (f *Fetcher) getDomainLimiter(domain string) *rate.Limiter {
	f.mu.RLock()
	limiter, exists := f.domainLimiters[domain]
	f.mu.RUnlock()

	if exists {
		return limiter
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double check
	if limiter, exists := f.domainLimiters[domain]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(domainLimiterRate, domainLimiterBurst)
	f.domainLimiters[domain] = limiter

	return limiter
}

func (f *Fetcher) extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return strings.ToLower(u.Host)
}
