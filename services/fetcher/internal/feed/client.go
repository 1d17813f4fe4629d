// Package feed fetches and parses the upstream RSS feeds and maps their items
// to stored records.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/example/morning-report/internal/platform/metrics"
	"github.com/example/morning-report/internal/platform/ratelimit"
)

// maxFeedBytes caps how much of an upstream response is parsed.
const maxFeedBytes = 8 << 20

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed: GET %s: status %d", e.URL, e.Code)
}

// Client fetches feeds through an optional rate limiter and circuit breaker.
// It never retries; a failed fetch is reported to the caller as is.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	Limiter    *ratelimit.Limiter
	CB         *gobreaker.CircuitBreaker
	Log        *zap.Logger
}

type Option func(*Client)

// WithCircuitBreaker routes every fetch through cb.
func WithCircuitBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) { c.CB = cb }
}

func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) { c.Limiter = l }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.UserAgent = ua }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.Log = log }
}

func New(opts ...Option) *Client {
	c := &Client{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		UserAgent:  "morning-report-fetcher/1.0",
		Log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewBreaker builds the breaker shared by all feed fetches. It opens after
// threshold consecutive failures.
func NewBreaker(name string, maxRequests uint32, interval, timeout time.Duration, threshold uint32, log *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: maxRequests,
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit-breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// Fetch downloads and parses the feed at url. label names the feed in
// metrics.
func (c *Client) Fetch(ctx context.Context, label, url string) (*gofeed.Feed, error) {
	f, err := c.fetchWithBreaker(ctx, url)
	result := "ok"
	if err != nil {
		result = "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result = "breaker_open"
		}
	}
	metrics.FeedFetchesTotal.WithLabelValues(label, result).Inc()
	return f, err
}

func (c *Client) fetchWithBreaker(ctx context.Context, url string) (*gofeed.Feed, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if c.CB == nil {
		return c.fetch(ctx, url)
	}
	res, err := c.CB.Execute(func() (interface{}, error) {
		return c.fetch(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	return res.(*gofeed.Feed), nil
}

func (c *Client) fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("feed: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed: GET %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	// gofeed parsers keep per-parse state, so each fetch gets its own.
	f, err := gofeed.NewParser().Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("feed: parse %s: %w", url, err)
	}
	c.Log.Debug("feed fetched", zap.String("url", url), zap.Int("items", len(f.Items)))
	return f, nil
}
