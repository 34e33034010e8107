package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public card database API.
	DefaultBaseURL = "https://api.swu-db.com"

	defaultUserAgent  = "cardscope/0.1 (+https://github.com/abelbrown/cardscope)"
	maxResponseBytes  = 10 << 20
	maxRetryAfter     = 30 * time.Second
	defaultMaxRetries = 3
)

// ClientOptions configures a Client. Zero values pick defaults.
type ClientOptions struct {
	BaseURL      string
	Timeout      time.Duration // per HTTP attempt
	RateInterval time.Duration // minimum spacing between requests
	MaxRetries   int           // 0 picks the default, negative disables retries
	UserAgent    string
}

// Client searches the card API over HTTP.
type Client struct {
	baseURL    string
	userAgent  string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoffs   []time.Duration

	// Identical searches already in flight share one request.
	inflight singleflight.Group
}

// NewClient creates a Client.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RateInterval <= 0 {
		opts.RateInterval = 250 * time.Millisecond
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	} else if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		client:     &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Every(opts.RateInterval), 1),
		maxRetries: opts.MaxRetries,
		backoffs:   []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// Search queries /cards/search for term. A search for a term that is
// already being fetched waits for that request instead of issuing another,
// and is bound by the first caller's context.
func (c *Client) Search(ctx context.Context, term string) (Result, error) {
	u := c.baseURL + "/cards/search?" + url.Values{"q": {term}}.Encode()
	v, err, _ := c.inflight.Do(u, func() (any, error) {
		return c.doWithRetry(ctx, u)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (c *Client) backoff(attempt int) time.Duration {
	if attempt < len(c.backoffs) {
		return c.backoffs[attempt]
	}
	return c.backoffs[len(c.backoffs)-1]
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("search: request cancelled during retry: %w", ctx.Err())
	case <-time.After(d):
		return nil
	}
}

// doWithRetry GETs u, retrying on 429, 5xx and unparseable bodies with
// backoff. A 429 honors Retry-After (seconds, capped).
func (c *Client) doWithRetry(ctx context.Context, u string) (Result, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return Result{}, fmt.Errorf("search: rate limiter wait failed: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return Result{}, fmt.Errorf("search: failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, fmt.Errorf("search: request cancelled: %w", ctx.Err())
			}
			lastErr = fmt.Errorf("search: request failed: %w", err)
			if attempt < c.maxRetries {
				if err := c.sleep(ctx, c.backoff(attempt)); err != nil {
					return Result{}, err
				}
			}
			continue
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if err != nil {
			return Result{}, fmt.Errorf("search: failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			var result Result
			if err := json.Unmarshal(body, &result); err != nil {
				lastErr = fmt.Errorf("search: failed to parse response: %w", err)
				if attempt < c.maxRetries {
					if err := c.sleep(ctx, c.backoff(attempt)); err != nil {
						return Result{}, err
					}
				}
				continue
			}
			return result, nil
		}

		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		if !retryable {
			return Result{}, fmt.Errorf("search: api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		lastErr = fmt.Errorf("search: api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))

		if attempt < c.maxRetries {
			delay := c.backoff(attempt)
			if resp.StatusCode == http.StatusTooManyRequests {
				if ra := resp.Header.Get("Retry-After"); ra != "" {
					if seconds, err := strconv.Atoi(ra); err == nil && seconds > 0 {
						delay = min(time.Duration(seconds)*time.Second, maxRetryAfter)
					}
				}
			}
			if err := c.sleep(ctx, delay); err != nil {
				return Result{}, err
			}
		}
	}

	return Result{}, fmt.Errorf("search: all retries exhausted: %w", lastErr)
}
