package internal

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
)

const (
	defaultMaxRetries = 5
	defaultBaseDelay  = time.Second
)

// Client issues authenticated requests to the Limitless API and retries
// rate-limited calls with backoff. A zero onWait is fine; it is only a
// user-visible notice hook for multi-second pauses.
type Client struct {
	baseURL    string
	apiKey     string
	httpc      *http.Client
	maxRetries int
	baseDelay  time.Duration
	onWait     func(delay time.Duration)
}

// NewClient creates a Client for the given base URL and API key
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpc:      &http.Client{Timeout: 30 * time.Second},
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
	}
}

// SetAPIKey replaces the credential used for subsequent requests. Called
// by the configuration layer when the key changes; the key is never read
// from ambient process state at request time.
func (c *Client) SetAPIKey(key string) {
	c.apiKey = key
}

// OnRateLimitWait registers a callback invoked before each backoff wait
func (c *Client) OnRateLimitWait(fn func(delay time.Duration)) {
	c.onWait = fn
}

// Get performs an authenticated GET and returns the raw JSON body.
// 429 responses are retried with backoff up to the retry ceiling; any
// other failure surfaces immediately as an *APIError.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, query)
}

// Delete performs an authenticated DELETE
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	for retry := 0; ; retry++ {
		body, apiErr := c.once(ctx, method, u)
		if apiErr == nil {
			return body, nil
		}
		if !apiErr.IsRetryable() || retry >= c.maxRetries {
			return nil, apiErr.APIError
		}

		delay := c.retryDelay(apiErr.retryAfter, retry)
		LogDebug("Rate limited on %s %s, retry %d/%d in %s", method, path, retry+1, c.maxRetries, delay)
		if c.onWait != nil {
			c.onWait(delay)
		}
		if err := sleepCtx(ctx, delay); err != nil {
			return nil, &APIError{Kind: ErrTransport, Err: err}
		}
	}
}

// once performs a single request attempt and classifies its outcome
func (c *Client) once(ctx context.Context, method, url string) (json.RawMessage, *apiAttemptError) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, attempt(&APIError{Kind: ErrTransport, Err: err}, "")
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, attempt(&APIError{Kind: ErrTransport, Err: err}, "")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, attempt(&APIError{Kind: ErrRateLimited, Status: resp.StatusCode}, resp.Header.Get("Retry-After"))
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, attempt(&APIError{Kind: ErrUnauthorized, Status: resp.StatusCode}, "")
	case resp.StatusCode == http.StatusNotFound:
		return nil, attempt(&APIError{Kind: ErrNotFound, Status: resp.StatusCode}, "")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, attempt(&APIError{Kind: ErrHTTP, Status: resp.StatusCode}, "")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, attempt(&APIError{Kind: ErrTransport, Status: resp.StatusCode, Err: err}, "")
	}
	if len(data) == 0 {
		return json.RawMessage(nil), nil
	}
	if !json.Valid(data) {
		return nil, attempt(&APIError{Kind: ErrInvalidResponse, Status: resp.StatusCode, Err: fmt.Errorf("body is not valid JSON")}, "")
	}
	return json.RawMessage(data), nil
}

// apiAttemptError carries the Retry-After header alongside the classified
// error so backoff computation stays inside the executor.
type apiAttemptError struct {
	*APIError
	retryAfter string
}

func attempt(e *APIError, retryAfter string) *apiAttemptError {
	return &apiAttemptError{APIError: e, retryAfter: retryAfter}
}

// retryDelay computes the wait before the given 0-indexed retry. A
// Retry-After header wins: integer seconds first, then an HTTP date
// relative to now. Past dates mean retry immediately. Without a header
// the delay is baseDelay * 2^retry.
func (c *Client) retryDelay(retryAfter string, retry int) time.Duration {
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil {
			if secs <= 0 {
				return 0
			}
			return time.Duration(secs) * time.Second
		}
		if at, err := http.ParseTime(retryAfter); err == nil {
			d := time.Until(at)
			if d <= 0 {
				return 0
			}
			return d
		}
	}
	return c.baseDelay * (1 << uint(retry))
}

// sleepCtx waits for the given duration without blocking other sync
// procedures, returning early if the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
