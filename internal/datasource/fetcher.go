package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const maxErrorBody = 512

// Fetcher returns the body at a URL.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// CachedFetcher fetches through the rate-limited client and a response
// cache. Only 2xx bodies are cached.
type CachedFetcher struct {
	client *RateLimitedHTTPClient
	cache  *ResponseCache
}

// NewCachedFetcher creates a fetcher. cache may be nil.
func NewCachedFetcher(client *RateLimitedHTTPClient, cache *ResponseCache) *CachedFetcher {
	return &CachedFetcher{client: client, cache: cache}
}

// Get returns the response body. A non-2xx status is an *HTTPStatusError;
// 404 also matches ErrUpstreamUnavailable.
func (f *CachedFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	if body, ok := f.cache.Get(url); ok {
		return body, nil
	}

	resp, err := f.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", redact(url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPStatusError{URL: redact(url), StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", redact(url), err)
	}
	f.cache.Set(url, body)
	return body, nil
}

// redact drops the query string, which may carry an API key.
func redact(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		return url[:i]
	}
	return url
}

// statusOf extracts the HTTP status from a fetch error, or 0.
func statusOf(err error) int {
	var se *HTTPStatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

var _ Fetcher = (*CachedFetcher)(nil)
