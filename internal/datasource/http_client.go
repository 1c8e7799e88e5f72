package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/gamblebot/internal/metrics"
	"golang.org/x/time/rate"
)

// HTTPClientConfig holds configuration for HTTP clients
type HTTPClientConfig struct {
	Timeout           time.Duration
	MaxRetries        int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RateLimit         float64 // requests per second
	CircuitBreakerMax int     // max consecutive failures before circuit break
	// BreakerCooldown is how long an open breaker rejects requests before
	// letting a single trial request through.
	BreakerCooldown time.Duration
}

// DefaultHTTPClientConfig returns recommended defaults
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:           30 * time.Second,
		MaxRetries:        3,
		RetryWaitMin:      250 * time.Millisecond,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         5.0,
		CircuitBreakerMax: 5,
		BreakerCooldown:   time.Minute,
	}
}

// RateLimitedHTTPClient wraps retryablehttp.Client with rate limiting and circuit breaker
type RateLimitedHTTPClient struct {
	client            *retryablehttp.Client
	limiter           *rate.Limiter
	circuitBreakerMax int
	cooldown          time.Duration
	now               func() time.Time

	mu                sync.Mutex
	consecutiveErrors int
	isOpen            bool
	openedAt          time.Time
	trialInFlight     bool
	lastError         error

	logger *logrus.Entry
}

// NewRateLimitedHTTPClient creates a new rate-limited HTTP client
func NewRateLimitedHTTPClient(cfg HTTPClientConfig, logger *logrus.Logger) *RateLimitedHTTPClient {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	entry := logger.WithField("component", "http")

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = customRetryPolicy()
	// Hand non-2xx responses back to the caller instead of a generic error
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = DefaultHTTPClientConfig().BreakerCooldown
	}

	return &RateLimitedHTTPClient{
		client:            retryClient,
		limiter:           rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		circuitBreakerMax: cfg.CircuitBreakerMax,
		cooldown:          cooldown,
		now:               time.Now,
		logger:            entry,
	}
}

// Do executes an HTTP request with rate limiting and circuit breaker. Once
// the cooldown has passed an open breaker admits one trial request: success
// closes it, failure keeps it open for another cooldown.
func (c *RateLimitedHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	trial, err := c.admit()
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.release(trial)
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	retryReq, err := retryablehttp.FromRequest(req.WithContext(ctx))
	if err != nil {
		c.release(trial)
		return nil, err
	}
	resp, err := c.client.Do(retryReq)

	c.mu.Lock()
	defer c.mu.Unlock()
	if trial {
		c.trialInFlight = false
	}

	if err != nil || resp.StatusCode >= 500 {
		c.consecutiveErrors++
		if err != nil {
			c.lastError = err
		} else {
			c.lastError = fmt.Errorf("status %d", resp.StatusCode)
		}
		switch {
		case trial:
			c.openedAt = c.now()
			c.logger.WithField("url", req.URL.Redacted()).WithError(c.lastError).Warn("Feed still failing, circuit breaker stays open")
		case c.consecutiveErrors >= c.circuitBreakerMax && !c.isOpen:
			c.isOpen = true
			c.openedAt = c.now()
			metrics.RecordCircuitBreakerTrip()
			c.logger.WithFields(logrus.Fields{
				"consecutive_errors": c.consecutiveErrors,
				"url":                req.URL.Redacted(),
				"cooldown":           c.cooldown.String(),
			}).WithError(c.lastError).Error("Circuit breaker opened")
		}
		return resp, err
	}

	if c.isOpen {
		c.logger.WithField("url", req.URL.Redacted()).Info("Feed recovered, circuit breaker closed")
	}
	c.isOpen = false
	c.consecutiveErrors = 0
	c.lastError = nil
	return resp, nil
}

// admit reports whether a request may proceed and whether it is the trial
// request of an open breaker.
func (c *RateLimitedHTTPClient) admit() (trial bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return false, nil
	}
	if c.trialInFlight || c.now().Sub(c.openedAt) < c.cooldown {
		return false, fmt.Errorf("%w: %v", ErrCircuitOpen, c.lastError)
	}
	c.trialInFlight = true
	return true, nil
}

func (c *RateLimitedHTTPClient) release(trial bool) {
	if !trial {
		return
	}
	c.mu.Lock()
	c.trialInFlight = false
	c.mu.Unlock()
}

// Get executes a GET request
func (c *RateLimitedHTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Close closes any resources held by the client
func (c *RateLimitedHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// customRetryPolicy defines which HTTP responses should trigger a retry
func customRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			// Retry on network errors
			return true, nil
		}

		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		}

		return false, nil
	}
}
