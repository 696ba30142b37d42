package client

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// leveledZap adapts zap to the retryablehttp logger interface
type leveledZap struct {
	inner *zap.SugaredLogger
}

// re-writes HTTP client ERROR to WARN level (because of retries)
func (l leveledZap) Error(msg string, keysAndValues ...interface{}) {
	l.inner.Warnw(msg, keysAndValues...)
}

func (l leveledZap) Warn(msg string, keysAndValues ...interface{}) {
	l.inner.Warnw(msg, keysAndValues...)
}

func (l leveledZap) Info(msg string, keysAndValues ...interface{}) {
	l.inner.Debugw(msg, keysAndValues...)
}

func (l leveledZap) Debug(msg string, keysAndValues ...interface{}) {
	l.inner.Debugw(msg, keysAndValues...)
}

// Option configures the retrying HTTP client
type Option func(*retryablehttp.Client)

// WithMaxRetries sets the maximum number of retries
func WithMaxRetries(maxRetries int) Option {
	return func(c *retryablehttp.Client) {
		c.RetryMax = maxRetries
	}
}

// WithRetryWait sets the backoff bounds between retries
func WithRetryWait(waitMin, waitMax time.Duration) Option {
	return func(c *retryablehttp.Client) {
		c.RetryWaitMin = waitMin
		c.RetryWaitMax = waitMax
	}
}

// WithLogger routes retry logging to zap
func WithLogger(logger *zap.Logger) Option {
	return func(c *retryablehttp.Client) {
		c.Logger = retryablehttp.LeveledLogger(leveledZap{inner: logger.Sugar()})
	}
}

// NewHTTPClient creates an HTTP client for provider calls. It retries
// connection errors, 429, 502 and 503 with exponential backoff (honouring
// Retry-After), then hands the last response back unchanged so that status
// translation still sees the upstream status code. Call deadlines come from
// the request context.
func NewHTTPClient(options ...Option) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 250 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = nil
	retryClient.CheckRetry = RetryPolicy
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	for _, option := range options {
		option(retryClient)
	}

	return retryClient.StandardClient()
}

// RetryPolicy retries transient failures only
func RetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable:
		return true, nil
	default:
		return false, nil
	}
}
