package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/pfrederiksen/hackfind/internal/logger"
)

// RetryConfig controls retries of a single request.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultRetryConfig is used unless WithRetry overrides it.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:  3,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     10 * time.Second,
}

// NoRetry performs every request exactly once.
var NoRetry = RetryConfig{}

// retryGet runs fn with exponential backoff. Only transient failures are
// retried: transport errors, timeouts, 429 and 5xx responses.
func retryGet(ctx context.Context, rc RetryConfig, fn func() ([]byte, error)) ([]byte, error) {
	var body []byte

	operation := func() error {
		b, err := fn()
		if err == nil {
			body = b
			return nil
		}
		if ctx.Err() != nil || !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = rc.InitialWait
	bo.MaxInterval = rc.MaxWait
	bo.MaxElapsedTime = 0
	if bo.InitialInterval <= 0 {
		bo.InitialInterval = time.Millisecond
	}
	if bo.MaxInterval < bo.InitialInterval {
		bo.MaxInterval = bo.InitialInterval
	}

	var policy backoff.BackOff = backoff.WithMaxRetries(bo, uint64(max(rc.MaxRetries, 0)))
	policy = backoff.WithContext(policy, ctx)

	notify := func(err error, wait time.Duration) {
		logger.With("api", nil).Debug("Retrying request", logger.Fields{
			"wait":  wait.String(),
			"error": err.Error(),
		})
		logger.IncrCounter("api.retries")
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	return body, nil
}

// isRetryable returns true for transient errors worth retrying.
func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return isRetryableStatus(statusErr.StatusCode)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
