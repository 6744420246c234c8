package httpx

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

func IsRetryableHTTPStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// IsRetryableError reports transport timeouts and retryable HTTP statuses.
// Caller cancellation is never retryable.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return IsRetryableHTTPStatus(sc.HTTPStatusCode())
	}
	return false
}

func RetryAfterDuration(resp *http.Response, fallback, max time.Duration) time.Duration {
	sleepFor := fallback
	if resp != nil {
		if ra := strings.TrimSpace(resp.Header.Get("Retry-After")); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				sleepFor = time.Duration(secs) * time.Second
			}
		}
	}
	if max > 0 && sleepFor > max {
		sleepFor = max
	}
	return sleepFor
}

func JitterSleep(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delta := base.Seconds() * 0.2
	low := base.Seconds() - delta
	high := base.Seconds() + delta
	if low < 0 {
		low = 0
	}
	v := low + rand.Float64()*(high-low)
	return time.Duration(v * float64(time.Second))
}

// RetryPolicy drives Retry. Zero values fall back to 1s initial backoff capped at 10s.
type RetryPolicy struct {
	MaxRetries int
	Initial    time.Duration
	Max        time.Duration
	// OnRetry is called before each sleep.
	OnRetry func(attempt int, sleep time.Duration, err error)
}

// Retry runs call until it succeeds, returns a non-retryable error, or the
// retry budget is spent. call returns the response it saw (possibly nil) so
// Retry-After can be honored.
func Retry(ctx context.Context, p RetryPolicy, call func() (*http.Response, error)) error {
	backoff := p.Initial
	if backoff <= 0 {
		backoff = time.Second
	}
	max := p.Max
	if max <= 0 {
		max = 10 * time.Second
	}
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		resp, err := call()
		if err == nil {
			return nil
		}
		if !IsRetryableError(err) || attempt >= p.MaxRetries {
			return err
		}
		sleepFor := JitterSleep(RetryAfterDuration(resp, backoff, max))
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, sleepFor, err)
		}
		t := time.NewTimer(sleepFor)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		backoff *= 2
	}
}
