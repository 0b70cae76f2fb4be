// Package retry re-runs page fetches that fail for transient reasons.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrMaxAttemptsExceeded wraps the last error once every attempt failed.
	ErrMaxAttemptsExceeded = errors.New("max retry attempts exceeded")
	// ErrContextCancelled is returned when the context ends between attempts.
	ErrContextCancelled = errors.New("context cancelled during retry")
)

// Config configures retry behavior.
type Config struct {
	// MaxAttempts counts the first try.
	MaxAttempts int
	// Delay is the wait before the second attempt.
	Delay time.Duration
	// MaxDelay caps the backoff.
	MaxDelay time.Duration
	// Multiplier grows the delay per attempt; 1 keeps it constant.
	Multiplier float64
	// IsRetryable decides whether an error deserves another attempt.
	IsRetryable func(error) bool
	// Sleep waits between attempts; a timer honouring ctx when nil.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultConfig mirrors the listing sites' tolerance: three attempts, five
// seconds apart.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		Delay:       5 * time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  1,
		IsRetryable: DefaultIsRetryable,
	}
}

// StatusError is a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.URL, e.Code)
}

var retryablePatterns = []string{
	"timeout",
	"deadline exceeded",
	"connection refused",
	"connection reset",
	"no such host",
	"temporary failure",
	"network is unreachable",
	"eof",
}

// DefaultIsRetryable accepts network failures, 429 and 5xx.
func DefaultIsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= http.StatusInternalServerError
	}
	msg := strings.ToLower(err.Error())
	for _, p := range retryablePatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// Do runs fn until it succeeds, returns a non-retryable error, or the
// attempts run out.
func Do(ctx context.Context, config Config, fn func(attempt int) error) error {
	config = withDefaults(config)

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrContextCancelled, ctx.Err())
		}

		err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err
		if !config.IsRetryable(err) {
			return err
		}
		if attempt == config.MaxAttempts {
			break
		}
		if sleepErr := config.Sleep(ctx, Backoff(config, attempt)); sleepErr != nil {
			return fmt.Errorf("%w: %w", ErrContextCancelled, sleepErr)
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrMaxAttemptsExceeded, config.MaxAttempts, lastErr)
}

// Backoff is the wait after the given failed attempt.
func Backoff(config Config, attempt int) time.Duration {
	config = withDefaults(config)
	d := time.Duration(float64(config.Delay) * math.Pow(config.Multiplier, float64(attempt-1)))
	return min(d, config.MaxDelay)
}

func withDefaults(config Config) Config {
	def := DefaultConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = def.MaxAttempts
	}
	if config.Delay <= 0 {
		config.Delay = def.Delay
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = def.MaxDelay
	}
	if config.Multiplier <= 0 {
		config.Multiplier = def.Multiplier
	}
	if config.IsRetryable == nil {
		config.IsRetryable = def.IsRetryable
	}
	if config.Sleep == nil {
		config.Sleep = sleep
	}
	return config
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
