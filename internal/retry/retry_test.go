package retry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(waits *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
}

func TestDoRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var waits []time.Duration
	cfg := retry.DefaultConfig()
	cfg.Sleep = noSleep(&waits)

	calls := 0
	err := retry.Do(context.Background(), cfg, func(int) error {
		calls++
		if calls < 3 {
			return errors.New("read tcp: connection reset by peer")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, waits)
}

func TestDoGivesUp(t *testing.T) {
	t.Parallel()

	var waits []time.Duration
	cfg := retry.Config{MaxAttempts: 2, Delay: time.Second, Sleep: noSleep(&waits)}
	last := &retry.StatusError{URL: "https://example.com", Code: 503}

	err := retry.Do(context.Background(), cfg, func(int) error { return last })
	require.ErrorIs(t, err, retry.ErrMaxAttemptsExceeded)
	require.ErrorIs(t, err, last)
	assert.Len(t, waits, 1)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.Do(context.Background(), retry.Config{}, func(int) error {
		calls++
		return &retry.StatusError{URL: "https://example.com/x", Code: 404}
	})
	require.Error(t, err)
	require.NotErrorIs(t, err, retry.ErrMaxAttemptsExceeded)
	assert.Equal(t, 1, calls)
}

func TestDoHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := retry.Do(ctx, retry.Config{}, func(int) error { return nil })
	require.ErrorIs(t, err, retry.ErrContextCancelled)
	require.ErrorIs(t, err, context.Canceled)

	ctx2, cancel2 := context.WithCancel(context.Background())
	cfg := retry.Config{Delay: time.Hour}
	err = retry.Do(ctx2, cfg, func(int) error {
		cancel2()
		return errors.New("i/o timeout")
	})
	require.ErrorIs(t, err, retry.ErrContextCancelled)
}

func TestDefaultIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{errors.New("dial tcp: lookup x: no such host"), true},
		{errors.New("Client.Timeout exceeded"), true},
		{errors.New("parse error"), false},
		{&retry.StatusError{Code: 429}, true},
		{&retry.StatusError{Code: 500}, true},
		{fmt.Errorf("wrapped: %w", &retry.StatusError{Code: 403}), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, retry.DefaultIsRetryable(tt.err), "%v", tt.err)
	}
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	cfg := retry.Config{Delay: time.Second, Multiplier: 2, MaxDelay: 5 * time.Second}
	assert.Equal(t, time.Second, retry.Backoff(cfg, 1))
	assert.Equal(t, 4*time.Second, retry.Backoff(cfg, 3))
	assert.Equal(t, 5*time.Second, retry.Backoff(cfg, 4))
}
