package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("returns on first success", func(t *testing.T) {
		calls := 0
		err := withRetry(ctx, "op", func() error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("non-transient failure is not retried", func(t *testing.T) {
		calls := 0
		boom := errors.New("permission denied")
		err := withRetry(ctx, "op", func() error {
			calls++
			return boom
		})
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("persistent transient failure stops after three attempts", func(t *testing.T) {
		calls := 0
		start := time.Now()
		err := withRetry(ctx, "op", func() error {
			calls++
			return errors.New("client is offline")
		})
		require.ErrorIs(t, err, ErrRetriesExhausted)
		assert.Equal(t, 3, calls)
		// Delays are attempt*1s: 1s after the first, 2s after the second
		assert.GreaterOrEqual(t, time.Since(start), 3*time.Second)
	})

	t.Run("transient failure recovers on a later attempt", func(t *testing.T) {
		calls := 0
		err := withRetry(ctx, "op", func() error {
			calls++
			if calls < 2 {
				return status.Error(codes.Unavailable, "try again")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("cancelled context stops the wait", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := withRetry(cctx, "op", func() error {
			return errors.New("client is offline")
		})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsTransient(t *testing.T) {
	assert.False(t, isTransient(nil))
	assert.True(t, isTransient(status.Error(codes.Unavailable, "down")))
	assert.True(t, isTransient(errors.New("client is offline")))
	assert.True(t, isTransient(errors.New("service Unavailable")))
	assert.False(t, isTransient(errors.New("permission denied")))
}
