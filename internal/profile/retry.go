package profile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const maxRetries = 3

// ErrRetriesExhausted is returned when a transient failure persists through
// every attempt.
var ErrRetriesExhausted = errors.New("all retry attempts failed")

// isTransient reports whether the error looks like a connectivity problem
// worth retrying.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if status.Code(err) == codes.Unavailable {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "offline") || strings.Contains(msg, "unavailable")
}

// withRetry runs op up to maxRetries times with a linearly increasing delay
// between attempts. Non-transient failures are returned immediately.
func withRetry(ctx context.Context, name string, op func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}

		log.Printf("[profile] %s attempt %d failed: %v", name, attempt, lastErr)

		if !isTransient(lastErr) {
			return lastErr
		}
		if attempt == maxRetries {
			break
		}

		select {
		case <-time.After(time.Duration(attempt) * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("%w: %v", ErrRetriesExhausted, lastErr)
}
