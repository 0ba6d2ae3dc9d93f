package contract

import (
	"context"
	"time"
)

// LoginAttemptRepository counts failed logins per key inside a sliding window.
type LoginAttemptRepository interface {
	// Increment records one failure and returns the count within the window.
	Increment(ctx context.Context, key string, window time.Duration) (int, error)
	Get(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}
