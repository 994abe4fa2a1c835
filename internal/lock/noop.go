package lock

import (
	"context"
	"time"
)

// Noop always grants the lock. Used when no redis address is configured,
// which matches the single-writer deployment.
type Noop struct{}

func (Noop) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (Noop) Unlock(ctx context.Context, key string) error {
	return nil
}

func (Noop) Close() error {
	return nil
}
