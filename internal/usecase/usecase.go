package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Clock returns the current time. Use cases take one so calendar-day logic
// can be tested.
type Clock func() time.Time

// RateLimiter admits or rejects one hit against key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// TaskSubmitter queues fire-and-forget work.
type TaskSubmitter interface {
	Submit(name string, task func(ctx context.Context) error) error
}

// Locker guards work that should run once across instances.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func loggerOrNop(l *zerolog.Logger) *zerolog.Logger {
	if l == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return l
}
