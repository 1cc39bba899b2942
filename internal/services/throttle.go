package services

import (
	"context"
	"time"
)

// Sleeper waits for a duration, honoring context cancellation. Tests inject a
// fake to avoid real wall-clock waits.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type clockSleeper struct{}

func (clockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Throttle paces successive sends within a batch. The pause respects
// third-party transport rate limits and runs after every recipient, success
// or failure. It doubles as the batch's cancellation point: Pause returns
// the context error as soon as the caller gives up.
type Throttle struct {
	interval time.Duration
	sleeper  Sleeper
}

// NewThrottle returns a Throttle with the given interval. A nil sleeper means
// real wall-clock waits.
func NewThrottle(interval time.Duration, sleeper Sleeper) *Throttle {
	if sleeper == nil {
		sleeper = clockSleeper{}
	}
	return &Throttle{interval: interval, sleeper: sleeper}
}

// Pause blocks for the configured interval or until ctx is cancelled.
func (t *Throttle) Pause(ctx context.Context) error {
	if t.interval <= 0 {
		return ctx.Err()
	}
	return t.sleeper.Sleep(ctx, t.interval)
}
