package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSleeper records requested sleeps instead of waiting.
type fakeSleeper struct {
	slept []time.Duration
	err   error // if set, Sleep returns this error
}

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.slept = append(f.slept, d)
	return nil
}

func TestThrottle_PauseUsesInterval(t *testing.T) {
	sleeper := &fakeSleeper{}
	th := NewThrottle(2*time.Second, sleeper)

	require.NoError(t, th.Pause(context.Background()))
	require.NoError(t, th.Pause(context.Background()))

	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, sleeper.slept)
}

func TestThrottle_ZeroIntervalSkipsSleep(t *testing.T) {
	sleeper := &fakeSleeper{}
	th := NewThrottle(0, sleeper)

	require.NoError(t, th.Pause(context.Background()))
	assert.Empty(t, sleeper.slept)
}

func TestThrottle_ZeroIntervalStillReportsCancellation(t *testing.T) {
	th := NewThrottle(0, &fakeSleeper{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, th.Pause(ctx), context.Canceled)
}

func TestThrottle_RealSleeperHonorsCancellation(t *testing.T) {
	th := NewThrottle(time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := th.Pause(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
