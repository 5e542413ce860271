package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottle_EnforcesMinimumInterval(t *testing.T) {
	th := NewThrottle(50 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, th.Wait(ctx))
	start := time.Now()
	require.NoError(t, th.Wait(ctx))
	require.NoError(t, th.Wait(ctx))

	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestThrottle_FirstCallImmediate(t *testing.T) {
	th := NewThrottle(time.Hour)

	start := time.Now()
	require.NoError(t, th.Wait(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}

func TestThrottle_CancelledContext(t *testing.T) {
	th := NewThrottle(time.Hour)
	ctx := context.Background()
	require.NoError(t, th.Wait(ctx))

	cancelled, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.Error(t, th.Wait(cancelled))
}

func TestThrottle_NonPositiveInterval(t *testing.T) {
	th := NewThrottle(0)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, th.Wait(ctx))
	}
}
