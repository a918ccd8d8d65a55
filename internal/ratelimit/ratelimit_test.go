package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webvalidator/webvalidator/internal/config"
)

func TestLimiterDisabledWhenUnconfigured(t *testing.T) {
	l := New(config.RateLimit{}, config.RateLimit{})
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 50; i++ {
		require.NoError(t, l.Wait(ctx, "example.com"))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestLimiterPerHostBucketsAreIndependent(t *testing.T) {
	perSite := config.RateLimit{Supply: 1, Window: 50 * time.Millisecond}
	l := New(config.RateLimit{}, perSite)
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx, "a.example"))
	require.NoError(t, l.Wait(ctx, "b.example"))

	start := time.Now()
	require.NoError(t, l.Wait(ctx, "a.example"))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestLimiterGlobalBucketAppliesAcrossHosts(t *testing.T) {
	global := config.RateLimit{Supply: 1, Window: 50 * time.Millisecond}
	l := New(global, config.RateLimit{})
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx, "a.example"))

	start := time.Now()
	require.NoError(t, l.Wait(ctx, "b.example"))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestLimiterWaitRespectsContextCancellation(t *testing.T) {
	global := config.RateLimit{Supply: 1, Window: time.Second}
	l := New(global, config.RateLimit{})
	ctx := context.Background()
	require.NoError(t, l.Wait(ctx, "example.com"))

	cancelCtx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := l.Wait(cancelCtx, "example.com")
	assert.Error(t, err)
}
