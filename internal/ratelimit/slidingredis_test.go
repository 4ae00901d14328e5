package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T) (Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return Limiter{Client: client, Prefix: "rl:"}, mr
}

func TestAllowWithinLimit(t *testing.T) {
	l, _ := newLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, _, err := l.Allow(ctx, "pos-1", time.Minute, 3)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i)
	}
	allowed, remaining, _, err := l.Allow(ctx, "pos-1", time.Minute, 3)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}

func TestAllowSeparateKeys(t *testing.T) {
	l, _ := newLimiter(t)
	ctx := context.Background()

	_, _, _, err := l.Allow(ctx, "pos-1", time.Minute, 1)
	require.NoError(t, err)
	allowed, _, _, err := l.Allow(ctx, "pos-2", time.Minute, 1)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllowNilClientFailsOpen(t *testing.T) {
	l := Limiter{}
	allowed, _, _, err := l.Allow(context.Background(), "any", time.Minute, 5)
	require.NoError(t, err)
	assert.True(t, allowed)
}
