package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T) Locker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return Locker{R: client, RetryBackoff: 5 * time.Millisecond}
}

func TestWithLockRuns(t *testing.T) {
	l := newLocker(t)
	ran := false
	err := l.WithLock(context.Background(), "endpoint:1", time.Second, func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestWithLockSerializes(t *testing.T) {
	l := newLocker(t)
	var mu sync.Mutex
	var active, maxActive int

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.WithLock(context.Background(), "endpoint:1", time.Second, func(context.Context) error {
				mu.Lock()
				active++
				if active > maxActive {
					maxActive = active
				}
				mu.Unlock()
				time.Sleep(10 * time.Millisecond)
				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxActive)
}

func TestWithLockContextCancelled(t *testing.T) {
	l := newLocker(t)
	ctx, cancel := context.WithCancel(context.Background())

	acquired := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = l.WithLock(context.Background(), "endpoint:2", time.Minute, func(context.Context) error {
			close(acquired)
			<-release
			return nil
		})
	}()
	<-acquired
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := l.WithLock(ctx, "endpoint:2", time.Minute, func(context.Context) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
	close(release)
}

func TestWithLockRequiresCallback(t *testing.T) {
	l := newLocker(t)
	require.Error(t, l.WithLock(context.Background(), "k", time.Second, nil))
}
