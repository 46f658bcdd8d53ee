package ratelimiter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestLimiter(limit int, interval time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limit, interval)
	rl.now = clock.now
	return rl, clock
}

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("1.2.3.4")
		assert.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, retryAfter := rl.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retryAfter)
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(1, time.Minute)

	ok, _ := rl.Allow("a")
	assert.True(t, ok)
	ok, _ = rl.Allow("b")
	assert.True(t, ok)
	ok, _ = rl.Allow("a")
	assert.False(t, ok)
}

func TestRateLimiter_WindowResets(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(1, time.Minute)

	ok, _ := rl.Allow("a")
	assert.True(t, ok)

	clock.advance(30 * time.Second)
	ok, retryAfter := rl.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, 30*time.Second, retryAfter)

	clock.advance(30 * time.Second)
	ok, _ = rl.Allow("a")
	assert.True(t, ok, "a new window starts exactly at windowEnd")
}

func TestRateLimiter_SweepsExpiredBuckets(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(1, time.Minute)
	rl.Allow("a")
	rl.Allow("b")

	clock.advance(2 * time.Minute)
	rl.Allow("c")

	assert.Len(t, rl.buckets, 1)
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(0, 0)
	assert.Equal(t, 1, rl.limit)
	assert.Equal(t, time.Minute, rl.interval)
}

func TestRateLimiter_ConcurrentUse(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(50, time.Hour)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := rl.Allow("k"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}
