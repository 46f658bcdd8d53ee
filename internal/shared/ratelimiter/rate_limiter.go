// Package ratelimiter はキー単位の固定ウィンドウ方式レートリミッターを提供します。
package ratelimiter

import (
	"sync"
	"time"
)

// Limiter は操作の頻度をキー（クライアントIPなど）ごとに制限するインターフェースです。
type Limiter interface {
	Allow(key string) (bool, time.Duration)
}

// RateLimiter は、キーごとに interval あたり limit 回まで許可します。
// 複数のゴルーチンから安全に利用できます。
type RateLimiter struct {
	mu       sync.Mutex
	limit    int           // ウィンドウあたりの上限
	interval time.Duration // どの単位でリセットするか
	buckets  map[string]*bucket
	now      func() time.Time

	// 期限切れバケットの掃除タイミング
	nextSweep time.Time
}

type bucket struct {
	count     int
	windowEnd time.Time
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		buckets:  make(map[string]*bucket),
		now:      time.Now,
	}
}

// Allow はキーのリクエストを1回消費します。
// 上限に達している場合は false と、ウィンドウが明けるまでの残り時間を返します。
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.sweep(now)

	b, ok := rl.buckets[key]
	// interval を過ぎたらカウントリセット
	if !ok || !now.Before(b.windowEnd) {
		rl.buckets[key] = &bucket{count: 1, windowEnd: now.Add(rl.interval)}
		return true, 0
	}

	if b.count >= rl.limit {
		return false, b.windowEnd.Sub(now)
	}
	b.count++
	return true, 0
}

// sweep は期限切れのバケットを interval ごとに最大1回削除します。呼び出し元が mu を保持します。
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Before(rl.nextSweep) {
		return
	}
	for k, b := range rl.buckets {
		if !now.Before(b.windowEnd) {
			delete(rl.buckets, k)
		}
	}
	rl.nextSweep = now.Add(rl.interval)
}
