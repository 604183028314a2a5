// Package ratelimiter は外部API呼び出しなどの操作頻度を制限します。
package ratelimiter

import (
	"log/slog"
	"sync"
	"time"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiter は固定ウィンドウ方式で呼び出し回数を制限します。
// 複数ゴルーチンから同時に呼ばれても安全です。
type RateLimiter struct {
	limit    int           // ウィンドウあたりの上限
	interval time.Duration // カウントをリセットする単位

	mu        sync.Mutex
	count     int
	lastReset time.Time
}

// NewRateLimiter は新しい RateLimiter のインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
	}
}

// WaitIfNeeded はレートリミットの上限に達しているかを確認し、必要であれば
// 次のウィンドウまで待機します。待機中はロックを保持しないため、他の
// ゴルーチンの呼び出しがスリープの背後で直列化されることはありません。
func (rl *RateLimiter) WaitIfNeeded() {
	for {
		rl.mu.Lock()
		now := time.Now()
		if now.Sub(rl.lastReset) >= rl.interval {
			rl.count = 0
			rl.lastReset = now
		}

		if rl.count < rl.limit {
			rl.count++
			rl.mu.Unlock()
			return
		}

		// 上限到達。ロックを解放してウィンドウの残り時間だけ待ち、再判定する。
		sleep := rl.interval - now.Sub(rl.lastReset)
		rl.mu.Unlock()

		if sleep > 0 {
			slog.Warn("rate limit reached, waiting", "limit", rl.limit, "sleep", sleep)
			time.Sleep(sleep)
		}
	}
}
