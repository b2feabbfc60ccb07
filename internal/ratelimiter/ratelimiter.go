// Package ratelimiter throttles the admin login per client address.
package ratelimiter

import (
	"sync"
	"time"
)

type Limiter interface {
	Allow(key string) (bool, time.Duration)
}

type Config struct {
	RequestsPerTimeFrame int           `env:"REQUESTS_COUNT" envDefault:"10"`
	TimeFrame            time.Duration `env:"TIME_FRAME" envDefault:"1m"`
	Enabled              bool          `env:"ENABLED" envDefault:"true"`
}

type window struct {
	count int
	start time.Time
}

// FixedWindowRateLimiter allows limit calls per key in each window that starts
// with the key's first call.
type FixedWindowRateLimiter struct {
	sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewFixedWindowLimiter(limit int, w time.Duration) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  w,
		now:     time.Now,
	}
}

// Allow records a call for key. When the key is over its limit it returns false
// and the time left until its window resets.
func (rl *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	rl.Lock()
	defer rl.Unlock()

	now := rl.now()
	rl.evict(now)

	w, ok := rl.clients[key]
	if !ok {
		w = &window{start: now}
		rl.clients[key] = w
	}
	if w.count < rl.limit {
		w.count++
		return true, 0
	}
	return false, w.start.Add(rl.window).Sub(now)
}

func (rl *FixedWindowRateLimiter) evict(now time.Time) {
	for key, w := range rl.clients {
		if now.Sub(w.start) >= rl.window {
			delete(rl.clients, key)
		}
	}
}
