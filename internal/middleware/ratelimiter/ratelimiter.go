// Package ratelimiter implements a per-identity token bucket.
package ratelimiter

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
	lastSeen   time.Time
}

// UserRateLimiter manages one token bucket per identity (user id, IP,
// "global", ...). Idle buckets are swept after the expiration time.
type UserRateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens per second
	capacity float64
	expiry   time.Duration
	lastGC   time.Time
}

func New(rate, capacity float64, expiry time.Duration) *UserRateLimiter {
	return &UserRateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		expiry:   expiry,
		lastGC:   time.Now(),
	}
}

// Allow reports whether the identity may proceed, consuming a token if so.
func (l *UserRateLimiter) Allow(identity string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.buckets[identity]
	if !ok {
		b = &bucket{tokens: l.capacity, lastRefill: now}
		l.buckets[identity] = b
	}

	b.tokens += now.Sub(b.lastRefill).Seconds() * l.rate
	if b.tokens > l.capacity {
		b.tokens = l.capacity
	}
	b.lastRefill = now
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// sweep drops buckets idle longer than the expiration time. Runs
// opportunistically under the lock, at most once per expiry interval.
func (l *UserRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastGC) < l.expiry {
		return
	}
	for id, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.expiry {
			delete(l.buckets, id)
		}
	}
	l.lastGC = now
}

func Rps10() *UserRateLimiter  { return New(10, 10, time.Hour) }
func Rps100() *UserRateLimiter { return New(100, 100, time.Hour) }
