package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens float64
	last   time.Time
}

const (
	// DefaultMaxKeys bounds the number of buckets held at once.
	DefaultMaxKeys = 10000
	// pruneEvery is how many Allow calls pass between sweeps of full buckets.
	pruneEvery = 1024
)

// Limiter is an in-memory token bucket per key. It holds at most maxKeys
// buckets; sweeps run inline from Allow, there is no janitor goroutine.
type Limiter struct {
	mu         sync.Mutex
	m          map[string]*bucket
	capacity   float64
	refillRate float64 // tokens per second
	maxKeys    int
	calls      int
	now        func() time.Time
}

type Option func(*Limiter)

// WithMaxKeys caps the bucket map. Non-positive values keep the default.
func WithMaxKeys(n int) Option {
	return func(l *Limiter) {
		if n > 0 {
			l.maxKeys = n
		}
	}
}

func New(capacity, refillPerSec float64, opts ...Option) *Limiter {
	l := &Limiter{
		m:          make(map[string]*bucket),
		capacity:   capacity,
		refillRate: refillPerSec,
		maxKeys:    DefaultMaxKeys,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls++
	if l.calls%pruneEvery == 0 {
		l.pruneLocked(now)
	}

	b, ok := l.m[key]
	if !ok {
		if len(l.m) >= l.maxKeys {
			l.makeRoomLocked(now)
		}
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}
	// refill
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.refillRate
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true, nil
	}
	return false, nil
}

// Prune drops buckets that have refilled completely; they carry no state.
func (l *Limiter) Prune() int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pruneLocked(now)
}

// Len reports the number of buckets currently held.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

func (l *Limiter) pruneLocked(now time.Time) int {
	removed := 0
	for k, b := range l.m {
		if b.tokens+now.Sub(b.last).Seconds()*l.refillRate >= l.capacity {
			delete(l.m, k)
			removed++
		}
	}
	return removed
}

// makeRoomLocked frees at least one slot: full buckets go first, then the
// least recently used one. Evicting a drained bucket resets that key's limit.
func (l *Limiter) makeRoomLocked(now time.Time) {
	if l.pruneLocked(now) > 0 && len(l.m) < l.maxKeys {
		return
	}
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for k, b := range l.m {
		if !found || b.last.Before(oldest) {
			oldestKey, oldest, found = k, b.last, true
		}
	}
	if found {
		delete(l.m, oldestKey)
	}
}

func (l *Limiter) Close() error { return nil }
