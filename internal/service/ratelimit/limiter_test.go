package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestTokenBucket(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(2, 1)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if ok, _ := l.Allow(ctx, "a"); !ok {
			t.Fatalf("request %d should pass", i)
		}
	}
	if ok, _ := l.Allow(ctx, "a"); ok {
		t.Fatal("bucket should be empty")
	}
	if ok, _ := l.Allow(ctx, "b"); !ok {
		t.Fatal("other keys have their own bucket")
	}

	now = now.Add(time.Second)
	if ok, _ := l.Allow(ctx, "a"); !ok {
		t.Fatal("one token should have refilled")
	}
	if ok, _ := l.Allow(ctx, "a"); ok {
		t.Fatal("only one token should have refilled")
	}
}

func TestPrune(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(2, 1)
	l.now = func() time.Time { return now }
	_, _ = l.Allow(context.Background(), "a")

	if n := l.Prune(); n != 0 {
		t.Fatalf("partially drained bucket must stay, pruned %d", n)
	}
	now = now.Add(5 * time.Second)
	if n := l.Prune(); n != 1 {
		t.Fatalf("expected 1 pruned bucket, got %d", n)
	}
}

func TestRedisWindowKey(t *testing.T) {
	r := NewRedisLimiter(RedisConfig{Addr: "127.0.0.1:1"}, 5, time.Minute)
	defer r.Close()
	r.now = func() time.Time { return time.Unix(120, 0) }

	if got := r.windowKey("1.2.3.4"); got != "stockscope:ratelimit:1.2.3.4:2" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestRedisUnavailableReturnsError(t *testing.T) {
	r := NewRedisLimiter(RedisConfig{Addr: "127.0.0.1:1"}, 5, time.Minute)
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := r.Allow(ctx, "k")
	if err == nil || !strings.Contains(err.Error(), "redis rate limit") {
		t.Fatalf("expected redis error, got %v", err)
	}
}

func TestDistinctKeysStayBounded(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(2, 1, WithMaxKeys(100))
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 100000; i++ {
		if ok, _ := l.Allow(ctx, fmt.Sprintf("10.0.%d.%d", i/256, i%256)); !ok {
			t.Fatalf("first request for a new key %d should pass", i)
		}
		if i%1000 == 0 {
			now = now.Add(time.Millisecond)
		}
	}
	if n := l.Len(); n > 100 {
		t.Fatalf("expected at most 100 buckets, got %d", n)
	}
}

func TestEvictionKeepsRecentKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(2, 0.001, WithMaxKeys(2))
	l.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = l.Allow(ctx, "old")
	now = now.Add(time.Second)
	_, _ = l.Allow(ctx, "hot")
	_, _ = l.Allow(ctx, "hot")
	now = now.Add(time.Second)
	_, _ = l.Allow(ctx, "new")

	if l.Len() != 2 {
		t.Fatalf("expected 2 buckets, got %d", l.Len())
	}
	if ok, _ := l.Allow(ctx, "hot"); ok {
		t.Fatal("recently drained bucket must survive eviction")
	}
}

func TestAllowSweepsFullBuckets(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(2, 1)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < pruneEvery-1; i++ {
		_, _ = l.Allow(ctx, fmt.Sprintf("k%d", i))
	}
	now = now.Add(10 * time.Second)
	_, _ = l.Allow(ctx, "last")
	if n := l.Len(); n != 1 {
		t.Fatalf("refilled buckets should be swept inline, %d held", n)
	}
}
