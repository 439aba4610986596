package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisLimiter is a fixed-window counter shared by every replica.
type RedisLimiter struct {
	cli    *redis.Client
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(cfg RedisConfig, limit int64, window time.Duration) *RedisLimiter {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 2 * time.Second,
		ReadTimeout: time.Second,
	})
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "stockscope:ratelimit"
	}
	return &RedisLimiter{cli: rdb, prefix: prefix, limit: limit, window: window, now: time.Now}
}

func (r *RedisLimiter) windowKey(key string) string {
	slot := r.now().UnixNano() / int64(r.window)
	return fmt.Sprintf("%s:%s:%d", r.prefix, key, slot)
}

// Allow increments the caller's counter for the current window.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := r.windowKey(key)
	var incr *redis.IntCmd
	_, err := r.cli.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, r.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("redis rate limit: %w", err)
	}
	return incr.Val() <= r.limit, nil
}

func (r *RedisLimiter) Close() error {
	return r.cli.Close()
}
