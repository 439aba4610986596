package middleware

import (
	"context"
	"net/http"

	applogger "StockScope/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Skipper reports whether the middleware should be bypassed.
type Skipper func(c echo.Context) bool

type RateLimitConfig struct {
	Limiter Limiter
	Skipper Skipper
	// KeyFunc defaults to the client IP.
	KeyFunc func(c echo.Context) string
	Logger  *applogger.Logger
}

// SkipPaths bypasses the listed route templates.
func SkipPaths(paths ...string) Skipper {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(c echo.Context) bool {
		_, ok := set[c.Path()]
		return ok
	}
}

// RateLimit rejects requests with 429 once the limiter denies them.
// Limiter errors fail open.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c echo.Context) string { return c.RealIP() }
	}
	if cfg.Logger == nil {
		cfg.Logger = applogger.Nop()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Limiter == nil || (cfg.Skipper != nil && cfg.Skipper(c)) {
				return next(c)
			}
			key := cfg.KeyFunc(c)
			ok, err := cfg.Limiter.Allow(c.Request().Context(), key)
			if err != nil {
				cfg.Logger.Warn("rate limiter unavailable", applogger.Error(err), applogger.String("key", key))
				return next(c)
			}
			if !ok {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"status":  http.StatusTooManyRequests,
					"message": "Too many requests, please retry shortly",
				})
			}
			return next(c)
		}
	}
}
