package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/payment-ledger/internal/config"
)

// NewLoginRateLimit returns a fixed-window rate limiter keyed by client IP,
// intended for the login endpoint only. Each window gets its own counter via
// INCR with an expiry, so state cleans itself up. When Redis is unavailable
// the middleware is a pass-through; slowing brute force is not worth failing
// logins outright.
func NewLoginRateLimit(cfg config.LoginRateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			window := time.Now().Unix() / int64(cfg.Window.Seconds())
			key := fmt.Sprintf("%s:%s:%d", cfg.Prefix, c.RealIP(), window)

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				// Redis hiccup: let the request through.
				return next(c)
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, cfg.Window).Err()
			}
			if n > int64(cfg.Attempts) {
				c.Response().Header().Set("Retry-After",
					fmt.Sprintf("%d", int(cfg.Window.Seconds())))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error": echo.Map{"kind": "rate_limited", "message": "too many login attempts"},
				})
			}
			return next(c)
		}
	}
}
