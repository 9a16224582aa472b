package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/payment-ledger/internal/config"
)

// captureWriter tees the response body into a buffer while forwarding it to
// the client, so a successful stats response can be stored after the fact.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

// statsCacheKey folds route, query and caller identity into one key. Stats
// are owner-scoped for viewers, so identity must be part of the key or one
// caller's numbers would be served to another.
func statsCacheKey(prefix string, c echo.Context) string {
	uid, _ := c.Get(CtxUserID).(uint64)
	role, _ := c.Get(CtxRole).(string)
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%d|%s",
		c.Path(), c.Request().URL.RawQuery, uid, role)))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// NewStatsCache returns a Redis-backed response cache for the stats
// endpoint. Only 200 responses to GET requests are stored, as JSON, for a
// short TTL. Clients can tell a cached answer by the X-Cache header. With
// caching disabled or Redis down the middleware is a pass-through.
func NewStatsCache(cfg config.StatsCacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key := statsCacheKey(cfg.Prefix, c)

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil && len(body) > 0 {
				c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				c.Response().Header().Set("X-Cache", "HIT")
				return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK && cw.buf.Len() > 0 {
				_ = rdb.SetEx(ctx, key, cw.buf.Bytes(), cfg.TTL).Err()
			}
			return nil
		}
	}
}
