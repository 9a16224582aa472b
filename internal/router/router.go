package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/payment-ledger/internal/config"
	"github.com/iliyamo/payment-ledger/internal/handler"
	"github.com/iliyamo/payment-ledger/internal/middleware"
	"github.com/iliyamo/payment-ledger/internal/policy"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI wires the full API surface. Auth endpoints live under
// /api/auth without a session; everything else under /api requires a valid
// Bearer token, and each route names exactly one policy operation. The rdb
// client may be nil, which disables the login rate limit and the stats
// cache.
func RegisterAPI(e *echo.Echo, cfg config.Config, rdb *redis.Client,
	auth *handler.AuthHandler, users *handler.UserHandler,
	payments *handler.PaymentHandler, stats *handler.StatsHandler) {

	loginLimit := middleware.NewLoginRateLimit(config.LoadLoginRateLimitConfig(), rdb)

	ag := e.Group("/api/auth")
	ag.POST("/login", auth.Login, loginLimit)
	ag.POST("/register", auth.Register, loginLimit)

	api := e.Group("/api")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))

	api.GET("/me", auth.Me)

	api.GET("/users", users.List, middleware.Authorize(policy.UserRead))
	api.POST("/users", users.Create, middleware.Authorize(policy.UserWrite))
	api.GET("/users/:id", users.Get, middleware.Authorize(policy.UserRead))
	// PATCH allows self-service profile updates, so the write policy is
	// enforced inside the handler where the target id is known.
	api.PATCH("/users/:id", users.Update)
	api.DELETE("/users/:id", users.Remove, middleware.Authorize(policy.UserWrite))

	statsCache := middleware.NewStatsCache(config.LoadStatsCacheConfig(), rdb)
	// register /payments/stats before /payments/:id so "stats" never parses as an id
	api.GET("/payments/stats", stats.Get, middleware.Authorize(policy.StatsRead), statsCache)

	api.GET("/payments", payments.List, middleware.Authorize(policy.PaymentRead))
	api.POST("/payments", payments.Create, middleware.Authorize(policy.PaymentWrite))
	api.GET("/payments/:id", payments.Get, middleware.Authorize(policy.PaymentRead))
	api.PATCH("/payments/:id", payments.Update, middleware.Authorize(policy.PaymentWrite))
	api.DELETE("/payments/:id", payments.Remove, middleware.Authorize(policy.PaymentWrite))
}
