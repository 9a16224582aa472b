package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/payment-ledger/internal/config"     // environment configuration
	"github.com/iliyamo/payment-ledger/internal/database"   // MySQL connection pool
	"github.com/iliyamo/payment-ledger/internal/handler"    // HTTP handlers
	"github.com/iliyamo/payment-ledger/internal/queue"      // payment audit consumer
	"github.com/iliyamo/payment-ledger/internal/repository" // data access layer
	"github.com/iliyamo/payment-ledger/internal/router"     // route registration
)

func main() {
	// Load .env if present; real deployments provide the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	payments := repository.NewPaymentRepo(db)
	stats := repository.NewStatsRepo(db)

	// Seed the well-known admin account only when credentials are supplied
	// through the environment. Safe under concurrent startups: duplicates
	// are resolved by the unique constraint, not by check-then-act.
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := users.EnsureDefaultAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost); err != nil {
			log.Printf("admin seed failed: %v", err)
		}
		cancel()
	}

	// Redis is optional; a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: stats cache and login rate limit disabled")
	}

	if cfg.AuditLogEnabled {
		go func() {
			if err := queue.StartPaymentAuditConsumer(); err != nil {
				log.Printf("audit consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	router.RegisterRoutes(e)

	auth := handler.NewAuthHandler(cfg, users)
	userH := handler.NewUserHandler(cfg, users)
	payH := handler.NewPaymentHandler(payments)
	statsH := handler.NewStatsHandler(stats)
	router.RegisterAPI(e, cfg, rdb, auth, userH, payH, statsH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
