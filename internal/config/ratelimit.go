package config

import "time"

// LoginRateLimitConfig bounds how many login attempts a single client IP may
// make per window. It exists to slow credential stuffing against the login
// endpoint; authenticated traffic is not limited.
type LoginRateLimitConfig struct {
	Enabled  bool
	Attempts int           // allowed attempts per window
	Window   time.Duration // fixed window length
	Prefix   string        // redis key namespace
}

// LoadLoginRateLimitConfig reads environment variables with defaults of
// 10 attempts per minute.
func LoadLoginRateLimitConfig() LoginRateLimitConfig {
	cfg := LoginRateLimitConfig{
		Enabled:  getenv("LOGIN_RATE_LIMIT_ENABLED", "true") == "true",
		Attempts: atoi(getenv("LOGIN_RATE_LIMIT_ATTEMPTS", "10")),
		Window:   parseDur(getenv("LOGIN_RATE_LIMIT_WINDOW", "1m")),
		Prefix:   getenv("LOGIN_RATE_LIMIT_PREFIX", "rl:login"),
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return cfg
}
