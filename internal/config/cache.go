package config

import (
	"os"
	"strconv"
	"time"
)

// StatsCacheConfig controls the Redis response cache in front of the stats
// endpoint. Aggregations are the most expensive queries the service runs, so
// their results are cached briefly per caller. When Enabled is false or no
// Redis client is available the middleware becomes a no-op.
type StatsCacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadStatsCacheConfig reads environment variables to build a
// StatsCacheConfig. Defaults are used when variables are not set.
func LoadStatsCacheConfig() StatsCacheConfig {
	return StatsCacheConfig{
		Enabled: getenv("STATS_CACHE_ENABLED", "true") == "true",
		TTL:     parseDur(getenv("STATS_CACHE_TTL", "30s")),
		Prefix:  getenv("STATS_CACHE_PREFIX", "stats"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
