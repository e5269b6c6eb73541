package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline enforced by the router

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Directory
	LinkFile         string        // path to the links.yaml file
	ReloadInterval   time.Duration // interval to reload the link file (default: 1h)
	GCInterval       time.Duration // interval to run garbage collection (default: 24h)
	GCThreshold      time.Duration // how long deleted links are kept before purge (default: 168h)
	GroupConcurrency int           // max concurrent member queries when grouping

	// Link detail fetcher
	FetchWorkers   int           // fetch worker goroutines
	FetchQueue     int           // fetches allowed to wait for a worker
	DetailCacheTTL time.Duration // 0 disables the detail cache

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts    []string // optional, restrict access to specific Host headers
	AllowedCIDRS    []string // optional, restrict admin endpoints to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy      bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	RateLimitBurst  int      // per-IP burst on /api/link-detail
	RateLimitPerMin int      // per-IP refill on /api/link-detail
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINKS_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LINKS_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("LINKS_REQUEST_TIMEOUT", 15*time.Second),

		// Logging
		LogLevel:  getenv("LINKS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKS_PRETTY_LOG", true),

		// Directory
		LinkFile:         requireEnv("LINKS_LINK_FILE"),
		ReloadInterval:   mustDuration("LINKS_RELOAD_INTERVAL", time.Hour),
		GCInterval:       mustDuration("LINKS_GC_INTERVAL", 24*time.Hour),
		GCThreshold:      mustDuration("LINKS_GC_THRESHOLD", 7*24*time.Hour),
		GroupConcurrency: getenvInt("LINKS_GROUP_CONCURRENCY", 8),

		// Link detail fetcher
		FetchWorkers:   getenvInt("LINKS_FETCH_WORKERS", 4),
		FetchQueue:     getenvInt("LINKS_FETCH_QUEUE", 64),
		DetailCacheTTL: mustDuration("LINKS_DETAIL_CACHE_TTL", 6*time.Hour),

		// Redis settings
		RedisAddr:             requireEnv("LINKS_REDIS_ADDR"),
		RedisUser:             getenv("LINKS_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("LINKS_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("LINKS_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("LINKS_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts:    splitAndTrim(getenv("LINKS_ALLOWED_HOSTS", "")),
		AllowedCIDRS:    splitAndTrim(getenv("LINKS_ALLOWED_CIDRS", "")),
		TrustProxy:      mustBool("LINKS_TRUST_PROXY", false),
		RateLimitBurst:  getenvInt("LINKS_RATE_LIMIT_BURST", 10),
		RateLimitPerMin: getenvInt("LINKS_RATE_LIMIT_PER_MIN", 30),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: LINKS_REDIS_PASSWORD is required when LINKS_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
