package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends. Only redis shares the sync area between processes;
// sqlite persists it for a single process and memory keeps it in RAM.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite" // changes reach listeners in this process only
	BackendMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline for the API (default: 15s)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	StorageBackend string        // "redis" | "sqlite" | "memory"
	SQLitePath     string        // database file for the sqlite backend
	SeedFile       string        // optional YAML/JSON config written when the store is empty
	ResyncInterval time.Duration // periodic menu resync from storage (0 = off)

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

	AllowedHosts    []string // optional, Host headers accepted by the API (e.g. "mockdata.local, *.lan")
	AllowedOrigins  []string // CORS origins, e.g. "chrome-extension://<id>" ("*" = any)
	AllowedCIDRS    []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy      bool     // true => trust X-Forwarded-For headers
	RateLimitBurst  int      // writes allowed in a burst per client IP
	RateLimitRefill int      // writes per minute refilled per client IP
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("MOCKDATA_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("MOCKDATA_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("MOCKDATA_REQUEST_TIMEOUT", 15*time.Second),

		// Logging
		LogLevel:  getenv("MOCKDATA_LOG_LEVEL", "info"),
		PrettyLog: mustBool("MOCKDATA_PRETTY_LOG", true),

		// Storage
		StorageBackend: strings.ToLower(getenv("MOCKDATA_STORAGE", BackendRedis)),
		SQLitePath:     getenv("MOCKDATA_SQLITE_PATH", "/data/mockdata.db"),
		SeedFile:       getenv("MOCKDATA_SEED_FILE", ""), // Optional, empty = no seeding
		ResyncInterval: mustDuration("MOCKDATA_RESYNC_INTERVAL", 5*time.Minute),

		// Access restrictions
		AllowedHosts:    splitAndTrim(getenv("MOCKDATA_ALLOWED_HOSTS", "")),
		AllowedOrigins:  splitAndTrim(getenv("MOCKDATA_ALLOWED_ORIGINS", "")),
		AllowedCIDRS:    parseAllowedIPs(getenv("MOCKDATA_ALLOWED_CIDRS", "")),
		TrustProxy:      mustBool("MOCKDATA_TRUST_PROXY", false),
		RateLimitBurst:  getenvInt("MOCKDATA_RATE_LIMIT_BURST", 20),
		RateLimitRefill: getenvInt("MOCKDATA_RATE_LIMIT_PER_MIN", 60),
	}

	switch cfg.StorageBackend {
	case BackendRedis:
		loadRedis(cfg)
	case BackendSQLite, BackendMemory:
	default:
		panic(fmt.Sprintf("❌ FATAL: MOCKDATA_STORAGE must be redis, sqlite or memory, got %q", cfg.StorageBackend))
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

// loadRedis reads the settings only the redis backend needs.
func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("MOCKDATA_REDIS_ADDR")
	cfg.RedisUser = getenv("MOCKDATA_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("MOCKDATA_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("MOCKDATA_REDIS_PASSWORD", "")
	cfg.RedisDB = requireEnvInt("MOCKDATA_REDIS_DB")
	cfg.RedisDT = mustDuration("MOCKDATA_REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("MOCKDATA_REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("MOCKDATA_REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("MOCKDATA_REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("MOCKDATA_REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("MOCKDATA_REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("MOCKDATA_REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("MOCKDATA_REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("MOCKDATA_REDIS_WARN_THRESHOLD", 3)

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: MOCKDATA_REDIS_PASSWORD is required when MOCKDATA_REDIS_PASSWORD_REQUIRED=true")
	}
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

func requireEnvInt(key string) int {
	v := requireEnv(key)
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
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

func parseAllowedIPs(allowed string) []string {
	return splitAndTrim(allowed)
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
