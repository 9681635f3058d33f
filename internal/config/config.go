package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrSnakeDoc/wapi/internal/wapi"
)

type Config struct {
	// Vendor API
	Host       string // ex: "api.vendor.example" (requests go to https://{Host}/v1)
	BaseURL    string // optional, full base URL overriding Host
	Token      string // bearer token
	InstanceID string // optional, sent as Instance-Id

	// Client pipeline
	CacheEnabled       bool
	CacheTTL           time.Duration // ex: 60s
	CacheMaxEntries    int           // 0 = unbounded
	CacheSweepInterval time.Duration // 0 = lazy expiry only
	RateLimit          int           // requests per minute, 0 = off
	PollInterval       time.Duration // 0 = health poller off
	HTTPTimeout        time.Duration // per vendor request
	Logging            bool          // false => the client logs nothing

	// Server settings
	ListenPort      string        // ex: ":3000"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per inbound request
	ProxyRatePerMin int           // inbound requests per client IP per minute, 0 = off
	ProxyRateBurst  int
	AllowedCIDRS    []string // optional, restricts /infra and /cache/clear
	TrustProxy      bool     // true => trust X-Forwarded-For headers

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Redis, optional shared response cache
	RedisAddr           string // empty = in-memory cache
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisPoolSize       int
	RedisConnectTimeout time.Duration
	RedisRetryInterval  time.Duration
	RedisMaxWait        time.Duration
	RedisPingTimeout    time.Duration
}

// Load reads .env (when present), the optional YAML file named by
// WAPI_CONFIG_FILE, then the environment. Environment variables win over
// the file.
func Load() (*Config, error) {
	if err := loadDotEnv(getenv("WAPI_ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	f, err := loadFile(os.Getenv("WAPI_CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Host:       getenv("WAPI_HOST", f.Host),
		BaseURL:    getenv("WAPI_BASE_URL", f.BaseURL),
		Token:      getenv("WAPI_TOKEN", f.Token),
		InstanceID: getenv("WAPI_INSTANCE_ID", f.InstanceID),

		CacheEnabled:       mustBool("WAPI_CACHE_ENABLED", boolOr(f.Cache.Enabled, true)),
		CacheTTL:           mustDuration("WAPI_CACHE_TTL", durationOr(f.Cache.TTL, wapi.DefaultCacheTTL)),
		CacheMaxEntries:    getenvInt("WAPI_CACHE_MAX_ENTRIES", intOr(f.Cache.MaxEntries, 0)),
		CacheSweepInterval: mustDuration("WAPI_CACHE_SWEEP_INTERVAL", durationOr(f.Cache.SweepInterval, 0)),
		RateLimit:          getenvInt("WAPI_RATE_LIMIT", intOr(f.RateLimit, wapi.DefaultRateLimit)),
		PollInterval:       mustDuration("WAPI_POLL_INTERVAL", durationOr(f.PollInterval, 60*time.Second)),
		HTTPTimeout:        mustDuration("WAPI_HTTP_TIMEOUT", durationOr(f.HTTPTimeout, wapi.DefaultHTTPTimeout)),
		Logging:            mustBool("WAPI_LOGGING", boolOr(f.Logging, true)),

		ListenPort:      getenv("WAPI_LISTEN_PORT", strOr(f.Server.ListenPort, ":3000")),
		ShutdownTimeout: mustDuration("WAPI_SHUTDOWN_TIMEOUT", durationOr(f.Server.ShutdownTimeout, 5*time.Second)),
		RequestTimeout:  mustDuration("WAPI_REQUEST_TIMEOUT", durationOr(f.Server.RequestTimeout, 45*time.Second)),
		ProxyRatePerMin: getenvInt("WAPI_PROXY_RATE_PER_MIN", intOr(f.Server.RatePerMin, 0)),
		ProxyRateBurst:  getenvInt("WAPI_PROXY_RATE_BURST", intOr(f.Server.RateBurst, 10)),
		AllowedCIDRS:    sliceOr(parseAllowedIPs(os.Getenv("WAPI_ALLOWED_CIDRS")), f.Server.AllowedCIDRs),
		TrustProxy:      mustBool("WAPI_TRUST_PROXY", boolOr(f.Server.TrustProxy, false)),

		LogLevel:  getenv("WAPI_LOG_LEVEL", strOr(f.Log.Level, "info")),
		PrettyLog: mustBool("WAPI_PRETTY_LOG", boolOr(f.Log.Pretty, true)),

		RedisAddr:           getenv("WAPI_REDIS_ADDR", f.Redis.Addr),
		RedisUser:           getenv("WAPI_REDIS_USERNAME", f.Redis.Username),
		RedisPassword:       getenv("WAPI_REDIS_PASSWORD", f.Redis.Password),
		RedisDB:             getenvInt("WAPI_REDIS_DB", intOr(f.Redis.DB, 0)),
		RedisPoolSize:       getenvInt("WAPI_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("WAPI_REDIS_CONNECT_TIMEOUT", 10*time.Second),
		RedisRetryInterval:  mustDuration("WAPI_REDIS_RETRY_INTERVAL", time.Second),
		RedisMaxWait:        mustDuration("WAPI_REDIS_MAX_WAIT", 5*time.Second),
		RedisPingTimeout:    mustDuration("WAPI_REDIS_PING_TIMEOUT", 2*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.Token = "***REDACTED***"
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Host == "" && c.BaseURL == "" {
		return &wapi.ConfigError{Field: "WAPI_HOST", Message: "is required (or set WAPI_BASE_URL)"}
	}
	if c.Token == "" {
		return &wapi.ConfigError{Field: "WAPI_TOKEN", Message: "is required"}
	}
	if c.CacheTTL < 0 {
		return &wapi.ConfigError{Field: "WAPI_CACHE_TTL", Message: "must not be negative"}
	}
	return nil
}

// Service maps the client part of the config.
func (c *Config) Service() wapi.Config {
	return wapi.Config{
		Host:               c.Host,
		BaseURL:            c.BaseURL,
		Token:              c.Token,
		InstanceID:         c.InstanceID,
		CacheEnabled:       c.CacheEnabled,
		CacheTTL:           c.CacheTTL,
		CacheMaxEntries:    c.CacheMaxEntries,
		CacheSweepInterval: c.CacheSweepInterval,
		RateLimit:          c.RateLimit,
		PollInterval:       c.PollInterval,
		HTTPTimeout:        c.HTTPTimeout,
		Logging:            c.Logging,
	}
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
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
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
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
