package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Exact path, or a prefix when it ends in "/"
	Method string        // HTTP method
	Limit  int           // Requests per window
	Window time.Duration // Refill window
	Burst  int           // Bucket size; Limit when 0
}

// Defaults used when no RATE_LIMIT_* variable overrides them.
const (
	DefaultLimit           = 1000
	DefaultWindow          = time.Minute
	DefaultCleanupInterval = 5 * time.Minute
	DefaultIdleTTL         = time.Hour
)

// DefaultConfig returns an enabled configuration with the default endpoint limits.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    DefaultLimit,
		DefaultWindow:   DefaultWindow,
		CleanupInterval: DefaultCleanupInterval,
		IdleTTL:         DefaultIdleTTL,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// LoadConfig builds the configuration from RATE_LIMIT_* variables read through
// getenv. Unset variables keep their defaults; malformed ones are an error.
func LoadConfig(getenv func(string) string) (*Config, error) {
	env := envReader{getenv: getenv}
	cfg := DefaultConfig()

	cfg.Enabled = env.boolean("RATE_LIMIT_ENABLED", cfg.Enabled)
	cfg.DefaultLimit = env.positiveInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = env.duration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = env.duration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.IdleTTL = env.duration("RATE_LIMIT_IDLE_TTL", cfg.IdleTTL)
	cfg.Whitelist = parseIPList(getenv("RATE_LIMIT_WHITELIST"))
	cfg.Blacklist = parseIPList(getenv("RATE_LIMIT_BLACKLIST"))

	if env.err != nil {
		return nil, env.err
	}
	return cfg, nil
}

// DefaultEndpointConfigs returns the per-endpoint limits. Paths not listed use
// the default limit; /health and preflight requests are never limited.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Up to 50 analyses per request
		{Path: "/analyze/batch", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},

		{Path: "/analyze", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/analyze/stream", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// Mutates the shared registry
		{Path: "/feedback", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},
	}
}

// envReader parses variables and keeps the first error.
type envReader struct {
	getenv func(string) string
	err    error
}

func (r *envReader) fail(key, value string, cause error) {
	if r.err == nil {
		r.err = fmt.Errorf("invalid %s %q: %w", key, value, cause)
	}
}

func (r *envReader) boolean(key string, fallback bool) bool {
	value := r.getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		r.fail(key, value, err)
		return fallback
	}
	return b
}

func (r *envReader) positiveInt(key string, fallback int) int {
	value := r.getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err == nil && n <= 0 {
		err = fmt.Errorf("must be positive")
	}
	if err != nil {
		r.fail(key, value, err)
		return fallback
	}
	return n
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	value := r.getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err == nil && d <= 0 {
		err = fmt.Errorf("must be positive")
	}
	if err != nil {
		r.fail(key, value, err)
		return fallback
	}
	return d
}

// parseIPList parses a comma-separated list of client addresses.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
