package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Provider  ProviderConfig  `yaml:"provider" mapstructure:"provider"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Auth      AuthConfig      `yaml:"auth" mapstructure:"auth"`
	Refresh   RefreshConfig   `yaml:"refresh" mapstructure:"refresh"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	Business  BusinessConfig  `yaml:"business" mapstructure:"business"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// StoreConfig contains the key value store configuration
type StoreConfig struct {
	Backend     string        `yaml:"backend" mapstructure:"backend"`
	SnapshotTTL time.Duration `yaml:"snapshot_ttl" mapstructure:"snapshot_ttl"`
	QuotaTTL    time.Duration `yaml:"quota_ttl" mapstructure:"quota_ttl"`
	Redis       RedisConfig   `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig contains Redis-specific configuration
type RedisConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	Password        string        `yaml:"password" mapstructure:"password"`
	DB              int           `yaml:"db" mapstructure:"db"`
	PoolSize        int           `yaml:"pool_size" mapstructure:"pool_size"`
	MaxRetries      int           `yaml:"max_retries" mapstructure:"max_retries"`
	MinRetryBackoff time.Duration `yaml:"min_retry_backoff" mapstructure:"min_retry_backoff"`
	MaxRetryBackoff time.Duration `yaml:"max_retry_backoff" mapstructure:"max_retry_backoff"`
	DialTimeout     time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// CacheConfig contains freshness rules for cached snapshots
type CacheConfig struct {
	FreshnessThreshold time.Duration `yaml:"freshness_threshold" mapstructure:"freshness_threshold"`
}

// ProviderConfig contains the upstream price provider configuration
type ProviderConfig struct {
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey            string        `yaml:"api_key" mapstructure:"api_key"`
	AttemptTimeout    time.Duration `yaml:"attempt_timeout" mapstructure:"attempt_timeout"`
	MaxRetries        int           `yaml:"max_retries" mapstructure:"max_retries"`
	RetryBaseDelay    time.Duration `yaml:"retry_base_delay" mapstructure:"retry_base_delay"`
	RequestsPerMinute int           `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// RateLimitConfig contains the per credential fixed window quota
type RateLimitConfig struct {
	Limit  int           `yaml:"limit" mapstructure:"limit"`
	Window time.Duration `yaml:"window" mapstructure:"window"`
}

// AuthConfig contains authentication configuration
type AuthConfig struct {
	HeaderName  string   `yaml:"header_name" mapstructure:"header_name"`
	UnauthPaths []string `yaml:"unauth_paths" mapstructure:"unauth_paths"`
}

// RefreshConfig contains the scheduled refresh configuration
type RefreshConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Schedule        string        `yaml:"schedule" mapstructure:"schedule"`
	Interval        time.Duration `yaml:"interval" mapstructure:"interval"`
	StaleMultiplier int           `yaml:"stale_multiplier" mapstructure:"stale_multiplier"`
	WarmupOnStart   bool          `yaml:"warmup_on_start" mapstructure:"warmup_on_start"`
	RunTimeout      time.Duration `yaml:"run_timeout" mapstructure:"run_timeout"`
}

// LoggingConfig contains logging system configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// BusinessConfig contains specific business configurations
type BusinessConfig struct {
	SupportedSymbols []string `yaml:"supported_symbols" mapstructure:"supported_symbols"`
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Backend:     "memory",
			SnapshotTTL: time.Hour,
			QuotaTTL:    time.Hour,
			Redis: RedisConfig{
				Addr:            "localhost:6379",
				Password:        "",
				DB:              0,
				PoolSize:        10,
				MaxRetries:      3,
				MinRetryBackoff: 8 * time.Millisecond,
				MaxRetryBackoff: 512 * time.Millisecond,
				DialTimeout:     5 * time.Second,
				ReadTimeout:     3 * time.Second,
				WriteTimeout:    3 * time.Second,
			},
		},
		Cache: CacheConfig{
			FreshnessThreshold: 5 * time.Minute,
		},
		Provider: ProviderConfig{
			BaseURL:           "https://api.coingecko.com/api/v3",
			APIKey:            "",
			AttemptTimeout:    5 * time.Second,
			MaxRetries:        3,
			RetryBaseDelay:    time.Second,
			RequestsPerMinute: 30,
			Burst:             5,
		},
		RateLimit: RateLimitConfig{
			Limit:  100,
			Window: time.Minute,
		},
		Auth: AuthConfig{
			HeaderName:  "X-API-Key",
			UnauthPaths: []string{"/health", "/ready", "/metrics", "/swagger/"},
		},
		Refresh: RefreshConfig{
			Enabled:         true,
			Schedule:        "@every 5m",
			Interval:        5 * time.Minute,
			StaleMultiplier: 3,
			WarmupOnStart:   true,
			RunTimeout:      2 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Business: BusinessConfig{
			SupportedSymbols: []string{
				"BTC", "ETH", "ADA", "BNB", "XRP", "SOL", "DOT", "DOGE", "AVAX", "MATIC",
				"LINK", "UNI", "LTC", "ATOM", "XLM", "ALGO", "VET", "ICP", "FIL", "TRX",
			},
		},
	}
}

// StaleAfter is the cache age past which health reports unhealthy
func (c RefreshConfig) StaleAfter() time.Duration {
	return time.Duration(c.StaleMultiplier) * c.Interval
}
