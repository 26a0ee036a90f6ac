package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// symbolPattern acepta tickers alfanuméricos de 2 a 10 caracteres
var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

// Validator valida la configuración cargada
type Validator struct{}

// NewValidator crea una nueva instancia del validador
func NewValidator() *Validator {
	return &Validator{}
}

// Validate valida toda la configuración
func (v *Validator) Validate(config *Config) error {
	if err := v.validateServer(config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := v.validateStore(config.Store); err != nil {
		return fmt.Errorf("store config validation failed: %w", err)
	}

	if err := v.validateCache(config.Cache, config.Store); err != nil {
		return fmt.Errorf("cache config validation failed: %w", err)
	}

	if err := v.validateProvider(config.Provider); err != nil {
		return fmt.Errorf("provider config validation failed: %w", err)
	}

	if err := v.validateRateLimit(config.RateLimit, config.Store); err != nil {
		return fmt.Errorf("rate limit config validation failed: %w", err)
	}

	if err := v.validateAuth(config.Auth); err != nil {
		return fmt.Errorf("auth config validation failed: %w", err)
	}

	if err := v.validateRefresh(config.Refresh); err != nil {
		return fmt.Errorf("refresh config validation failed: %w", err)
	}

	if err := v.validateLogging(config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	if err := v.validateBusiness(config.Business); err != nil {
		return fmt.Errorf("business config validation failed: %w", err)
	}

	return nil
}

// validateServer valida la configuración del servidor
func (v *Validator) validateServer(config ServerConfig) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("invalid port: %d, must be between 1-65535", config.Port)
	}

	if config.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got: %v", config.ShutdownTimeout)
	}

	if config.ShutdownTimeout > 5*time.Minute {
		return fmt.Errorf("shutdown_timeout too long: %v, max 5 minutes", config.ShutdownTimeout)
	}

	return nil
}

// validateStore valida el backend y los TTL del almacén
func (v *Validator) validateStore(config StoreConfig) error {
	validBackends := []string{"memory", "redis"}
	if !contains(validBackends, config.Backend) {
		return fmt.Errorf("invalid store backend: %s, must be one of: %v", config.Backend, validBackends)
	}

	if config.SnapshotTTL <= 0 {
		return fmt.Errorf("snapshot_ttl must be positive, got: %v", config.SnapshotTTL)
	}

	if config.QuotaTTL <= 0 {
		return fmt.Errorf("quota_ttl must be positive, got: %v", config.QuotaTTL)
	}

	if config.Backend == "redis" {
		if err := v.validateRedis(config.Redis); err != nil {
			return err
		}
	}

	return nil
}

// validateRedis valida la configuración de Redis
func (v *Validator) validateRedis(config RedisConfig) error {
	if config.Addr == "" {
		return fmt.Errorf("redis addr cannot be empty")
	}

	if !strings.Contains(config.Addr, ":") {
		return fmt.Errorf("invalid redis addr format: %s, expected host:port", config.Addr)
	}

	if config.DB < 0 || config.DB > 15 {
		return fmt.Errorf("invalid redis DB: %d, must be between 0-15", config.DB)
	}

	if config.MaxRetries < -1 || config.MaxRetries > 10 {
		return fmt.Errorf("invalid redis max_retries: %d, must be between -1 and 10", config.MaxRetries)
	}

	if config.MaxRetryBackoff > 0 && config.MinRetryBackoff > config.MaxRetryBackoff {
		return fmt.Errorf("redis min_retry_backoff (%v) exceeds max_retry_backoff (%v)", config.MinRetryBackoff, config.MaxRetryBackoff)
	}

	return nil
}

// validateCache valida el umbral de frescura
func (v *Validator) validateCache(config CacheConfig, store StoreConfig) error {
	if config.FreshnessThreshold <= 0 {
		return fmt.Errorf("freshness_threshold must be positive, got: %v", config.FreshnessThreshold)
	}

	if config.FreshnessThreshold < time.Second {
		return fmt.Errorf("freshness_threshold too short: %v, min 1s", config.FreshnessThreshold)
	}

	// Un snapshot que expira antes de volverse obsoleto impide el fallback
	if store.SnapshotTTL < config.FreshnessThreshold {
		return fmt.Errorf("snapshot_ttl (%v) must not be shorter than freshness_threshold (%v)", store.SnapshotTTL, config.FreshnessThreshold)
	}

	return nil
}

// validateProvider valida la configuración del proveedor externo
func (v *Validator) validateProvider(config ProviderConfig) error {
	if err := v.validateURL(config.BaseURL, "provider base_url"); err != nil {
		return err
	}

	if config.AttemptTimeout <= 0 {
		return fmt.Errorf("provider attempt_timeout must be positive, got: %v", config.AttemptTimeout)
	}

	if config.MaxRetries < 0 || config.MaxRetries > 10 {
		return fmt.Errorf("provider max_retries must be between 0-10, got: %d", config.MaxRetries)
	}

	if config.RetryBaseDelay < 0 {
		return fmt.Errorf("provider retry_base_delay cannot be negative, got: %v", config.RetryBaseDelay)
	}

	if config.RequestsPerMinute < 0 {
		return fmt.Errorf("provider requests_per_minute cannot be negative, got: %d", config.RequestsPerMinute)
	}

	if config.RequestsPerMinute > 0 && config.Burst <= 0 {
		return fmt.Errorf("provider burst must be positive when requests_per_minute is set, got: %d", config.Burst)
	}

	return nil
}

// validateRateLimit valida la cuota por credencial
func (v *Validator) validateRateLimit(config RateLimitConfig, store StoreConfig) error {
	if config.Limit <= 0 {
		return fmt.Errorf("rate_limit limit must be positive, got: %d", config.Limit)
	}

	if config.Limit > 100000 {
		return fmt.Errorf("rate_limit limit too high: %d, max 100000", config.Limit)
	}

	if config.Window < time.Second {
		return fmt.Errorf("rate_limit window must be at least 1s, got: %v", config.Window)
	}

	if store.QuotaTTL < config.Window {
		return fmt.Errorf("quota_ttl (%v) must cover the rate_limit window (%v)", store.QuotaTTL, config.Window)
	}

	return nil
}

// validateAuth valida la configuración de autenticación
func (v *Validator) validateAuth(config AuthConfig) error {
	if strings.TrimSpace(config.HeaderName) == "" {
		return fmt.Errorf("auth header_name cannot be empty")
	}
	return nil
}

// validateRefresh valida la planificación del refresco
func (v *Validator) validateRefresh(config RefreshConfig) error {
	if !config.Enabled {
		return nil
	}

	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(config.Schedule); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", config.Schedule, err)
	}

	if config.Interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got: %v", config.Interval)
	}

	if config.StaleMultiplier < 1 {
		return fmt.Errorf("refresh stale_multiplier must be at least 1, got: %d", config.StaleMultiplier)
	}

	if config.RunTimeout <= 0 {
		return fmt.Errorf("refresh run_timeout must be positive, got: %v", config.RunTimeout)
	}

	return nil
}

// validateLogging valida la configuración de logging
func (v *Validator) validateLogging(config LoggingConfig) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, strings.ToLower(config.Level)) {
		return fmt.Errorf("invalid log level: %s, must be one of: %v", config.Level, validLevels)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, strings.ToLower(config.Format)) {
		return fmt.Errorf("invalid log format: %s, must be one of: %v", config.Format, validFormats)
	}

	return nil
}

// validateBusiness valida el universo de símbolos
func (v *Validator) validateBusiness(config BusinessConfig) error {
	if len(config.SupportedSymbols) == 0 {
		return fmt.Errorf("supported_symbols cannot be empty")
	}

	for _, symbol := range config.SupportedSymbols {
		if !symbolPattern.MatchString(strings.ToUpper(strings.TrimSpace(symbol))) {
			return fmt.Errorf("invalid symbol format: %q, expected 2-10 alphanumeric characters", symbol)
		}
	}

	return nil
}

// validateURL valida que una URL sea válida para HTTP/HTTPS
func (v *Validator) validateURL(rawURL, fieldName string) error {
	if rawURL == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid %s: %s, error: %v", fieldName, rawURL, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("invalid %s scheme: %s, must be http or https", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s must have a host", fieldName)
	}

	return nil
}

// contains verifica si un slice contiene un elemento
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
