package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Loader handles configuration loading using Viper
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader instance
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// Load loads configuration from files and environment variables
func (l *Loader) Load() (*Config, error) {
	// 1. Configure Viper
	if err := l.setupViper(); err != nil {
		return nil, fmt.Errorf("failed to setup viper: %w", err)
	}

	// 2. Read configuration
	if err := l.v.ReadInConfig(); err != nil {
		// If config.yaml doesn't exist, use only env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 3. Unmarshall a struct
	config := GetDefaultConfig()
	if err := l.v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 4. Override with specific env vars (for compatibility)
	l.overrideWithEnvVars(config)

	return config, nil
}

// setupViper configures Viper to read files and env vars
func (l *Loader) setupViper() error {
	// Configure to read YAML files
	l.v.SetConfigName("config")
	l.v.SetConfigType("yaml")

	// Search for configuration files in:
	l.v.AddConfigPath("./configs")         // Configs directory in root
	l.v.AddConfigPath("../configs")        // For when running from cmd/
	l.v.AddConfigPath(".")                 // Current directory
	l.v.AddConfigPath("/etc/crypto-quote") // System (production)

	// Automatic environment variables
	l.v.AutomaticEnv()
	l.v.SetEnvPrefix("CRYPTO_QUOTE") // Prefix for env vars: CRYPTO_QUOTE_SERVER_PORT
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit env vars mapping (for backward compatibility)
	l.bindEnvVars()

	return nil
}

// bindEnvVars maps specific environment variables to configuration keys
func (l *Loader) bindEnvVars() {
	// Existing environment variables (backward compatibility)
	envMappings := map[string]string{
		"server.port":                  "PORT",
		"store.backend":                "STORE_BACKEND",
		"store.redis.addr":             "REDIS_ADDR",
		"store.redis.password":         "REDIS_PASSWORD",
		"store.redis.db":               "REDIS_DB",
		"store.redis.max_retries":      "REDIS_MAX_RETRIES",
		"provider.base_url":            "EXTERNAL_API_URL",
		"provider.api_key":             "EXTERNAL_API_KEY",
		"provider.max_retries":         "MAX_RETRIES",
		"provider.requests_per_minute": "EXTERNAL_API_RPM",
		"rate_limit.limit":             "RATE_LIMIT_PER_MINUTE",
		"auth.header_name":             "API_KEY_HEADER",
		"refresh.schedule":             "REFRESH_SCHEDULE",
		"refresh.enabled":              "REFRESH_ENABLED",
		"logging.level":                "LOG_LEVEL",
		"logging.format":               "LOG_FORMAT",
	}

	for configKey, envVar := range envMappings {
		_ = l.v.BindEnv(configKey, envVar)
	}
}

// overrideWithEnvVars maneja casos especiales de env vars
func (l *Loader) overrideWithEnvVars(config *Config) {
	// SUPPORTED_SYMBOLS como string separado por comas
	if symbolsEnv := os.Getenv("SUPPORTED_SYMBOLS"); symbolsEnv != "" {
		if symbols := ParseSymbolList(symbolsEnv); len(symbols) > 0 {
			config.Business.SupportedSymbols = symbols
		}
	}

	// Duraciones heredadas en segundos ("300") o en formato Go ("5m")
	durations := map[string]*time.Duration{
		"PRICE_TTL":                 &config.Store.SnapshotTTL,
		"RATE_LIMIT_TTL":            &config.Store.QuotaTTL,
		"CACHE_FRESHNESS_THRESHOLD": &config.Cache.FreshnessThreshold,
		"EXTERNAL_API_TIMEOUT":      &config.Provider.AttemptTimeout,
		"RETRY_BASE_DELAY":          &config.Provider.RetryBaseDelay,
		"RATE_LIMIT_WINDOW":         &config.RateLimit.Window,
		"REFRESH_INTERVAL":          &config.Refresh.Interval,
	}
	for envVar, target := range durations {
		if d, ok := parseDurationEnv(os.Getenv(envVar)); ok {
			*target = d
		}
	}
}

// parseDurationEnv acepta segundos enteros o una duración de Go
func parseDurationEnv(raw string) (time.Duration, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, true
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, true
	}
	return 0, false
}

// ParseSymbolList parsea una lista CSV de tickers: trim, mayúsculas, sin vacíos ni duplicados
func ParseSymbolList(csv string) []string {
	seen := make(map[string]struct{})
	var symbols []string
	for _, symbol := range strings.Split(csv, ",") {
		symbol = strings.TrimSpace(strings.ToUpper(symbol))
		if symbol == "" {
			continue
		}
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}
		symbols = append(symbols, symbol)
	}
	return symbols
}

// LoadForEnvironment loads specific configuration for an environment
func (l *Loader) LoadForEnvironment(environment string) (*Config, error) {
	// Load base config first
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	// Try to load environment-specific override
	if environment != "" {
		envConfigFile := fmt.Sprintf("config.%s", environment)
		l.v.SetConfigName(envConfigFile)

		if err := l.v.MergeInConfig(); err != nil {
			// Not a critical error if environment file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to merge environment config: %w", err)
			}
		}

		// Re-unmarshal with merged configuration
		if err := l.v.Unmarshal(config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal merged config: %w", err)
		}

		// Re-apply env var overrides
		l.overrideWithEnvVars(config)
	}

	return config, nil
}

// GetEnvironment determina el entorno actual desde ENV vars
func GetEnvironment() string {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		env = strings.ToLower(os.Getenv("ENVIRONMENT"))
	}
	if env == "" {
		env = "development" // Default
	}
	return env
}
