package kvstore

import (
	"context"
	"fmt"
	"time"

	"crypto-quote-service/internal/domain/interfaces"
	"crypto-quote-service/internal/infrastructure/logging"

	"github.com/redis/go-redis/v9"
)

// Backend represents the store implementation
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
)

// Config holds store configuration options
type Config struct {
	Backend         Backend
	Addr            string
	Password        string
	DB              int
	PoolSize        int
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ConnectTimeout  time.Duration
}

// Factory provides methods to create store instances
type Factory struct{}

// NewFactory creates a new store factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateStore creates a store based on configuration and wraps it with metrics
func (f *Factory) CreateStore(ctx context.Context, config Config) (interfaces.KeyValueStore, error) {
	switch config.Backend {
	case BackendMemory:
		logging.Info(ctx, "Creating memory store", logging.Fields{
			"backend": "memory",
		})
		return NewInstrumentedStore(NewMemoryStore(), string(BackendMemory)), nil

	case BackendRedis:
		logging.Info(ctx, "Creating Redis store", logging.Fields{
			"backend":     "redis",
			"addr":        config.Addr,
			"database":    config.DB,
			"max_retries": config.MaxRetries,
		})
		store, err := f.createRedisStore(ctx, config)
		if err != nil {
			return nil, err
		}
		return NewInstrumentedStore(store, string(BackendRedis)), nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %s", config.Backend)
	}
}

// RedisOptions translates the config into go-redis options.
// Transient failures are retried by the client itself with these settings.
func RedisOptions(config Config) *redis.Options {
	return &redis.Options{
		Addr:            config.Addr,
		Password:        config.Password,
		DB:              config.DB,
		PoolSize:        config.PoolSize,
		MaxRetries:      config.MaxRetries,
		MinRetryBackoff: config.MinRetryBackoff,
		MaxRetryBackoff: config.MaxRetryBackoff,
		DialTimeout:     config.DialTimeout,
		ReadTimeout:     config.ReadTimeout,
		WriteTimeout:    config.WriteTimeout,
	}
}

// createRedisStore creates the client and tests the connection
func (f *Factory) createRedisStore(ctx context.Context, config Config) (*RedisStore, error) {
	rdb := redis.NewClient(RedisOptions(config))

	timeout := config.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", config.Addr, err)
	}

	logging.Info(ctx, "Redis connection established successfully", logging.Fields{
		"addr":     config.Addr,
		"database": config.DB,
	})
	return NewRedisStoreWithClient(rdb), nil
}
