package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crypto-quote-service/internal/domain/interfaces"

	"github.com/redis/go-redis/v9"
)

// incrementScript incrementa y fija EXPIREAT solo cuando el contador nace,
// todo dentro de una única ejecución atómica en el servidor.
const incrementScript = `
local v = redis.call('INCR', KEYS[1])
if v == 1 then
  redis.call('EXPIREAT', KEYS[1], ARGV[1])
end
return v
`

// redisClient es el subconjunto de *redis.Client que usa el almacén; permite mocks en tests
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore implements KeyValueStore on Redis
type RedisStore struct {
	client redisClient
}

var _ interfaces.KeyValueStore = (*RedisStore)(nil)

// NewRedisStore creates a store with its own client built from options
func NewRedisStore(opts *redis.Options) *RedisStore {
	return &RedisStore{client: redis.NewClient(opts)}
}

// NewRedisStoreWithClient creates a store over an existing client
func NewRedisStoreWithClient(client redisClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get retrieves a value from Redis
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, wrapStoreError("get", err)
	}
	return val, nil
}

// GetMany retrieves several keys in one MGET, omitting missing ones
func (r *RedisStore) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, wrapStoreError("get_many", err)
	}
	for i, v := range vals {
		if i >= len(keys) {
			break
		}
		switch typed := v.(type) {
		case nil:
			continue
		case string:
			out[keys[i]] = []byte(typed)
		case []byte:
			out[keys[i]] = typed
		default:
			return nil, wrapStoreError("get_many", fmt.Errorf("unexpected MGET value type %T", v))
		}
	}
	return out, nil
}

// Put stores a value with TTL (0 = no expiry)
func (r *RedisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return wrapStoreError("put", r.client.Set(ctx, key, value, ttl).Err())
}

// PutBatch writes every item inside MULTI/EXEC
func (r *RedisStore) PutBatch(ctx context.Context, items []interfaces.StoreItem) error {
	if len(items) == 0 {
		return nil
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, it := range items {
			pipe.Set(ctx, it.Key, it.Value, it.TTL)
		}
		return nil
	})
	return wrapStoreError("put_batch", err)
}

// Increment runs INCR + EXPIREAT atomically through a Lua script
func (r *RedisStore) Increment(ctx context.Context, key string, expiresAt time.Time) (int64, error) {
	count, err := r.client.Eval(ctx, incrementScript, []string{key}, expiresAt.Unix()).Int64()
	if err != nil {
		return 0, wrapStoreError("increment", err)
	}
	return count, nil
}

// Ping checks if Redis connection is alive
func (r *RedisStore) Ping(ctx context.Context) error {
	return wrapStoreError("ping", r.client.Ping(ctx).Err())
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}
