package kvstore

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/domain/interfaces"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRedisClient es un mock del cliente Redis
type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	cmd := redis.NewStringCmd(ctx, "get", key)
	if args.Error(1) != nil {
		cmd.SetErr(args.Error(1))
	} else {
		cmd.SetVal(args.String(0))
	}
	return cmd
}

func (m *MockRedisClient) MGet(ctx context.Context, keys ...string) *redis.SliceCmd {
	args := m.Called(ctx, keys)
	cmd := redis.NewSliceCmd(ctx, "mget")
	if args.Error(1) != nil {
		cmd.SetErr(args.Error(1))
	} else {
		cmd.SetVal(args.Get(0).([]interface{}))
	}
	return cmd
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	if args.Error(0) != nil {
		cmd.SetErr(args.Error(0))
	} else {
		cmd.SetVal("OK")
	}
	return cmd
}

// TxPipelined ejecuta fn sobre un pipeline sin conexión para contar los comandos encolados
func (m *MockRedisClient) TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error) {
	pipe := redis.NewClient(&redis.Options{Addr: "localhost:0"}).TxPipeline()
	if err := fn(pipe); err != nil {
		return nil, err
	}
	args := m.Called(ctx, pipe.Len())
	return nil, args.Error(0)
}

func (m *MockRedisClient) Eval(ctx context.Context, script string, keys []string, scriptArgs ...interface{}) *redis.Cmd {
	args := m.Called(ctx, script, keys, scriptArgs)
	cmd := redis.NewCmd(ctx, "eval")
	if args.Error(1) != nil {
		cmd.SetErr(args.Error(1))
	} else {
		cmd.SetVal(args.Get(0))
	}
	return cmd
}

func (m *MockRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	args := m.Called(ctx)
	cmd := redis.NewStatusCmd(ctx, "ping")
	if args.Error(0) != nil {
		cmd.SetErr(args.Error(0))
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

func (m *MockRedisClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestRedisStore_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		val        string
		err        error
		wantErr    bool
		notFound   bool
		transient  bool
		wantResult string
	}{
		{name: "hit", val: "payload", wantResult: "payload"},
		{name: "miss", err: redis.Nil, wantErr: true, notFound: true},
		{name: "network error", err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}, wantErr: true, transient: true},
		{name: "permanent error", err: errors.New("WRONGTYPE Operation against a key"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockRedisClient)
			client.On("Get", ctx, "k").Return(tt.val, tt.err)
			store := NewRedisStoreWithClient(client)

			got, err := store.Get(ctx, "k")
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.wantResult, string(got))
				return
			}
			require.Error(t, err)
			if tt.notFound {
				assert.ErrorIs(t, err, apperror.ErrNotFound)
				return
			}
			assert.True(t, apperror.IsCode(err, apperror.CodeStore))
			assert.Equal(t, tt.transient, apperror.IsTransient(err))
			client.AssertExpectations(t)
		})
	}
}

func TestRedisStore_GetMany(t *testing.T) {
	ctx := context.Background()
	client := new(MockRedisClient)
	client.On("MGet", ctx, []string{"a", "b", "c"}).Return([]interface{}{"1", nil, "3"}, nil)

	got, err := NewRedisStoreWithClient(client).GetMany(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a": []byte("1"), "c": []byte("3")}, got)

	empty, err := NewRedisStoreWithClient(client).GetMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	client.AssertNumberOfCalls(t, "MGet", 1)
}

func TestRedisStore_Put(t *testing.T) {
	ctx := context.Background()
	client := new(MockRedisClient)
	client.On("Set", ctx, "k", []byte("v"), time.Minute).Return(nil)

	require.NoError(t, NewRedisStoreWithClient(client).Put(ctx, "k", []byte("v"), time.Minute))
	client.AssertExpectations(t)
}

func TestRedisStore_PutBatchUsesTransaction(t *testing.T) {
	ctx := context.Background()
	client := new(MockRedisClient)
	client.On("TxPipelined", ctx, 3).Return(nil).Once()

	err := NewRedisStoreWithClient(client).PutBatch(ctx, []interfaces.StoreItem{
		{Key: "a", Value: []byte("1"), TTL: time.Minute},
		{Key: "b", Value: []byte("2"), TTL: time.Minute},
		{Key: "c", Value: []byte("3"), TTL: time.Minute},
	})
	require.NoError(t, err)
	client.AssertExpectations(t)

	// Lote vacío no toca Redis
	require.NoError(t, NewRedisStoreWithClient(client).PutBatch(ctx, nil))
	client.AssertNumberOfCalls(t, "TxPipelined", 1)
}

func TestRedisStore_PutBatchError(t *testing.T) {
	ctx := context.Background()
	client := new(MockRedisClient)
	client.On("TxPipelined", ctx, 1).Return(context.DeadlineExceeded)

	err := NewRedisStoreWithClient(client).PutBatch(ctx, []interfaces.StoreItem{{Key: "a", Value: []byte("1")}})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeStore))
	assert.True(t, apperror.IsTransient(err))
}

func TestRedisStore_IncrementRunsScript(t *testing.T) {
	ctx := context.Background()
	expiresAt := time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC)

	client := new(MockRedisClient)
	client.On("Eval", ctx, incrementScript, []string{"q"}, []interface{}{expiresAt.Unix()}).Return(int64(7), nil)

	n, err := NewRedisStoreWithClient(client).Increment(ctx, "q", expiresAt)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	client.AssertExpectations(t)
}

func TestRedisStore_PingAndClose(t *testing.T) {
	ctx := context.Background()
	client := new(MockRedisClient)
	client.On("Ping", ctx).Return(errors.New("i/o timeout")).Once()
	client.On("Close").Return(nil)

	store := NewRedisStoreWithClient(client)
	assert.True(t, apperror.IsCode(store.Ping(ctx), apperror.CodeStore))
	assert.NoError(t, store.Close())
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(context.DeadlineExceeded))
	assert.True(t, isTransient(&net.OpError{Op: "read", Err: errors.New("reset")}))
	assert.True(t, isTransient(errors.New("redis: connection pool timeout")))
	assert.False(t, isTransient(errors.New("ERR syntax error")))
}

func TestRedisOptions(t *testing.T) {
	opts := RedisOptions(Config{
		Addr:            "redis:6379",
		DB:              2,
		MaxRetries:      5,
		MinRetryBackoff: 10 * time.Millisecond,
		MaxRetryBackoff: time.Second,
	})
	assert.Equal(t, "redis:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 5, opts.MaxRetries)
	assert.Equal(t, 10*time.Millisecond, opts.MinRetryBackoff)
	assert.Equal(t, time.Second, opts.MaxRetryBackoff)
}
