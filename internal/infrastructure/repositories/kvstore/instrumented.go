package kvstore

import (
	"context"
	"errors"
	"time"

	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/domain/interfaces"
	"crypto-quote-service/internal/infrastructure/logging"
	"crypto-quote-service/internal/infrastructure/metrics"
)

// InstrumentedStore decora un KeyValueStore con métricas y logs de cache
type InstrumentedStore struct {
	next    interfaces.KeyValueStore
	backend string
	logger  logging.CacheLogger
}

var _ interfaces.KeyValueStore = (*InstrumentedStore)(nil)

// NewInstrumentedStore wraps next, labelling metrics with backend
func NewInstrumentedStore(next interfaces.KeyValueStore, backend string) *InstrumentedStore {
	return &InstrumentedStore{
		next:    next,
		backend: backend,
		logger:  logging.NewCacheLogger(logging.GetGlobalLogger()),
	}
}

func (s *InstrumentedStore) observe(ctx context.Context, op, key string, start time.Time, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, apperror.ErrNotFound):
		result = "not_found"
	default:
		result = "error"
		s.logger.CacheError(ctx, op, key, err)
	}
	metrics.RecordStoreOperation(s.backend, op, result, time.Since(start))
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	val, err := s.next.Get(ctx, key)
	s.observe(ctx, "get", key, start, err)
	return val, err
}

func (s *InstrumentedStore) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	start := time.Now()
	vals, err := s.next.GetMany(ctx, keys)
	s.observe(ctx, "get_many", "", start, err)
	return vals, err
}

func (s *InstrumentedStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	err := s.next.Put(ctx, key, value, ttl)
	s.observe(ctx, "put", key, start, err)
	return err
}

func (s *InstrumentedStore) PutBatch(ctx context.Context, items []interfaces.StoreItem) error {
	start := time.Now()
	err := s.next.PutBatch(ctx, items)
	s.observe(ctx, "put_batch", "", start, err)
	return err
}

func (s *InstrumentedStore) Increment(ctx context.Context, key string, expiresAt time.Time) (int64, error) {
	start := time.Now()
	n, err := s.next.Increment(ctx, key, expiresAt)
	s.observe(ctx, "increment", key, start, err)
	return n, err
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	s.observe(ctx, "ping", "", start, err)
	return err
}

func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}
