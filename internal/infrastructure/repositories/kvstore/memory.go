package kvstore

import (
	"context"
	"strconv"
	"sync"
	"time"

	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/domain/interfaces"
)

// storeItem representa un valor con su tiempo de expiración (cero = sin expiración)
type storeItem struct {
	value     []byte
	expiresAt time.Time
}

func (item *storeItem) isExpired(now time.Time) bool {
	return !item.expiresAt.IsZero() && !now.Before(item.expiresAt)
}

// MemoryStore implementa KeyValueStore en memoria local.
// Útil para tests y despliegues de un solo nodo.
type MemoryStore struct {
	items  map[string]*storeItem
	mu     sync.RWMutex
	now    func() time.Time
	closed bool
}

// NewMemoryStore crea un almacén en memoria vacío
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*storeItem),
		now:   time.Now,
	}
}

// WithClock reemplaza el reloj, usado por los tests
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

var _ interfaces.KeyValueStore = (*MemoryStore)(nil)

func (s *MemoryStore) checkOpen(op string) error {
	if s.closed {
		return apperror.Store(op, errStoreClosed, false)
	}
	return nil
}

// Get obtiene un valor; las claves expiradas se tratan como ausentes
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen("get"); err != nil {
		return nil, err
	}
	item, ok := s.items[key]
	if !ok || item.isExpired(s.now()) {
		return nil, notFound(key)
	}
	return cloneBytes(item.value), nil
}

// GetMany devuelve solo las claves presentes y vigentes
func (s *MemoryStore) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen("get_many"); err != nil {
		return nil, err
	}
	now := s.now()
	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if item, ok := s.items[key]; ok && !item.isExpired(now) {
			out[key] = cloneBytes(item.value)
		}
	}
	return out, nil
}

// Put almacena un valor con TTL y hace una limpieza ligera de expirados
func (s *MemoryStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen("put"); err != nil {
		return err
	}
	now := s.now()
	s.evictExpired(now)
	s.items[key] = &storeItem{value: cloneBytes(value), expiresAt: expiry(now, ttl)}
	return nil
}

// PutBatch escribe todos los elementos bajo un único lock
func (s *MemoryStore) PutBatch(ctx context.Context, items []interfaces.StoreItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen("put_batch"); err != nil {
		return err
	}
	now := s.now()
	s.evictExpired(now)
	for _, it := range items {
		s.items[it.Key] = &storeItem{value: cloneBytes(it.Value), expiresAt: expiry(now, it.TTL)}
	}
	return nil
}

// Increment suma uno de forma atómica; la expiración se fija al crear el contador
func (s *MemoryStore) Increment(ctx context.Context, key string, expiresAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen("increment"); err != nil {
		return 0, err
	}
	now := s.now()
	item, ok := s.items[key]
	if !ok || item.isExpired(now) {
		s.items[key] = &storeItem{value: []byte("1"), expiresAt: expiresAt}
		return 1, nil
	}

	count, err := strconv.ParseInt(string(item.value), 10, 64)
	if err != nil {
		return 0, apperror.Store("increment", errNotCounter, false)
	}
	count++
	item.value = []byte(strconv.FormatInt(count, 10))
	return count, nil
}

// Ping siempre responde mientras el almacén esté abierto
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkOpen("ping")
}

// Close marca el almacén como cerrado
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Size retorna el número de elementos (auxiliar para debugging)
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStore) evictExpired(now time.Time) {
	for k, item := range s.items {
		if item.isExpired(now) {
			delete(s.items, k)
		}
	}
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
