package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/domain/interfaces"
	"crypto-quote-service/internal/infrastructure/repositories/kvstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPriceProvider is a mock implementation of interfaces.PriceProvider
type MockPriceProvider struct {
	mock.Mock
}

func (m *MockPriceProvider) FetchPrices(ctx context.Context, symbols []string) ([]*entities.PriceSnapshot, error) {
	args := m.Called(ctx, symbols)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PriceSnapshot), args.Error(1)
}

// MockAuthenticator is a mock implementation of interfaces.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, apiKey string) (*entities.Credential, *entities.QuotaDecision, error) {
	args := m.Called(ctx, apiKey)
	var credential *entities.Credential
	if c := args.Get(0); c != nil {
		credential = c.(*entities.Credential)
	}
	var decision *entities.QuotaDecision
	if d := args.Get(1); d != nil {
		decision = d.(*entities.QuotaDecision)
	}
	return credential, decision, args.Error(2)
}

// failingStore wraps a store and fails selected operations
type failingStore struct {
	interfaces.KeyValueStore
	failReads  error
	failWrites error
	failPing   error
}

func (s *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.failReads != nil {
		return nil, s.failReads
	}
	return s.KeyValueStore.Get(ctx, key)
}

func (s *failingStore) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	if s.failReads != nil {
		return nil, s.failReads
	}
	return s.KeyValueStore.GetMany(ctx, keys)
}

func (s *failingStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.failWrites != nil {
		return s.failWrites
	}
	return s.KeyValueStore.Put(ctx, key, value, ttl)
}

func (s *failingStore) PutBatch(ctx context.Context, items []interfaces.StoreItem) error {
	if s.failWrites != nil {
		return s.failWrites
	}
	return s.KeyValueStore.PutBatch(ctx, items)
}

func (s *failingStore) Ping(ctx context.Context) error {
	if s.failPing != nil {
		return s.failPing
	}
	return s.KeyValueStore.Ping(ctx)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{now: t}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var (
	baseTime        = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	errUpstreamDown = errors.New("upstream unavailable after 4 attempts")
)

func snapshotAt(symbol, price string, at time.Time) *entities.PriceSnapshot {
	return entities.NewPriceSnapshot(symbol, entities.DisplayNameFor(symbol),
		decimal.RequireFromString(price), decimal.RequireFromString("2.345"), 850000000000, at)
}

// fixture wires real services over an in-memory store
type fixture struct {
	clock    *testClock
	store    *failingStore
	prices   *kvstore.PriceRepository
	cache    *CacheManager
	universe *entities.SymbolUniverse
}

func newFixture() *fixture {
	clock := newTestClock(baseTime)
	store := &failingStore{KeyValueStore: kvstore.NewMemoryStore().WithClock(clock.Now)}
	prices := kvstore.NewPriceRepository(store).WithClock(clock.Now)
	return &fixture{
		clock:    clock,
		store:    store,
		prices:   prices,
		cache:    NewCacheManager(prices).WithClock(clock.Now),
		universe: entities.NewSymbolUniverse([]string{"BTC", "ETH", "ADA", "DOGE", "SOL"}),
	}
}

func (f *fixture) seed(snapshots ...*entities.PriceSnapshot) {
	if err := f.prices.SaveBatch(context.Background(), snapshots, time.Hour); err != nil {
		panic(err)
	}
}
