package kvstore

import (
	"context"
	"testing"
	"time"

	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot(symbol, price string, at time.Time) *entities.PriceSnapshot {
	return entities.NewPriceSnapshot(symbol, entities.DisplayNameFor(symbol), decimal.RequireFromString(price), decimal.RequireFromString("1.5"), 1000, at)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "PRICE#BTC:METADATA", PriceKey("BTC"))
	assert.Equal(t, "APIKEY#ck_abc:METADATA", CredentialKey("ck_abc"))
	assert.Equal(t, "APIKEY#ck_abc:RATELIMIT#202501010000", QuotaKey("ck_abc", "202501010000"))
}

func TestPriceRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewPriceRepository(store)
	at := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.Save(ctx, sampleSnapshot("BTC", "43250.5", at), time.Hour))

	got, err := repo.Get(ctx, "BTC")
	require.NoError(t, err)
	assert.Equal(t, "BTC", got.Symbol)
	assert.Equal(t, "Bitcoin", got.DisplayName)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("43250.5")))
	assert.True(t, got.LastUpdated.Equal(at))
	assert.True(t, got.ExpiresAt.Equal(at.Add(time.Hour)))

	_, err = repo.Get(ctx, "ETH")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPriceRepository_StoreExpiryFollowsLastUpdated(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := NewMemoryStore().WithClock(clock)
	repo := NewPriceRepository(store).WithClock(clock)

	// Obtenido hace 50 minutos: con ttl de 1h le quedan 10 minutos en el almacén
	require.NoError(t, repo.Save(ctx, sampleSnapshot("BTC", "1", now.Add(-50*time.Minute)), time.Hour))
	require.NoError(t, repo.SaveBatch(ctx, []*entities.PriceSnapshot{
		sampleSnapshot("ETH", "2", now.Add(-50*time.Minute)),
		sampleSnapshot("SOL", "3", now),
	}, time.Hour))

	now = now.Add(9 * time.Minute)
	got, err := repo.GetMany(ctx, []string{"BTC", "ETH", "SOL"})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.True(t, got["BTC"].ExpiresAt.Equal(got["BTC"].LastUpdated.Add(time.Hour)))

	now = now.Add(2 * time.Minute)
	got, err = repo.GetMany(ctx, []string{"BTC", "ETH", "SOL"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, "SOL")
}

func TestPriceRepository_ExpiredSnapshotKeptBriefly(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := NewMemoryStore().WithClock(clock)
	repo := NewPriceRepository(store).WithClock(clock)

	require.NoError(t, repo.Save(ctx, sampleSnapshot("BTC", "1", now.Add(-2*time.Hour)), time.Hour))
	_, err := repo.Get(ctx, "BTC")
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = repo.Get(ctx, "BTC")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPriceRepository_SaveBatchOverwritesAndGetMany(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewPriceRepository(store)
	at := time.Now().UTC()

	require.NoError(t, repo.Save(ctx, sampleSnapshot("BTC", "1", at), time.Hour))
	require.NoError(t, repo.SaveBatch(ctx, []*entities.PriceSnapshot{
		sampleSnapshot("BTC", "2", at),
		sampleSnapshot("ETH", "3", at),
	}, time.Hour))

	got, err := repo.GetMany(ctx, []string{"BTC", "ETH", "SOL"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got["BTC"].Price.Equal(decimal.NewFromInt(2)))
	assert.True(t, got["ETH"].Price.Equal(decimal.NewFromInt(3)))

	require.NoError(t, repo.SaveBatch(ctx, nil, time.Hour))
}

func TestPriceRepository_GetManySkipsCorruptRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewPriceRepository(store)

	require.NoError(t, store.Put(ctx, PriceKey("BTC"), []byte("{not json"), 0))
	require.NoError(t, repo.Save(ctx, sampleSnapshot("ETH", "3", time.Now()), time.Hour))

	got, err := repo.GetMany(ctx, []string{"BTC", "ETH"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, "ETH")
}

func TestCredentialRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewCredentialRepository(NewMemoryStore())

	credential := entities.NewCredential("ck_test", "ci", time.Now().UTC())
	require.NoError(t, repo.Save(ctx, credential))

	got, err := repo.Get(ctx, "ck_test")
	require.NoError(t, err)
	assert.Equal(t, "ci", got.Label)
	assert.True(t, got.Enabled)

	_, err = repo.Get(ctx, "ck_other")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestQuotaRepository_IncrementAndCurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewQuotaRepository(NewMemoryStore())
	expiresAt := time.Now().Add(time.Hour)

	counter, err := repo.Current(ctx, "ck_test", "202501010000")
	require.NoError(t, err)
	assert.Zero(t, counter.Count)
	assert.Equal(t, "ck_test", counter.KeyID)
	assert.Equal(t, "202501010000", counter.Bucket)

	for i := 1; i <= 3; i++ {
		n, err := repo.Increment(ctx, "ck_test", "202501010000", expiresAt)
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}

	counter, err = repo.Current(ctx, "ck_test", "202501010000")
	require.NoError(t, err)
	assert.Equal(t, int64(3), counter.Count)

	// Otra ventana empieza de cero
	n, err := repo.Increment(ctx, "ck_test", "202501010001", expiresAt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestFactory_CreateStore(t *testing.T) {
	ctx := context.Background()
	factory := NewFactory()

	store, err := factory.CreateStore(ctx, Config{Backend: BackendMemory})
	require.NoError(t, err)
	require.NoError(t, store.Ping(ctx))

	_, isInstrumented := store.(*InstrumentedStore)
	assert.True(t, isInstrumented)

	_, err = factory.CreateStore(ctx, Config{Backend: "dynamo"})
	assert.Error(t, err)
}

func TestFactory_RedisUnreachable(t *testing.T) {
	ctx := context.Background()
	_, err := NewFactory().CreateStore(ctx, Config{
		Backend:        BackendRedis,
		Addr:           "127.0.0.1:1",
		ConnectTimeout: 200 * time.Millisecond,
		DialTimeout:    100 * time.Millisecond,
	})
	assert.Error(t, err)
}

func TestInstrumentedStore_PassesThrough(t *testing.T) {
	ctx := context.Background()
	store := NewInstrumentedStore(NewMemoryStore(), "memory")

	require.NoError(t, store.Put(ctx, "k", []byte("v"), time.Minute))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	n, err := store.Increment(ctx, "c", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, store.Close())
}
