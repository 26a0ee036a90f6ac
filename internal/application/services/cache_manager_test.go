package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheManager_IsFresh(t *testing.T) {
	f := newFixture()
	threshold := 300 * time.Second

	tests := []struct {
		name     string
		snapshot *entities.PriceSnapshot
		want     bool
	}{
		{"recién actualizado", snapshotAt("BTC", "1", baseTime), true},
		{"hace 60s", snapshotAt("BTC", "1", baseTime.Add(-60*time.Second)), true},
		{"justo en el umbral", snapshotAt("BTC", "1", baseTime.Add(-threshold)), false},
		{"hace 400s", snapshotAt("BTC", "1", baseTime.Add(-400*time.Second)), false},
		{"ausente", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.cache.IsFresh(tt.snapshot, threshold))
		})
	}
}

func TestCacheManager_GetFreshNeverReturnsStale(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seed(
		snapshotAt("BTC", "43000", baseTime.Add(-60*time.Second)),
		snapshotAt("ETH", "2300", baseTime.Add(-400*time.Second)),
	)

	btc, err := f.cache.GetFresh(ctx, "BTC", 300*time.Second)
	require.NoError(t, err)
	require.NotNil(t, btc)
	assert.Equal(t, "BTC", btc.Symbol)

	eth, err := f.cache.GetFresh(ctx, "ETH", 300*time.Second)
	require.NoError(t, err)
	assert.Nil(t, eth)

	missing, err := f.cache.GetFresh(ctx, "ADA", 300*time.Second)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCacheManager_GetFreshBatch(t *testing.T) {
	f := newFixture()
	f.seed(
		snapshotAt("BTC", "43000", baseTime.Add(-10*time.Second)),
		snapshotAt("ETH", "2300", baseTime.Add(-400*time.Second)),
	)

	got, err := f.cache.GetFreshBatch(context.Background(), []string{"BTC", "ETH", "ADA"}, 300*time.Second)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, "BTC")
}

func TestCacheManager_PutKeepsFullPrecision(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	snapshot := snapshotAt("BTC", "43250.123456789", baseTime)
	snapshot.Change24h = decimal.RequireFromString("-1.23456")
	require.NoError(t, f.cache.Put(ctx, snapshot, time.Hour))

	got, err := f.cache.GetFresh(ctx, "BTC", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "43250.123456789", got.Price.String())
	assert.Equal(t, "-1.23456", got.Change24h.String())
	assert.Equal(t, snapshot.MarketCap, got.MarketCap)
	assert.True(t, snapshot.LastUpdated.Equal(got.LastUpdated))
	assert.True(t, got.ExpiresAt.Equal(baseTime.Add(time.Hour)))
}

func TestCacheManager_PutBatchOverwrites(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seed(snapshotAt("BTC", "1", baseTime.Add(-time.Minute)))

	require.NoError(t, f.cache.PutBatch(ctx, []*entities.PriceSnapshot{
		snapshotAt("BTC", "2", baseTime),
		snapshotAt("ETH", "3", baseTime),
	}, time.Hour))

	got, err := f.cache.Lookup(ctx, []string{"BTC", "ETH"})
	require.NoError(t, err)
	assert.Equal(t, "2", got["BTC"].Price.String())
	assert.Equal(t, "3", got["ETH"].Price.String())

	assert.NoError(t, f.cache.PutBatch(ctx, nil, time.Hour))
}

func TestCacheManager_Status(t *testing.T) {
	f := newFixture()
	f.seed(
		snapshotAt("BTC", "43000", baseTime.Add(-60*time.Second)),
		snapshotAt("ETH", "2300", baseTime.Add(-400*time.Second)),
	)

	status, err := f.cache.Status(context.Background(), []string{"BTC", "ETH", "ADA"}, 300*time.Second)
	require.NoError(t, err)
	require.Len(t, status, 3)

	assert.True(t, status["BTC"].Exists)
	assert.True(t, status["BTC"].IsFresh)
	assert.False(t, status["BTC"].NeedsRefresh)
	assert.InDelta(t, 60, status["BTC"].AgeSeconds, 0.001)

	assert.True(t, status["ETH"].Exists)
	assert.False(t, status["ETH"].IsFresh)
	assert.True(t, status["ETH"].NeedsRefresh)
	assert.InDelta(t, 400, status["ETH"].AgeSeconds, 0.001)

	assert.False(t, status["ADA"].Exists)
	assert.True(t, status["ADA"].NeedsRefresh)
}

func TestCacheManager_StoreErrorsPropagate(t *testing.T) {
	f := newFixture()
	f.store.failReads = apperror.Store("get_many", errors.New("connection refused"), true)

	_, err := f.cache.Status(context.Background(), []string{"BTC"}, time.Minute)
	assert.True(t, apperror.IsCode(err, apperror.CodeStore))

	_, err = f.cache.GetFresh(context.Background(), "BTC", time.Minute)
	assert.True(t, apperror.IsCode(err, apperror.CodeStore))
}
