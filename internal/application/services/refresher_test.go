package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func universeSnapshots(f *fixture, at time.Time) []*entities.PriceSnapshot {
	var out []*entities.PriceSnapshot
	for _, symbol := range f.universe.Symbols() {
		out = append(out, snapshotAt(symbol, "10", at))
	}
	return out
}

func TestRefresher_RunSuccess(t *testing.T) {
	f := newFixture()
	provider := new(MockPriceProvider)
	provider.On("FetchPrices", mock.Anything, f.universe.Symbols()).Return(universeSnapshots(f, baseTime), nil).Once()

	refresher := NewRefresher(provider, f.cache, f.universe, time.Hour).WithClock(f.clock.Now)
	_, ok := refresher.LastSuccess()
	assert.False(t, ok)

	result := refresher.Run(context.Background())
	assert.Equal(t, entities.RefreshSuccess, result.Status)
	assert.Equal(t, f.universe.Len(), result.SymbolCount)
	assert.True(t, result.LastUpdated.Equal(baseTime))

	last, ok := refresher.LastSuccess()
	assert.True(t, ok)
	assert.True(t, last.Equal(baseTime))
	assert.Same(t, result, refresher.LastResult())

	fresh, err := f.cache.GetFreshBatch(context.Background(), f.universe.Symbols(), time.Minute)
	require.NoError(t, err)
	assert.Len(t, fresh, f.universe.Len())
	provider.AssertExpectations(t)
}

func TestRefresher_ConcurrentRunIsSkipped(t *testing.T) {
	f := newFixture()
	started := make(chan struct{})
	release := make(chan struct{})
	provider := new(MockPriceProvider)
	provider.On("FetchPrices", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(universeSnapshots(f, baseTime), nil).Once()

	refresher := NewRefresher(provider, f.cache, f.universe, time.Hour).WithClock(f.clock.Now)

	done := make(chan *entities.RefreshResult, 1)
	go func() { done <- refresher.Run(context.Background()) }()
	<-started

	skipped := refresher.Run(context.Background())
	assert.Equal(t, entities.RefreshSkipped, skipped.Status)
	assert.NoError(t, skipped.Err)
	assert.True(t, skipped.LastUpdated.IsZero())

	close(release)
	first := <-done
	assert.Equal(t, entities.RefreshSuccess, first.Status)
	assert.Same(t, first, refresher.LastResult())
	provider.AssertNumberOfCalls(t, "FetchPrices", 1)
}

func TestRefresher_UpstreamFailureIsNonFatal(t *testing.T) {
	f := newFixture()
	f.seed(snapshotAt("BTC", "43000", baseTime.Add(-time.Minute)))
	provider := new(MockPriceProvider)
	provider.On("FetchPrices", mock.Anything, mock.Anything).Return(nil, apperror.Upstream(4, errUpstreamDown))

	refresher := NewRefresher(provider, f.cache, f.universe, time.Hour).WithClock(f.clock.Now)
	result := refresher.Run(context.Background())

	assert.Equal(t, entities.RefreshUpstreamError, result.Status)
	assert.True(t, apperror.IsCode(result.Err, apperror.CodeUpstream))
	assert.True(t, result.LastUpdated.IsZero())

	// Los datos existentes siguen siendo válidos
	btc, err := f.cache.GetFresh(context.Background(), "BTC", 300*time.Second)
	require.NoError(t, err)
	assert.NotNil(t, btc)
}

func TestRefresher_StoreFailure(t *testing.T) {
	f := newFixture()
	provider := new(MockPriceProvider)
	provider.On("FetchPrices", mock.Anything, mock.Anything).Return(universeSnapshots(f, baseTime), nil)

	refresher := NewRefresher(provider, f.cache, f.universe, time.Hour).WithClock(f.clock.Now)
	require.Equal(t, entities.RefreshSuccess, refresher.Run(context.Background()).Status)

	f.clock.Advance(5 * time.Minute)
	f.store.failWrites = apperror.Store("put_batch", errors.New("READONLY"), false)
	result := refresher.Run(context.Background())

	assert.Equal(t, entities.RefreshStoreError, result.Status)
	assert.True(t, apperror.IsCode(result.Err, apperror.CodeStore))
	assert.True(t, result.LastUpdated.Equal(baseTime), "reports the last successful run")
}

func TestRefresher_Warmup(t *testing.T) {
	f := newFixture()
	provider := new(MockPriceProvider)
	provider.On("FetchPrices", mock.Anything, mock.Anything).Return(nil, apperror.Upstream(4, errUpstreamDown)).Once()
	provider.On("FetchPrices", mock.Anything, mock.Anything).Return(universeSnapshots(f, baseTime), nil).Once()

	refresher := NewRefresher(provider, f.cache, f.universe, time.Hour).WithClock(f.clock.Now)
	assert.Error(t, refresher.Warmup(context.Background()))
	assert.NoError(t, refresher.Warmup(context.Background()))
}
