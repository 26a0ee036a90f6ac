package services

import (
	"context"
	"sync"
	"time"

	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/domain/interfaces"
	"crypto-quote-service/internal/infrastructure/logging"
	"crypto-quote-service/internal/infrastructure/metrics"
)

// Refresher trae el universo completo del proveedor y lo escribe en la caché.
// Lo ejecutan el cron, el arranque (warm-up) y el endpoint de administración.
type Refresher struct {
	provider interfaces.PriceProvider
	cache    *CacheManager
	universe *entities.SymbolUniverse
	ttl      time.Duration
	business logging.BusinessLogger
	now      func() time.Time

	// running serializa Run entre cron, warm-up y el endpoint de administración
	running sync.Mutex

	mu          sync.RWMutex
	lastSuccess time.Time
	lastResult  *entities.RefreshResult
}

var (
	_ interfaces.RefreshRunner = (*Refresher)(nil)
	_ interfaces.Warmer        = (*Refresher)(nil)
)

// NewRefresher creates a refresher writing snapshots with the given TTL
func NewRefresher(provider interfaces.PriceProvider, cache *CacheManager, universe *entities.SymbolUniverse, ttl time.Duration) *Refresher {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &Refresher{
		provider: provider,
		cache:    cache,
		universe: universe,
		ttl:      ttl,
		business: logging.Business(),
		now:      time.Now,
	}
}

// WithClock replaces the clock, used by tests
func (r *Refresher) WithClock(now func() time.Time) *Refresher {
	r.now = now
	return r
}

// Run executes one refresh cycle. Failures are reported in the result, never panicked.
// A call made while another run is in progress returns RefreshSkipped at once.
func (r *Refresher) Run(ctx context.Context) *entities.RefreshResult {
	if !r.running.TryLock() {
		lastSuccess, _ := r.LastSuccess()
		logging.Warn(ctx, "Price refresh already in progress, skipping", nil)
		metrics.RecordRefreshRun(string(entities.RefreshSkipped), 0, r.now().UTC())
		return &entities.RefreshResult{Status: entities.RefreshSkipped, LastUpdated: lastSuccess}
	}
	defer r.running.Unlock()

	start := r.now()
	symbols := r.universe.Symbols()

	logging.Info(ctx, "Starting price refresh", logging.Fields{
		logging.FieldSymbolCount: len(symbols),
	})

	snapshots, err := r.provider.FetchPrices(ctx, symbols)
	if err != nil {
		return r.finish(ctx, &entities.RefreshResult{Status: entities.RefreshUpstreamError, Err: err}, start)
	}

	if err := r.cache.PutBatch(ctx, snapshots, r.ttl); err != nil {
		return r.finish(ctx, &entities.RefreshResult{Status: entities.RefreshStoreError, Err: err}, start)
	}

	for _, snapshot := range snapshots {
		metrics.UpdateCurrentPrice(snapshot.Symbol, snapshot.Price.InexactFloat64())
	}
	return r.finish(ctx, &entities.RefreshResult{
		Status:      entities.RefreshSuccess,
		SymbolCount: len(snapshots),
	}, start)
}

func (r *Refresher) finish(ctx context.Context, result *entities.RefreshResult, start time.Time) *entities.RefreshResult {
	finished := r.now().UTC()
	result.Duration = finished.Sub(start)
	result.LastUpdated = finished

	metrics.RecordRefreshRun(string(result.Status), result.Duration, finished)

	r.mu.Lock()
	defer r.mu.Unlock()
	if result.Status == entities.RefreshSuccess {
		r.lastSuccess = finished
		r.business.RefreshCompleted(ctx, string(result.Status), result.SymbolCount, float64(result.Duration.Milliseconds()))
	} else {
		// LastUpdated refleja la última ejecución exitosa, si la hubo
		result.LastUpdated = r.lastSuccess
		r.business.RefreshFailed(ctx, string(result.Status), result.Err)
	}
	r.lastResult = result
	return result
}

// Warmup runs a refresh at startup; an error is informative only
func (r *Refresher) Warmup(ctx context.Context) error {
	result := r.Run(ctx)
	if result.Status != entities.RefreshSuccess {
		return result.Err
	}
	return nil
}

// LastSuccess returns when the last successful run finished
func (r *Refresher) LastSuccess() (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastSuccess, !r.lastSuccess.IsZero()
}

// LastResult returns the outcome of the most recent run, or nil
func (r *Refresher) LastResult() *entities.RefreshResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastResult
}
