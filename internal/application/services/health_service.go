package services

import (
	"context"
	"time"

	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/domain/interfaces"
	"crypto-quote-service/pkg/utils"
)

// HealthService reporta el estado del almacén y la antigüedad de los precios
type HealthService struct {
	cache      *CacheManager
	store      interfaces.KeyValueStore
	universe   *entities.SymbolUniverse
	threshold  time.Duration
	staleAfter time.Duration
	now        func() time.Time
}

var _ interfaces.HealthChecker = (*HealthService)(nil)

// NewHealthService creates the checker. staleAfter is the cache age beyond
// which the service is unhealthy (refresh interval x multiplier).
func NewHealthService(cache *CacheManager, store interfaces.KeyValueStore, universe *entities.SymbolUniverse, threshold, staleAfter time.Duration) *HealthService {
	return &HealthService{
		cache:      cache,
		store:      store,
		universe:   universe,
		threshold:  threshold,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// WithClock replaces the clock, used by tests
func (h *HealthService) WithClock(now func() time.Time) *HealthService {
	h.now = now
	return h
}

// Check inspects the universe in the cache
func (h *HealthService) Check(ctx context.Context) *entities.HealthReport {
	now := h.now().UTC()
	report := &entities.HealthReport{
		Status:    entities.HealthHealthy,
		Timestamp: now,
		StoreOK:   true,
	}

	status, err := h.cache.Status(ctx, h.universe.Symbols(), h.threshold)
	if err != nil {
		report.Status = entities.HealthUnhealthy
		report.StoreOK = false
		report.StoreError = err.Error()
		return report
	}

	var latest time.Time
	for _, entry := range status {
		if entry.Exists && entry.LastUpdated.After(latest) {
			latest = entry.LastUpdated
		}
	}
	if latest.IsZero() {
		report.Status = entities.HealthDegraded
		return report
	}

	age := int64(now.Sub(latest).Seconds())
	if age < 0 {
		age = 0
	}
	report.LastPriceUpdate = &latest
	report.CacheAgeSeconds = &age

	if h.staleAfter > 0 && utils.IsTimestampStale(now, latest, h.staleAfter) {
		report.Status = entities.HealthUnhealthy
	}
	return report
}

// Ready runs Check and additionally pings the store
func (h *HealthService) Ready(ctx context.Context) *entities.HealthReport {
	report := h.Check(ctx)
	if err := h.store.Ping(ctx); err != nil {
		report.Status = entities.HealthUnhealthy
		report.StoreOK = false
		report.StoreError = err.Error()
	}
	return report
}
