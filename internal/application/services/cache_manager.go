package services

import (
	"context"
	"errors"
	"time"

	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/domain/interfaces"
	"crypto-quote-service/internal/infrastructure/logging"
)

const (
	DefaultFreshnessThreshold = 300 * time.Second  // Edad máxima para servir desde caché sin refrescar
	DefaultSnapshotTTL        = 3600 * time.Second // Expiración de higiene en el almacén
)

// CacheManager decide frescura y lee/escribe snapshots sobre el repositorio.
// Nunca redondea: la precisión completa se conserva hasta la presentación.
type CacheManager struct {
	prices interfaces.PriceRepository
	logger logging.CacheLogger
	now    func() time.Time
}

// NewCacheManager creates a cache manager over a price repository
func NewCacheManager(prices interfaces.PriceRepository) *CacheManager {
	return &CacheManager{
		prices: prices,
		logger: logging.Cache(),
		now:    time.Now,
	}
}

// WithClock replaces the clock, used by tests
func (m *CacheManager) WithClock(now func() time.Time) *CacheManager {
	m.now = now
	return m
}

// IsFresh reports whether now - lastUpdated < threshold. A nil snapshot is never fresh.
func (m *CacheManager) IsFresh(snapshot *entities.PriceSnapshot, threshold time.Duration) bool {
	return snapshot.IsFreshAt(m.now(), threshold)
}

// GetFresh returns the snapshot only when it is fresh; stale or missing yields nil
func (m *CacheManager) GetFresh(ctx context.Context, symbol string, threshold time.Duration) (*entities.PriceSnapshot, error) {
	snapshot, err := m.prices.Get(ctx, symbol)
	if errors.Is(err, apperror.ErrNotFound) {
		m.logger.Miss(ctx, symbol, logging.CacheOpGet)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !m.IsFresh(snapshot, threshold) {
		m.logger.Miss(ctx, symbol, logging.CacheOpGet)
		return nil, nil
	}
	m.logger.Hit(ctx, symbol, logging.CacheOpGet)
	return snapshot, nil
}

// GetFreshBatch returns the fresh subset of symbols; stale and missing ones are left out
func (m *CacheManager) GetFreshBatch(ctx context.Context, symbols []string, threshold time.Duration) (map[string]*entities.PriceSnapshot, error) {
	found, err := m.Lookup(ctx, symbols)
	if err != nil {
		return nil, err
	}
	fresh := make(map[string]*entities.PriceSnapshot, len(found))
	for symbol, snapshot := range found {
		if m.IsFresh(snapshot, threshold) {
			fresh[symbol] = snapshot
		}
	}
	return fresh, nil
}

// Lookup reads the raw snapshots of symbols regardless of freshness
func (m *CacheManager) Lookup(ctx context.Context, symbols []string) (map[string]*entities.PriceSnapshot, error) {
	if len(symbols) == 0 {
		return map[string]*entities.PriceSnapshot{}, nil
	}
	return m.prices.GetMany(ctx, symbols)
}

// Put overwrites the snapshot of its symbol
func (m *CacheManager) Put(ctx context.Context, snapshot *entities.PriceSnapshot, ttl time.Duration) error {
	if err := m.prices.Save(ctx, snapshot, ttl); err != nil {
		return err
	}
	m.logger.Set(ctx, snapshot.Symbol, ttl.Seconds())
	return nil
}

// PutBatch overwrites several snapshots in one store write
func (m *CacheManager) PutBatch(ctx context.Context, snapshots []*entities.PriceSnapshot, ttl time.Duration) error {
	if len(snapshots) == 0 {
		return nil
	}
	if err := m.prices.SaveBatch(ctx, snapshots, ttl); err != nil {
		return err
	}
	m.logger.BatchWritten(ctx, len(snapshots), ttl.Seconds())
	return nil
}

// Status reads symbols and reports their cache state
func (m *CacheManager) Status(ctx context.Context, symbols []string, threshold time.Duration) (map[string]entities.CacheEntryStatus, error) {
	found, err := m.Lookup(ctx, symbols)
	if err != nil {
		return nil, err
	}
	return m.StatusOf(found, symbols, threshold), nil
}

// StatusOf partitions already loaded snapshots without touching the store
func (m *CacheManager) StatusOf(snapshots map[string]*entities.PriceSnapshot, symbols []string, threshold time.Duration) map[string]entities.CacheEntryStatus {
	now := m.now()
	out := make(map[string]entities.CacheEntryStatus, len(symbols))
	for _, symbol := range symbols {
		snapshot, ok := snapshots[symbol]
		if !ok || snapshot == nil {
			out[symbol] = entities.CacheEntryStatus{NeedsRefresh: true}
			continue
		}
		fresh := snapshot.IsFreshAt(now, threshold)
		out[symbol] = entities.CacheEntryStatus{
			Exists:       true,
			IsFresh:      fresh,
			AgeSeconds:   snapshot.Age(now).Seconds(),
			NeedsRefresh: !fresh,
			LastUpdated:  snapshot.LastUpdated,
		}
	}
	return out
}
