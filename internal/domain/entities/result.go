package entities

import (
	"time"

	"crypto-quote-service/internal/domain/apperror"
)

// SymbolResult is the outcome for one requested symbol
type SymbolResult struct {
	Symbol   string
	Snapshot *PriceSnapshot
	// Stale is set when the snapshot was served past its freshness threshold
	Stale bool
	Err   *apperror.Error
}

// OK reports whether the symbol has data
func (r SymbolResult) OK() bool {
	return r.Snapshot != nil && r.Err == nil
}

// QuoteResult is the per-symbol answer to a quote request, in request order
type QuoteResult struct {
	Symbols     []string
	Results     map[string]SymbolResult
	GeneratedAt time.Time
}

func NewQuoteResult(symbols []string, now time.Time) *QuoteResult {
	return &QuoteResult{
		Symbols:     symbols,
		Results:     make(map[string]SymbolResult, len(symbols)),
		GeneratedAt: now.UTC(),
	}
}

// SuccessCount returns how many symbols carry data
func (q *QuoteResult) SuccessCount() int {
	n := 0
	for _, r := range q.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// IsPartial is true when some but not all symbols carry data
func (q *QuoteResult) IsPartial() bool {
	n := q.SuccessCount()
	return n > 0 && n < len(q.Symbols)
}

// HasStale reports whether any symbol was served from a stale snapshot
func (q *QuoteResult) HasStale() bool {
	for _, r := range q.Results {
		if r.OK() && r.Stale {
			return true
		}
	}
	return false
}

// RefreshStatus is the outcome of one scheduled refresh run
type RefreshStatus string

const (
	RefreshSuccess       RefreshStatus = "success"
	RefreshUpstreamError RefreshStatus = "upstream_error"
	RefreshStoreError    RefreshStatus = "store_error"
	// RefreshSkipped: otra ejecución seguía en curso
	RefreshSkipped RefreshStatus = "skipped"
)

// RefreshResult summarises a refresh run
type RefreshResult struct {
	Status      RefreshStatus `json:"status"`
	SymbolCount int           `json:"priceCount"`
	LastUpdated time.Time     `json:"lastUpdated"`
	Duration    time.Duration `json:"-"`
	Err         error         `json:"-"`
}

// HealthStatus values
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// HealthReport is the liveness/readiness view of the service
type HealthReport struct {
	Status          HealthStatus
	Timestamp       time.Time
	StoreOK         bool
	StoreError      string
	LastPriceUpdate *time.Time
	CacheAgeSeconds *int64
}
