package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSnapshot is the stored quote of one tracked symbol.
// Price and Change24h keep full precision; rounding belongs to presentation.
type PriceSnapshot struct {
	Symbol      string          `json:"symbol"`
	DisplayName string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Change24h   decimal.Decimal `json:"change24h"`
	MarketCap   int64           `json:"marketCap"`
	LastUpdated time.Time       `json:"lastUpdated"`
	ExpiresAt   time.Time       `json:"expiresAt,omitempty"`
}

func NewPriceSnapshot(symbol, displayName string, price, change24h decimal.Decimal, marketCap int64, lastUpdated time.Time) *PriceSnapshot {
	return &PriceSnapshot{
		Symbol:      symbol,
		DisplayName: displayName,
		Price:       price,
		Change24h:   change24h,
		MarketCap:   marketCap,
		LastUpdated: lastUpdated.UTC(),
	}
}

// Age returns how old the snapshot is at now. Clock skew never yields a negative age.
func (p *PriceSnapshot) Age(now time.Time) time.Duration {
	age := now.Sub(p.LastUpdated)
	if age < 0 {
		return 0
	}
	return age
}

// IsFreshAt is true iff now - LastUpdated < threshold
func (p *PriceSnapshot) IsFreshAt(now time.Time, threshold time.Duration) bool {
	if p == nil {
		return false
	}
	return now.Sub(p.LastUpdated) < threshold
}

// WithExpiry returns a copy stamped with the store-level expiry; ttl <= 0 means none
func (p *PriceSnapshot) WithExpiry(ttl time.Duration) *PriceSnapshot {
	cp := *p
	cp.ExpiresAt = time.Time{}
	if ttl > 0 {
		cp.ExpiresAt = p.LastUpdated.Add(ttl)
	}
	return &cp
}

// CacheEntryStatus is the diagnostic view of one symbol in the cache
type CacheEntryStatus struct {
	Exists       bool      `json:"exists"`
	IsFresh      bool      `json:"isFresh"`
	AgeSeconds   float64   `json:"ageSeconds"`
	NeedsRefresh bool      `json:"needsRefresh"`
	LastUpdated  time.Time `json:"lastUpdated,omitempty"`
}
