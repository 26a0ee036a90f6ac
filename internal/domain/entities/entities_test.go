package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPriceSnapshot_Freshness(t *testing.T) {
	now := time.Now()
	snap := NewPriceSnapshot("BTC", "Bitcoin", decimal.RequireFromString("45000.123"), decimal.RequireFromString("2.5"), 880000000000, now.Add(-30*time.Second))

	assert.True(t, snap.IsFreshAt(now, time.Minute))
	assert.False(t, snap.IsFreshAt(now, 30*time.Second), "age equal to threshold is not fresh")
	assert.InDelta(t, 30, snap.Age(now).Seconds(), 0.01)

	var missing *PriceSnapshot
	assert.False(t, missing.IsFreshAt(now, time.Hour))
}

func TestPriceSnapshot_AgeNeverNegative(t *testing.T) {
	now := time.Now()
	snap := NewPriceSnapshot("ETH", "Ethereum", decimal.NewFromInt(1), decimal.Zero, 0, now.Add(time.Minute))
	assert.Equal(t, time.Duration(0), snap.Age(now))
}

func TestSymbolUniverse(t *testing.T) {
	u := NewSymbolUniverse([]string{"btc", " ETH ", "BTC", ""})
	assert.Equal(t, []string{"BTC", "ETH"}, u.Symbols())
	assert.True(t, u.Contains("eth"))
	assert.False(t, u.Contains("DOGE"))

	def := NewSymbolUniverse(nil)
	assert.Equal(t, len(DefaultAssets), def.Len())
	assert.True(t, def.Contains("TRX"))
}

func TestDisplayNameFor(t *testing.T) {
	assert.Equal(t, "Binance Coin", DisplayNameFor("bnb"))
	assert.Equal(t, "FOO", DisplayNameFor("foo"))
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "ck_abcd***", MaskKey("ck_abcdefghijk"))
	assert.Equal(t, "key_***", MaskKey("short"))
}

func TestQuoteResult_Counts(t *testing.T) {
	q := NewQuoteResult([]string{"BTC", "ETH"}, time.Now())
	q.Results["BTC"] = SymbolResult{Symbol: "BTC", Snapshot: &PriceSnapshot{Symbol: "BTC"}, Stale: true}
	q.Results["ETH"] = SymbolResult{Symbol: "ETH"}

	assert.Equal(t, 1, q.SuccessCount())
	assert.True(t, q.IsPartial())
	assert.True(t, q.HasStale())
}
