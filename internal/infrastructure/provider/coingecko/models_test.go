package coingecko

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderIDMapping(t *testing.T) {
	tests := []struct {
		symbol string
		id     string
	}{
		{"BTC", "bitcoin"},
		{"bnb", "binancecoin"},
		{"AVAX", "avalanche-2"},
		{"MATIC", "matic-network"},
		{"ICP", "internet-computer"},
		{"XYZ", "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.id, ToProviderID(tt.symbol))
		})
	}

	assert.Equal(t, "AVAX", FromProviderID("avalanche-2"))
	assert.Equal(t, "XYZ", FromProviderID("xyz"))
	assert.Len(t, idToSymbol, len(symbolToID), "ids are unique")
}

func TestParseCoin(t *testing.T) {
	var fields map[string]json.RawMessage
	err := json.Unmarshal([]byte(`{"usd": 1.5e3, "usd_market_cap": 123456789.99}`), &fields)
	assert.NoError(t, err)

	q := parseCoin(fields)
	assert.Equal(t, "1500", q.Price.String())
	assert.Equal(t, int64(123456789), q.MarketCap)
	assert.True(t, q.Change24h.IsZero())
	assert.Equal(t, []string{fieldChange24h}, q.Invalid)
}
