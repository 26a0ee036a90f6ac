package coingecko

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// symbolToID mapea tickers a identificadores de CoinGecko
var symbolToID = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"ADA":   "cardano",
	"BNB":   "binancecoin",
	"XRP":   "ripple",
	"SOL":   "solana",
	"DOT":   "polkadot",
	"DOGE":  "dogecoin",
	"AVAX":  "avalanche-2",
	"MATIC": "matic-network",
	"LINK":  "chainlink",
	"UNI":   "uniswap",
	"LTC":   "litecoin",
	"ATOM":  "cosmos",
	"XLM":   "stellar",
	"ALGO":  "algorand",
	"VET":   "vechain",
	"ICP":   "internet-computer",
	"FIL":   "filecoin",
	"TRX":   "tron",
}

var idToSymbol map[string]string

func init() {
	idToSymbol = make(map[string]string, len(symbolToID))
	for symbol, id := range symbolToID {
		idToSymbol[id] = symbol
	}
}

// ToProviderID convierte un ticker al id de CoinGecko; desconocido -> ticker en minúsculas
func ToProviderID(symbol string) string {
	symbol = strings.ToUpper(symbol)
	if id, ok := symbolToID[symbol]; ok {
		return id
	}
	return strings.ToLower(symbol)
}

// FromProviderID convierte un id de CoinGecko a ticker; desconocido -> id en mayúsculas
func FromProviderID(id string) string {
	if symbol, ok := idToSymbol[id]; ok {
		return symbol
	}
	return strings.ToUpper(id)
}

// Campos de /simple/price
const (
	fieldUSD       = "usd"
	fieldMarketCap = "usd_market_cap"
	fieldChange24h = "usd_24h_change"
)

// simplePriceResponse es el cuerpo de /simple/price: id -> campo -> valor
type simplePriceResponse map[string]map[string]json.RawMessage

// coinQuote son los campos parseados de una moneda
type coinQuote struct {
	Price     decimal.Decimal
	Change24h decimal.Decimal
	MarketCap int64
	// Invalid lista los campos ausentes o malformados que quedaron en cero
	Invalid []string
}

func parseCoin(fields map[string]json.RawMessage) coinQuote {
	var q coinQuote
	var ok bool

	if q.Price, ok = parseDecimal(fields, fieldUSD); !ok {
		q.Invalid = append(q.Invalid, fieldUSD)
	}
	if q.Change24h, ok = parseDecimal(fields, fieldChange24h); !ok {
		q.Invalid = append(q.Invalid, fieldChange24h)
	}
	marketCap, ok := parseDecimal(fields, fieldMarketCap)
	if !ok {
		q.Invalid = append(q.Invalid, fieldMarketCap)
	}
	q.MarketCap = marketCap.IntPart()
	return q
}

func parseDecimal(fields map[string]json.RawMessage, name string) (decimal.Decimal, bool) {
	raw, ok := fields[name]
	if !ok {
		return decimal.Zero, false
	}
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Zero, false
	}
	// Algunos proxies devuelven números como string
	s = strings.Trim(s, `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
