package entities

import "strings"

// Asset describes one tracked symbol and its display name
type Asset struct {
	Symbol      string
	DisplayName string
}

// DefaultAssets is the symbol universe used when none is configured
var DefaultAssets = []Asset{
	{"BTC", "Bitcoin"},
	{"ETH", "Ethereum"},
	{"ADA", "Cardano"},
	{"BNB", "Binance Coin"},
	{"XRP", "XRP"},
	{"SOL", "Solana"},
	{"DOT", "Polkadot"},
	{"DOGE", "Dogecoin"},
	{"AVAX", "Avalanche"},
	{"MATIC", "Polygon"},
	{"LINK", "Chainlink"},
	{"UNI", "Uniswap"},
	{"LTC", "Litecoin"},
	{"ATOM", "Cosmos"},
	{"XLM", "Stellar"},
	{"ALGO", "Algorand"},
	{"VET", "VeChain"},
	{"ICP", "Internet Computer"},
	{"FIL", "Filecoin"},
	{"TRX", "TRON"},
}

var displayNames map[string]string

func init() {
	displayNames = make(map[string]string, len(DefaultAssets))
	for _, a := range DefaultAssets {
		displayNames[a.Symbol] = a.DisplayName
	}
}

// DisplayNameFor returns the human name of a symbol, or the symbol itself when unknown
func DisplayNameFor(symbol string) string {
	if name, ok := displayNames[strings.ToUpper(symbol)]; ok {
		return name
	}
	return strings.ToUpper(symbol)
}

// NormalizeSymbol trims and upper-cases a ticker
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// SymbolUniverse is the ordered, de-duplicated set of symbols the service tracks
type SymbolUniverse struct {
	symbols []string
	index   map[string]struct{}
}

// NewSymbolUniverse builds a universe from configured symbols.
// An empty list yields DefaultAssets.
func NewSymbolUniverse(symbols []string) *SymbolUniverse {
	u := &SymbolUniverse{index: make(map[string]struct{})}
	if len(symbols) == 0 {
		for _, a := range DefaultAssets {
			symbols = append(symbols, a.Symbol)
		}
	}
	for _, s := range symbols {
		s = NormalizeSymbol(s)
		if s == "" {
			continue
		}
		if _, dup := u.index[s]; dup {
			continue
		}
		u.index[s] = struct{}{}
		u.symbols = append(u.symbols, s)
	}
	return u
}

// Symbols returns a copy of the universe in configured order
func (u *SymbolUniverse) Symbols() []string {
	out := make([]string, len(u.symbols))
	copy(out, u.symbols)
	return out
}

// Contains reports whether symbol is tracked
func (u *SymbolUniverse) Contains(symbol string) bool {
	_, ok := u.index[NormalizeSymbol(symbol)]
	return ok
}

// Len returns the number of tracked symbols
func (u *SymbolUniverse) Len() int {
	return len(u.symbols)
}
