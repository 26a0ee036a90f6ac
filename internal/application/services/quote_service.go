package services

import (
	"context"
	"fmt"
	"time"

	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/domain/interfaces"
	"crypto-quote-service/internal/infrastructure/logging"
	"crypto-quote-service/internal/infrastructure/metrics"
)

// Orígenes de cada resultado, usados en métricas y logs
const (
	SourceCache    = "cache"
	SourceUpstream = "upstream"
	SourceStale    = "stale"
	SourceMiss     = "miss"
)

// QuoteConfig holds the freshness policy used on the request path
type QuoteConfig struct {
	FreshnessThreshold time.Duration
	SnapshotTTL        time.Duration
}

// quoteService orquesta auth, caché, proveedor y fallback a datos obsoletos
type quoteService struct {
	auth     interfaces.Authenticator
	cache    *CacheManager
	provider interfaces.PriceProvider
	universe *entities.SymbolUniverse
	config   QuoteConfig
	business logging.BusinessLogger
	now      func() time.Time
}

// NewQuoteService creates the request orchestrator
func NewQuoteService(auth interfaces.Authenticator, cache *CacheManager, provider interfaces.PriceProvider, universe *entities.SymbolUniverse, config QuoteConfig) interfaces.QuoteService {
	if config.FreshnessThreshold <= 0 {
		config.FreshnessThreshold = DefaultFreshnessThreshold
	}
	if config.SnapshotTTL <= 0 {
		config.SnapshotTTL = DefaultSnapshotTTL
	}
	return &quoteService{
		auth:     auth,
		cache:    cache,
		provider: provider,
		universe: universe,
		config:   config,
		business: logging.Business(),
		now:      time.Now,
	}
}

// GetQuotes authenticates, serves fresh snapshots from the cache, fetches the
// stale-or-missing subset and falls back to stale data when the provider fails.
func (s *quoteService) GetQuotes(ctx context.Context, apiKey string, symbols []string) (*entities.QuoteResult, error) {
	requestID := logging.GetRequestID(ctx)

	// 1. Autenticación antes de cualquier trabajo de caché o proveedor
	if _, _, err := s.auth.Authenticate(ctx, apiKey); err != nil {
		return nil, apperror.From(err).WithCorrelationID(requestID)
	}

	// 2. Normalización
	requested := s.normalize(symbols)
	result := entities.NewQuoteResult(requested, s.now())
	s.business.QuoteRequested(ctx, requested)

	supported := make([]string, 0, len(requested))
	for _, symbol := range requested {
		if s.universe.Contains(symbol) {
			supported = append(supported, symbol)
			continue
		}
		s.business.ValidationFailed(ctx, symbol, "unsupported symbol")
		result.Results[symbol] = entities.SymbolResult{
			Symbol: symbol,
			Err:    apperror.Validation(fmt.Sprintf("Unsupported symbol: %s", symbol)).WithCorrelationID(requestID),
		}
	}
	if len(supported) == 0 {
		return result, apperror.Validation("No supported symbols requested").
			WithDetail("symbols", requested).
			WithCorrelationID(requestID)
	}

	// 3. Lectura y partición
	cached, err := s.cache.Lookup(ctx, supported)
	if err != nil {
		logging.WarnWithError(ctx, "Cache read failed, treating all symbols as missing", err, logging.Fields{
			logging.FieldSymbolCount: len(supported),
		})
		cached = map[string]*entities.PriceSnapshot{}
	}
	status := s.cache.StatusOf(cached, supported, s.config.FreshnessThreshold)

	var toFetch []string
	for _, symbol := range supported {
		if status[symbol].IsFresh {
			s.serve(ctx, result, cached[symbol], SourceCache, false)
			continue
		}
		toFetch = append(toFetch, symbol)
	}

	// 4-5. Proveedor con fallback
	if len(toFetch) > 0 {
		s.fetchMissing(ctx, result, toFetch, cached, requestID)
	}

	// 6. Nada disponible
	if result.SuccessCount() == 0 {
		unavailable := apperror.ServiceUnavailable("Price data unavailable for all requested symbols")
		for _, symbol := range requested {
			if r, ok := result.Results[symbol]; ok && r.Err != nil {
				unavailable.WithDetail(symbol, r.Err.Message)
			}
		}
		return result, unavailable.WithCorrelationID(requestID)
	}
	return result, nil
}

func (s *quoteService) fetchMissing(ctx context.Context, result *entities.QuoteResult, toFetch []string, cached map[string]*entities.PriceSnapshot, requestID string) {
	fetched, fetchErr := s.provider.FetchPrices(ctx, toFetch)

	bySymbol := make(map[string]*entities.PriceSnapshot, len(fetched))
	for _, snapshot := range fetched {
		bySymbol[snapshot.Symbol] = snapshot
	}

	if fetchErr == nil && len(fetched) > 0 {
		if err := s.cache.PutBatch(ctx, fetched, s.config.SnapshotTTL); err != nil {
			logging.WarnWithError(ctx, "Cache write-back failed", err, logging.Fields{
				logging.FieldSymbolCount: len(fetched),
			})
		}
	}

	reason := "symbol missing from provider response"
	if fetchErr != nil {
		reason = fetchErr.Error()
		logging.WarnWithError(ctx, "Provider fetch failed, falling back to cached data", fetchErr, logging.Fields{
			logging.FieldSymbols: toFetch,
		})
	}

	for _, symbol := range toFetch {
		if snapshot, ok := bySymbol[symbol]; ok && fetchErr == nil {
			s.serve(ctx, result, snapshot, SourceUpstream, false)
			continue
		}
		if snapshot, ok := cached[symbol]; ok && snapshot != nil {
			s.serve(ctx, result, snapshot, SourceStale, true)
			continue
		}
		metrics.RecordQuoteResult(symbol, SourceMiss)
		s.business.SymbolUnavailable(ctx, symbol, reason)
		result.Results[symbol] = entities.SymbolResult{
			Symbol: symbol,
			Err:    apperror.ServiceUnavailable(fmt.Sprintf("Price data unavailable for %s", symbol)).WithCorrelationID(requestID),
		}
	}
}

func (s *quoteService) serve(ctx context.Context, result *entities.QuoteResult, snapshot *entities.PriceSnapshot, source string, stale bool) {
	metrics.RecordQuoteResult(snapshot.Symbol, source)
	if source == SourceUpstream {
		metrics.UpdateCurrentPrice(snapshot.Symbol, snapshot.Price.InexactFloat64())
	}
	s.business.PriceServed(ctx, snapshot.Symbol, snapshot.Price.String(), source, stale)
	result.Results[snapshot.Symbol] = entities.SymbolResult{
		Symbol:   snapshot.Symbol,
		Snapshot: snapshot,
		Stale:    stale,
	}
}

// normalize trims, upper-cases and de-duplicates; an empty request means the whole universe
func (s *quoteService) normalize(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, raw := range symbols {
		symbol := entities.NormalizeSymbol(raw)
		if symbol == "" {
			continue
		}
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}
		out = append(out, symbol)
	}
	if len(out) == 0 {
		return s.universe.Symbols()
	}
	return out
}
