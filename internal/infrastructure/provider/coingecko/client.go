package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/domain/interfaces"
	"crypto-quote-service/internal/infrastructure/config"
	"crypto-quote-service/internal/infrastructure/logging"
	"crypto-quote-service/internal/infrastructure/metrics"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL        = "https://api.coingecko.com/api/v3"
	DefaultAttemptTimeout = 5 * time.Second
	DefaultMaxRetries     = 3
	DefaultBaseDelay      = time.Second
	APIKeyHeader          = "X-CG-API-KEY"

	serviceName    = "coingecko"
	simplePriceURI = "/simple/price"
)

// Client implementa PriceProvider usando /simple/price de CoinGecko.
// Nunca toca la caché: solo obtiene y transforma.
type Client struct {
	baseURL        string
	apiKey         string
	httpClient     *http.Client
	limiter        *rate.Limiter
	maxRetries     uint
	baseDelay      time.Duration
	attemptTimeout time.Duration
	now            func() time.Time
	logger         logging.ExternalAPILogger
}

var _ interfaces.PriceProvider = (*Client)(nil)

// NewClient crea un cliente con la configuración del proveedor
func NewClient(cfg config.ProviderConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	attemptTimeout := cfg.AttemptTimeout
	if attemptTimeout <= 0 {
		attemptTimeout = DefaultAttemptTimeout
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		// El timeout real es por intento (context); este es solo un tope de seguridad
		httpClient:     &http.Client{Timeout: 2 * attemptTimeout},
		limiter:        NewLimiter(cfg.RequestsPerMinute, cfg.Burst),
		maxRetries:     uint(cfg.MaxRetries),
		baseDelay:      baseDelay,
		attemptTimeout: attemptTimeout,
		now:            time.Now,
		logger:         logging.ExternalAPI(),
	}
}

// NewLimiter crea el limitador de salida; rpm <= 0 desactiva el límite
func NewLimiter(requestsPerMinute, burst int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), burst)
}

// FetchPrices obtiene cotizaciones de varios símbolos con reintentos exponenciales.
// Tras agotar los intentos devuelve un *apperror.Error EXTERNAL_API_ERROR.
func (c *Client) FetchPrices(ctx context.Context, symbols []string) ([]*entities.PriceSnapshot, error) {
	symbols = dedupe(symbols)
	if len(symbols) == 0 {
		return []*entities.PriceSnapshot{}, nil
	}

	var (
		snapshots []*entities.PriceSnapshot
		attempts  int
	)
	maxAttempts := c.maxRetries + 1

	retryErr := retry.Do(
		func() error {
			attempts++
			reqCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
			defer cancel()

			result, err := c.doSimplePriceRequest(reqCtx, symbols)
			if err != nil {
				return err
			}
			snapshots = result
			return nil
		},
		retry.Attempts(maxAttempts),
		retry.DelayType(c.backoff),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			// Cancelar el contexto padre detiene los reintentos; todo lo demás se reintenta
			return retry.IsRecoverable(err) && ctx.Err() == nil
		}),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			// retry-go también lo invoca tras el último intento fallido
			if n+1 >= maxAttempts {
				return
			}
			metrics.RecordExternalAPIRetry(serviceName, simplePriceURI, int(n+1))
			logging.Warn(ctx, "CoinGecko API retry attempt", logging.Fields{
				"service":       serviceName,
				"attempt":       n + 1,
				"max_attempts":  maxAttempts,
				"symbols_count": len(symbols),
				"error":         err.Error(),
			})
		}),
	)

	if retryErr != nil {
		upstreamErr := apperror.Upstream(attempts, retryErr).WithCorrelationID(logging.GetRequestID(ctx))
		logging.ErrorWithError(ctx, "Failed to fetch prices from external API", retryErr, logging.Fields{
			logging.FieldAttempts: attempts,
			logging.FieldSymbols:  symbols,
		})
		return nil, upstreamErr
	}

	return snapshots, nil
}

// backoff espera base, 2*base, 4*base... antes de cada reintento; n empieza en 1
func (c *Client) backoff(n uint, _ error, _ *retry.Config) time.Duration {
	if n == 0 {
		return c.baseDelay
	}
	return c.baseDelay << (n - 1)
}

// doSimplePriceRequest realiza un único intento HTTP
func (c *Client) doSimplePriceRequest(ctx context.Context, symbols []string) ([]*entities.PriceSnapshot, error) {
	ids := make([]string, len(symbols))
	for i, symbol := range symbols {
		ids[i] = ToProviderID(symbol)
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", "usd")
	query.Set("include_market_cap", "true")
	query.Set("include_24hr_change", "true")
	endpoint := c.baseURL + simplePriceURI + "?" + query.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: waiting for rate limiter: %v", ErrRetryableRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	c.logger.RequestStarted(ctx, serviceName, simplePriceURI, http.MethodGet)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration := time.Since(requestStart)
	durationMs := float64(requestDuration.Nanoseconds()) / 1e6

	if err != nil {
		c.logger.RequestFailed(ctx, serviceName, simplePriceURI, 0, err, durationMs)
		metrics.RecordExternalAPICall(serviceName, simplePriceURI, 0, requestDuration.Seconds())
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: request timeout after %v", ErrRetryableRequest, c.attemptTimeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrRetryableRequest, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	metrics.RecordExternalAPICall(serviceName, simplePriceURI, resp.StatusCode, requestDuration.Seconds())
	c.logger.RequestCompleted(ctx, serviceName, simplePriceURI, resp.StatusCode, durationMs)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrRetryableRequest, resp.StatusCode)
	}

	var body simplePriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrRetryableRequest, err)
	}

	snapshots := c.transform(ctx, symbols, body)
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrRetryableRequest, ErrNoPriceData)
	}
	return snapshots, nil
}

// transform convierte la respuesta en snapshots; los símbolos ausentes se omiten
func (c *Client) transform(ctx context.Context, symbols []string, body simplePriceResponse) []*entities.PriceSnapshot {
	fetchedAt := c.now().UTC()
	snapshots := make([]*entities.PriceSnapshot, 0, len(symbols))

	requested := make(map[string]struct{}, len(symbols))
	for _, symbol := range symbols {
		requested[symbol] = struct{}{}
	}
	for id := range body {
		symbol := FromProviderID(id)
		if _, ok := requested[symbol]; !ok {
			logging.Debug(ctx, "Ignoring unrequested id in CoinGecko response", logging.Fields{
				"provider_id":       id,
				logging.FieldSymbol: symbol,
			})
		}
	}

	for _, symbol := range symbols {
		fields, ok := body[ToProviderID(symbol)]
		if !ok {
			logging.Warn(ctx, "Symbol missing from CoinGecko response", logging.Fields{
				logging.FieldSymbol: symbol,
			})
			continue
		}

		quote := parseCoin(fields)
		if len(quote.Invalid) > 0 {
			logging.Warn(ctx, "Missing or malformed fields defaulted to zero", logging.Fields{
				logging.FieldSymbol: symbol,
				"fields":            quote.Invalid,
			})
		}

		snapshots = append(snapshots, entities.NewPriceSnapshot(
			symbol,
			entities.DisplayNameFor(symbol),
			quote.Price,
			quote.Change24h,
			quote.MarketCap,
			fetchedAt,
		))
	}

	return snapshots
}

func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = entities.NormalizeSymbol(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
