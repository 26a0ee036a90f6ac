package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the crypto quote service
var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crypto_quote_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crypto_quote_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPResponseSizeBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crypto_quote_http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"method", "path"},
	)

	// Store Metrics
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crypto_quote_store_operations_total",
			Help: "Total number of key value store operations",
		},
		[]string{"backend", "operation", "result"}, // result: success/not_found/error
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crypto_quote_store_operation_duration_seconds",
			Help:    "Key value store operation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"backend", "operation"},
	)

	// External API Metrics
	ExternalAPIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crypto_quote_external_api_requests_total",
			Help: "Total number of external API requests",
		},
		[]string{"service", "endpoint", "status_code"},
	)

	ExternalAPIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crypto_quote_external_api_request_duration_seconds",
			Help:    "External API request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
		[]string{"service", "endpoint"},
	)

	ExternalAPIRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crypto_quote_external_api_retries_total",
			Help: "Total number of external API retry attempts",
		},
		[]string{"service", "endpoint", "attempt"},
	)

	// Business Metrics
	QuoteResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crypto_quote_symbol_results_total",
			Help: "Per symbol quote outcomes",
		},
		[]string{"symbol", "source"}, // source: fresh/upstream/stale/unavailable/invalid
	)

	RefreshRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crypto_quote_refresh_runs_total",
			Help: "Total number of scheduled refresh runs",
		},
		[]string{"status"}, // status: success/upstream_error/store_error
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crypto_quote_refresh_duration_seconds",
			Help:    "Duration of refresh runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30},
		},
	)

	LastRefreshSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crypto_quote_last_refresh_success_timestamp_seconds",
			Help: "Unix time of the last successful refresh run",
		},
	)

	CurrentPrices = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crypto_quote_current_price_usd",
			Help: "Last refreshed price in USD",
		},
		[]string{"symbol"},
	)

	// Quota Metrics
	QuotaDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crypto_quote_quota_decisions_total",
			Help: "Total number of quota checks",
		},
		[]string{"result"}, // result: allowed/blocked
	)

	AuthFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crypto_quote_auth_failures_total",
			Help: "Total number of rejected credentials",
		},
	)

	// Application Metrics
	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crypto_quote_application_info",
			Help: "Application information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, path string, statusCode int, duration float64, responseSize int64) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	if responseSize > 0 {
		HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordStoreOperation records store operation metrics
func RecordStoreOperation(backend, operation, result string, duration time.Duration) {
	StoreOperationsTotal.WithLabelValues(backend, operation, result).Inc()
	StoreOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordExternalAPICall records external API call metrics
func RecordExternalAPICall(service, endpoint string, statusCode int, duration float64) {
	ExternalAPIRequestsTotal.WithLabelValues(service, endpoint, strconv.Itoa(statusCode)).Inc()
	ExternalAPIRequestDuration.WithLabelValues(service, endpoint).Observe(duration)
}

// RecordExternalAPIRetry records external API retry attempts
func RecordExternalAPIRetry(service, endpoint string, attempt int) {
	ExternalAPIRetries.WithLabelValues(service, endpoint, strconv.Itoa(attempt)).Inc()
}

// RecordQuoteResult records where a symbol's answer came from
func RecordQuoteResult(symbol, source string) {
	QuoteResultsTotal.WithLabelValues(symbol, source).Inc()
}

// RecordRefreshRun records a refresh run and, on success, its timestamp
func RecordRefreshRun(status string, duration time.Duration, finishedAt time.Time) {
	RefreshRunsTotal.WithLabelValues(status).Inc()
	RefreshDuration.Observe(duration.Seconds())
	if status == "success" {
		LastRefreshSuccess.Set(float64(finishedAt.Unix()))
	}
}

// UpdateCurrentPrice updates current price gauge
func UpdateCurrentPrice(symbol string, price float64) {
	CurrentPrices.WithLabelValues(symbol).Set(price)
}

// RecordQuotaDecision records quota results
func RecordQuotaDecision(allowed bool) {
	result := "blocked"
	if allowed {
		result = "allowed"
	}
	QuotaDecisionsTotal.WithLabelValues(result).Inc()
}

// RecordAuthFailure counts a rejected credential
func RecordAuthFailure() {
	AuthFailuresTotal.Inc()
}

// SetApplicationInfo sets application information
func SetApplicationInfo(version, goVersion string) {
	ApplicationInfo.WithLabelValues(version, goVersion).Set(1)
}
