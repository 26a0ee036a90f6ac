package server

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "crypto-quote-service/docs"
	"crypto-quote-service/internal/infrastructure/config"
	"crypto-quote-service/internal/infrastructure/metrics"
	"crypto-quote-service/internal/infrastructure/web/handlers"
	"crypto-quote-service/internal/infrastructure/web/middleware"
)

// Handlers agrupa los handlers montados en el router
type Handlers struct {
	Prices *handlers.PricesHandler
	Admin  *handlers.AdminHandler
	Health *handlers.HealthHandler
}

// NewRouter registers every route and wraps the router with the middleware chain.
// CORS preflights and 404s go through the chain as well.
func NewRouter(h Handlers, auth config.AuthConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	// Health y monitoreo
	r.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	r.HandleFunc("/ready", h.Health.Ready).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Documentación
	r.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Handle("/docs", http.RedirectHandler("/swagger/index.html", http.StatusMovedPermanently))

	// API
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/prices", h.Prices.GetPrices).Methods(http.MethodGet)
	api.HandleFunc("/prices/{symbol}", h.Prices.GetPrice).Methods(http.MethodGet)
	api.HandleFunc("/admin/refresh", h.Admin.Refresh).Methods(http.MethodPost)

	allowedHeaders := strings.Join([]string{"Content-Type", authHeader(auth)}, ", ")

	var handler http.Handler = r
	handler = middleware.NewAuthMiddleware(auth).Handler(handler)
	handler = middleware.CORSMiddleware(allowedHeaders)(handler)
	handler = metrics.HTTPMetricsMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestTracingMiddleware(handler)
	return handler
}

func authHeader(auth config.AuthConfig) string {
	if auth.HeaderName == "" {
		return middleware.DefaultAPIKeyHeader
	}
	return auth.HeaderName
}
